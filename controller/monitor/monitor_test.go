package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/kirsrus/patient-monitor/controller"
	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/service"
	"github.com/kirsrus/patient-monitor/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ controller.MonitorCtl = (*Monitor)(nil)

// Канал, отдающий один замер и затем ожидающий завершения работы
func oneReading(ctx context.Context, event *model.ReadingEvent) *mocks.ReadingSvc {
	feed := &mocks.ReadingSvc{}
	feed.On("EmmitReading").Return(event, nil).Once()
	feed.On("EmmitReading").Return(nil, context.Canceled).Run(func(mock.Arguments) {
		<-ctx.Done()
	})
	return feed
}

func TestNewMonitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := NewMonitor(ctx, nil, &ConfigMonitor{})
	assert.Error(t, err)
	_, err = NewMonitor(ctx, []service.ReadingSvc{}, nil)
	assert.Error(t, err)
	_, err = NewMonitor(ctx, []service.ReadingSvc{}, &ConfigMonitor{})
	assert.NoError(t, err)
}

func TestMonitor_EmmitReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := &model.ReadingEvent{PatientID: "p1", Kind: model.ReadingPressure, Feed: "палата 1"}
	second := &model.ReadingEvent{PatientID: "p2", Kind: model.ReadingTemperature, Feed: "палата 2"}

	monitor, err := NewMonitor(ctx, []service.ReadingSvc{
		oneReading(ctx, first),
		oneReading(ctx, second),
	}, &ConfigMonitor{})
	require.NoError(t, err)

	got := make(map[string]string)
	for i := 0; i < 2; i++ {
		done := make(chan *model.ReadingEvent, 1)
		go func() {
			event, err := monitor.EmmitReading()
			assert.NoError(t, err)
			done <- event
		}()
		select {
		case event := <-done:
			require.NotNil(t, event)
			got[event.PatientID] = event.Feed
		case <-time.After(5 * time.Second):
			t.Fatal("замер не получен")
		}
	}
	assert.Equal(t, map[string]string{"p1": "палата 1", "p2": "палата 2"}, got)

	cancel()
	_, err = monitor.EmmitReading()
	assert.Equal(t, context.Canceled, err)
}
