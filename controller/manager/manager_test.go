package manager

import (
	"context"
	"testing"
	"time"

	ctlMocks "github.com/kirsrus/patient-monitor/controller/mocks"
	"github.com/kirsrus/patient-monitor/model"
	svcMocks "github.com/kirsrus/patient-monitor/service/mocks"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Контроллер, отдающий замеры events, а затем ожидающий отмены ctx
func newMonitor(ctx context.Context, events ...*model.ReadingEvent) *ctlMocks.MonitorCtl {
	monitor := &ctlMocks.MonitorCtl{}
	for _, event := range events {
		monitor.On("EmmitReading").Return(event, nil).Once()
	}
	monitor.On("EmmitReading").Return(nil, context.Canceled).Run(func(mock.Arguments) {
		<-ctx.Done()
	})
	return monitor
}

func TestNewManager(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		config  *ConfigManager
		wantErr bool
	}{
		{name: "без конфигурации", config: nil, wantErr: true},
		{name: "без контроллера", config: &ConfigManager{MedicalSvc: &svcMocks.MedicalSvc{}}, wantErr: true},
		{name: "без сервиса проверки", config: &ConfigManager{MonitorCtl: &ctlMocks.MonitorCtl{}}, wantErr: true},
		{name: "корректный", config: &ConfigManager{MonitorCtl: &ctlMocks.MonitorCtl{}, MedicalSvc: &svcMocks.MedicalSvc{}}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(ctx, tt.config)
			assert.Equal(t, tt.wantErr, err != nil, "ошибка: %v", err)
		})
	}
}

func TestManager_Serve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pressure := &model.ReadingEvent{PatientID: "p1", Kind: model.ReadingPressure, Pressure: model.NewBloodPressure(160, 120)}
	temperature := &model.ReadingEvent{PatientID: "p2", Kind: model.ReadingTemperature, Temperature: decimal.RequireFromString("35.14")}
	unknown := &model.ReadingEvent{PatientID: "p3", Kind: "pulse"}

	checked := make(chan string, 2)
	medical := &svcMocks.MedicalSvc{}
	medical.On("CheckBloodPressure", "p1", model.NewBloodPressure(160, 120)).Return(nil).
		Run(func(mock.Arguments) { checked <- "pressure" })
	medical.On("CheckTemperature", "p2", mock.AnythingOfType("decimal.Decimal")).Return(model.ErrPatientNotFound).
		Run(func(mock.Arguments) { checked <- "temperature" })

	log, hook := logrusTest.NewNullLogger()
	log.Level = logrus.DebugLevel
	manager, err := NewManager(ctx, &ConfigManager{
		Log:        log,
		MonitorCtl: newMonitor(ctx, pressure, unknown, temperature),
		MedicalSvc: medical,
	})
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- manager.Serve() }()

	got := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case kind := <-checked:
			got[kind] = true
		case <-time.After(5 * time.Second):
			t.Fatal("замер не обработан")
		}
	}
	assert.Equal(t, map[string]bool{"pressure": true, "temperature": true}, got)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve не завершился")
	}

	var warnings []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings = append(warnings, entry.Message)
		}
	}
	assert.Contains(t, warnings, "неизвестный тип замера pulse")
}

func TestManager_ServeWebError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	web := &svcMocks.WebSvc{}
	web.On("Serve").Return(errors.New("порт занят"))

	manager, err := NewManager(ctx, &ConfigManager{
		MonitorCtl: newMonitor(ctx),
		MedicalSvc: &svcMocks.MedicalSvc{},
		WebSvc:     web,
	})
	require.NoError(t, err)

	err = manager.Serve()
	assert.Error(t, err)
}
