package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/service"
	"github.com/kirsrus/patient-monitor/service/mocks"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const message = "Warning, patient with id: 2374b10e-fd4a-47a3-82f1-cc6aee558a62, need help"

var (
	_ service.AlertSvc = (*Log)(nil)
	_ service.AlertSvc = Multi{}
	_ service.AlertSvc = (*Websocket)(nil)
	_ service.AlertSvc = (*Kafka)(nil)
)

func TestLog_Send(t *testing.T) {
	log, hook := logrusTest.NewNullLogger()
	NewLog(log).Send(message)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, message, hook.LastEntry().Message)
	assert.Equal(t, "log", hook.LastEntry().Data["sender"])
}

func TestMulti_Send(t *testing.T) {
	first := &mocks.AlertSvc{}
	first.On("Send", message).Return()
	second := &mocks.AlertSvc{}
	second.On("Send", message).Return()

	multi := NewMulti(first, nil, second)
	assert.Len(t, multi, 2)
	multi.Send(message)

	first.AssertNumberOfCalls(t, "Send", 1)
	second.AssertNumberOfCalls(t, "Send", 1)
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *fakeWriter) Close() error {
	m.closed = true
	return nil
}

func TestNewKafka(t *testing.T) {
	tests := []struct {
		name    string
		config  *ConfigKafka
		wantErr bool
	}{
		{name: "без конфигурации", config: nil, wantErr: true},
		{name: "без брокеров", config: &ConfigKafka{Topic: "alerts"}, wantErr: true},
		{name: "без топика", config: &ConfigKafka{Brokers: []string{"127.0.0.1:9092"}}, wantErr: true},
		{name: "корректный", config: &ConfigKafka{Brokers: []string{"127.0.0.1:9092"}, Topic: "alerts"}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKafka(context.Background(), tt.config)
			assert.Equal(t, tt.wantErr, err != nil, "ошибка: %v", err)
		})
	}
}

func TestKafka_Send(t *testing.T) {
	writer := &fakeWriter{}
	sender, err := NewKafka(context.Background(), &ConfigKafka{Writer: writer, Topic: "alerts"})
	require.NoError(t, err)

	sender.Send(message)

	require.Len(t, writer.messages, 1)
	var payload model.AlertPayload
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &payload))
	assert.Equal(t, message, payload.Message)
	assert.False(t, payload.CreateAt.IsZero())

	require.NoError(t, sender.Close())
	assert.True(t, writer.closed)
}

func TestKafka_SendFailureIsLogged(t *testing.T) {
	log, hook := logrusTest.NewNullLogger()
	writer := &fakeWriter{err: errors.New("брокер недоступен")}
	sender, err := NewKafka(context.Background(), &ConfigKafka{Log: log, Writer: writer})
	require.NoError(t, err)

	assert.NotPanics(t, func() { sender.Send(message) })
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNewWebsocket(t *testing.T) {
	tests := []struct {
		name    string
		config  *ConfigWebsocket
		wantErr bool
	}{
		{name: "без конфигурации", config: nil, wantErr: true},
		{name: "не websocket", config: &ConfigWebsocket{URL: "http://127.0.0.1:8000/alarm"}, wantErr: true},
		{name: "корректный", config: &ConfigWebsocket{URL: "ws://127.0.0.1:1/alarm"}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			_, err := NewWebsocket(ctx, tt.config)
			assert.Equal(t, tt.wantErr, err != nil, "ошибка: %v", err)
		})
	}
}

func TestWebsocket_Send(t *testing.T) {
	received := make(chan []byte, 1)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- msg
		// Держим соединение, пока клиент его не закроет
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender, err := NewWebsocket(ctx, &ConfigWebsocket{
		URL:              "ws" + strings.TrimPrefix(server.URL, "http"),
		ReconnectTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	sender.Send(message)

	select {
	case msg := <-received:
		var payload model.AlertPayload
		require.NoError(t, json.Unmarshal(msg, &payload))
		assert.Equal(t, message, payload.Message)
	case <-time.After(5 * time.Second):
		t.Fatal("тревога не доставлена")
	}
}
