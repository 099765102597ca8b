package reading

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"
	"github.com/kirsrus/patient-monitor/pkg/validator"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	MaximumResultChan = 20
	ReconnectTimeout  = 5 * time.Second
	readChanCapacity  = 10
)

// Тип текущего состояния подключения к устройству
type connectType int

const (
	connectUnknown connectType = iota
	connectSuccess
	connectFailed
)

// Websocket имплементация подключения к каналу замеров прикроватного устройства по WebSocket.
// Инициируется через NewWebsocket. Постоянно держит соединение, пока не отменён ctx.
type Websocket struct {
	feedInfo         model.FeedInfo
	ctx              context.Context
	log              *logrus.Entry
	validator        *validator.Validator
	reconnectTimeout time.Duration
	// Канал передачи результата
	resultChan    chan model.ReadingEvent
	connectedFlag connectType
}

// ConfigWebsocket конфигурация Websocket
type ConfigWebsocket struct {
	Log              *logrus.Logger
	FeedInfo         model.FeedInfo
	ReconnectTimeout time.Duration
}

// NewWebsocket конструктор структуры Websocket
func NewWebsocket(ctx context.Context, config *ConfigWebsocket) (*Websocket, error) {
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	}
	valid := validator.Get()
	if err := valid.ValidateWithConform(&config.FeedInfo); err != nil {
		return nil, errors.Annotate(err, "некорректное описание канала замеров")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}

	res := &Websocket{
		feedInfo: config.FeedInfo,
		ctx:      ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module":  "reading",
			"scope":   "service",
			"feed":    config.FeedInfo.Name,
			"address": config.FeedInfo.URL,
		}),
		validator:        valid,
		reconnectTimeout: ReconnectTimeout,
		resultChan:       make(chan model.ReadingEvent, MaximumResultChan),
		connectedFlag:    connectUnknown,
	}
	if config.ReconnectTimeout != 0 {
		res.reconnectTimeout = config.ReconnectTimeout
	}

	// Запускаем бесконечный цикл переподключения к устройству.
	go res.loop()

	return res, nil
}

// Бесконечный цикл обращения к WebSocket устройства. При завершении работы через context.Cancel просто
// завершаем его обработку
func (m *Websocket) loop() {
	m.log.Info("старт работы модуля")

	for {
		select {
		case <-m.ctx.Done():
			m.log.Info("завершение работы модуля")
			return
		default:
		}

		err := m.connect()
		if err != nil && errors.Cause(err) != context.Canceled {
			select {
			case <-m.ctx.Done():
			case <-time.After(m.reconnectTimeout):
			}
		}
	}
}

// Подключение по WebSocket к устройству
func (m *Websocket) connect() error {
	read := make(chan []byte, readChanCapacity)
	done := make(chan error, 1)

	conn, _, err := websocket.DefaultDialer.DialContext(m.ctx, m.feedInfo.URL, nil)
	if err != nil {
		if m.connectedFlag == connectUnknown || m.connectedFlag == connectSuccess {
			m.log.Warnf("ошибка подключения: %v", err)
		}
		m.connectedFlag = connectFailed
		return errors.Trace(err)
	}
	defer func() { _ = conn.Close() }()
	if m.connectedFlag == connectUnknown || m.connectedFlag == connectFailed {
		m.log.Infof("подключение установлено")
		m.connectedFlag = connectSuccess
	}

	// Бесконечно читаем из канала WebSocket
	go func() {
		for {
			tpe, message, err := conn.ReadMessage()
			if err != nil {
				if !strings.Contains(err.Error(), "use of closed network connection") {
					m.log.Warnf("ошибка чтения из WebSocket: %v", err)
					done <- errors.Trace(err)
				} else {
					done <- nil
				}
				return
			}
			if tpe != websocket.TextMessage {
				m.log.Warnf("пропущено нетиповое послание типа %d, размера %d", tpe, len(message))
				continue
			}

			select {
			case <-m.ctx.Done():
				return
			case read <- message:
			default:
				m.log.Warnf("очередь read переполнена")
			}
		}
	}()

	// Обрабатываем результат чтения
	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case err := <-done:
			return err
		case message := <-read:
			event, err := m.parse(message, time.Now())
			if err != nil {
				m.log.Warn(err)
				metrics.ReadingsTotal.WithLabelValues(m.feedInfo.Name, metrics.ResultRejected).Inc()
				continue
			}
			metrics.ReadingsTotal.WithLabelValues(m.feedInfo.Name, metrics.ResultAccepted).Inc()

			select {
			case <-m.ctx.Done():
				return m.ctx.Err()
			case m.resultChan <- *event:
			default:
				m.log.Warnf("очередь resultChan переполнена")
			}
		}
	}
}

// Разбор сообщения устройства
func (m *Websocket) parse(message []byte, receivedAt time.Time) (*model.ReadingEvent, error) {
	msg := model.FeedReading{}
	if err := json.Unmarshal(message, &msg); err != nil {
		return nil, errors.Errorf("пришёл некорректный json \"%s\" с ошибкой: %v", string(message), err)
	}
	if err := m.validator.ValidateWithConform(&msg); err != nil {
		return nil, errors.Annotate(err, "ошибка валидации полученного json")
	}
	event, err := msg.ToEvent(m.feedInfo.Name, receivedAt)
	if err != nil {
		return nil, errors.Annotate(err, "некорректный замер")
	}
	return event, nil
}

// EmmitReading ожидает очередной замер с устройства. Возвращает context.Canceled при завершении работы
func (m *Websocket) EmmitReading() (*model.ReadingEvent, error) {
	select {
	case <-m.ctx.Done():
		return nil, m.ctx.Err()
	case event := <-m.resultChan:
		return &event, nil
	}
}
