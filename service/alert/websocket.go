package alert

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
	"golang.org/x/sync/errgroup"
)

const (
	writeChanCapacity = 100
	reconnectTimeout  = 10 * time.Second
	writeTimeout      = 3 * time.Second
	senderWebsocket   = "websocket"
)

// Тип текущего состояния подключения к консоли тревог
type connectType int

const (
	connectUnknown connectType = iota
	connectSuccess
	connectFailed
)

// Websocket отправка тревог в консоль дежурного персонала по WebSocket. Имплементирует интерфейс AlertSvc.
// Инициируется конструктором NewWebsocket. Постоянно держит подключение, пока не отменён ctx
type Websocket struct {
	ctx              context.Context
	log              *logrus.Entry
	url              string
	reconnectTimeout time.Duration
	writeTimeout     time.Duration
	connectedFlag    connectType
	writeChan        chan []byte // Канал отправки тревог в консоль
}

// ConfigWebsocket конфигурация конструктора NewWebsocket
type ConfigWebsocket struct {
	Log              *logrus.Logger
	URL              string `conform:"trim" validate:"required,websocket"`
	ReconnectTimeout time.Duration
	WriteTimeout     time.Duration
}

// NewWebsocket конструктор Websocket
func NewWebsocket(ctx context.Context, config *ConfigWebsocket) (*Websocket, error) {
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	} else if err := validator.Get().ValidateWithConform(config); err != nil {
		return nil, errors.Annotate(err, "ошибка в конфигурации")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}

	res := &Websocket{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module":  "alert",
			"scope":   "service",
			"sender":  senderWebsocket,
			"address": config.URL,
		}),
		url:              config.URL,
		reconnectTimeout: reconnectTimeout,
		writeTimeout:     writeTimeout,
		connectedFlag:    connectUnknown,
		writeChan:        make(chan []byte, writeChanCapacity),
	}
	if config.ReconnectTimeout != 0 {
		res.reconnectTimeout = config.ReconnectTimeout
	}
	if config.WriteTimeout != 0 {
		res.writeTimeout = config.WriteTimeout
	}

	go res.loop()

	return res, nil
}

// Кольцевое подключение к консоли тревог
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

// Подключение по WebSocket к консоли тревог и отправка накопленных сообщений
func (m *Websocket) connect() error {
	conn, _, err := websocket.DefaultDialer.DialContext(m.ctx, m.url, nil)
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

	closed := make(chan struct{})
	g := new(errgroup.Group)

	// Чтение из канала. Консоль ничего не присылает, читаем только чтобы узнать о закрытии соединения
	g.Go(func() error {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !strings.Contains(err.Error(), "use of closed network connection") {
					m.log.Warnf("ошибка чтения из WebSocket: %v", err)
					return errors.Trace(err)
				}
				return nil
			}
		}
	})

	// Запись в канал
	g.Go(func() error {
		for {
			select {
			case <-m.ctx.Done():
				_ = conn.Close()
				return m.ctx.Err()
			case <-closed:
				return nil
			case write := <-m.writeChan:
				_ = conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, write); err != nil {
					m.log.Warnf("ошибка записи в WebSocket: %v", err)
					metrics.AlertsTotal.WithLabelValues(senderWebsocket, metrics.ResultFailed).Inc()
					_ = conn.Close()
					return errors.Trace(err)
				}
				metrics.AlertsTotal.WithLabelValues(senderWebsocket, metrics.ResultSent).Inc()
			}
		}
	})

	return errors.Trace(g.Wait())
}

// Send ставит тревогу в очередь отправки. При переполнении очереди тревога отбрасывается с записью в лог
func (m *Websocket) Send(message string) {
	msg, err := json.Marshal(model.AlertPayload{Message: message, CreateAt: time.Now()})
	if err != nil {
		m.log.Errorf("ошибка создания JSON: %v", err)
		return
	}
	m.log.Debugf("отсыл тревоги в консоль: %s", message)

	select {
	case <-m.ctx.Done():
	case m.writeChan <- msg:
	default:
		m.log.Warnf("канал writeChan переполнен, тревога потеряна: %s", message)
		metrics.AlertsTotal.WithLabelValues(senderWebsocket, metrics.ResultFailed).Inc()
	}
}
