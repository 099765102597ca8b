package monitor

import (
	"context"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/service"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// Величина канала замеров от устройств
	eventCapacity = 10
)

// Monitor контроллер группы каналов замеров. Инициализируется через NewMonitor. Держит постоянное
// подключение ко всем каналам и через EmmitReading отдаёт замеры с любого из них.
type Monitor struct {
	ctx context.Context
	log *logrus.Entry

	readingsSvc []service.ReadingSvc

	event chan *model.ReadingEvent
}

// ConfigMonitor конфигурация Monitor
type ConfigMonitor struct {
	Log *logrus.Logger
	// Величина канала замеров от устройств
	EventCapacity uint
}

// NewMonitor конструктор Monitor
func NewMonitor(ctx context.Context, readingsSvc []service.ReadingSvc, config *ConfigMonitor) (*Monitor, error) {
	if config == nil {
		return nil, errors.New("не установлен config")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if readingsSvc == nil {
		return nil, errors.New("не указан список readingsSvc")
	}

	capacity := uint(eventCapacity)
	if config.EventCapacity != 0 {
		capacity = config.EventCapacity
	}

	monitor := Monitor{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "monitor",
			"scope":  "controller",
		}),
		readingsSvc: readingsSvc,

		event: make(chan *model.ReadingEvent, capacity),
	}
	go monitor.loop()

	return &monitor, nil
}

// Бесконечное получение данных со всех каналов
func (m Monitor) loop() {
	m.log.Info("старт работы модуля")
	g := new(errgroup.Group)

	for _, v := range m.readingsSvc {
		v := v
		g.Go(func() error {
			for {
				event, err := v.EmmitReading()
				if err != nil {
					return errors.Trace(err)
				}
				select {
				case <-m.ctx.Done():
					return m.ctx.Err()
				case m.event <- event:
				}
			}
		})
	}

	err := g.Wait()
	if err != nil && errors.Cause(err) != context.Canceled {
		m.log.Error(err)
	}
	m.log.Info("завершение работы модуля")
}

// EmmitReading ожидает поступления замера с любого из каналов.
// Возвращает context.Canceled при принудительном завершении работы
func (m Monitor) EmmitReading() (*model.ReadingEvent, error) {
	select {
	case <-m.ctx.Done():
		return nil, m.ctx.Err()
	case event := <-m.event:
		return event, nil
	}
}
