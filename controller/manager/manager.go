package manager

import (
	"context"

	"github.com/kirsrus/patient-monitor/controller"
	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/service"

	"github.com/juju/errors"
	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// Максимальное количество одновременно обрабатываемых замеров
	maxWorkers = 16
)

// ConfigManager конфигурация Manager
type ConfigManager struct {
	Log *logrus.Logger

	MonitorCtl controller.MonitorCtl

	MedicalSvc service.MedicalSvc
	// Может быть nil, тогда HTTP API не запускается
	WebSvc service.WebSvc

	MaxWorkers uint
}

// Manager основной менеджер работы со всеми сервисами. Инициируется через NewManager
type Manager struct {
	ctx context.Context
	log *logrus.Entry

	monitorCtl controller.MonitorCtl

	medicalSvc service.MedicalSvc
	webSvc     service.WebSvc

	maxWorkers uint
}

// NewManager конструктор Manager
func NewManager(ctx context.Context, config *ConfigManager) (*Manager, error) {
	if config == nil {
		return nil, errors.New("не передана конфигурация")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if config.MonitorCtl == nil {
		return nil, errors.New("не передан контроллер каналов замеров")
	}
	if config.MedicalSvc == nil {
		return nil, errors.New("не передан сервис проверки показателей")
	}

	manager := Manager{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "manager",
			"scope":  "controller",
		}),
		monitorCtl: config.MonitorCtl,
		medicalSvc: config.MedicalSvc,
		webSvc:     config.WebSvc,
		maxWorkers: maxWorkers,
	}
	if config.MaxWorkers != 0 {
		manager.maxWorkers = config.MaxWorkers
	}

	manager.configToLog()

	return &manager, nil
}

// Вывести значения конфигурации в лог
func (m Manager) configToLog() {
	m.log.Debugf("maxWorkers: %d", m.maxWorkers)
	m.log.Debugf("webSvc: %s", pp.Sprint(m.webSvc != nil))
}

// Serve начало процесса обработки поступающих замеров. Блокируется до отмены ctx или ошибки HTTP API.
// При отмене ctx дожидается обработки уже полученных замеров
func (m Manager) Serve() error {
	done := make(chan error, 2)

	if m.webSvc != nil {
		go func() {
			done <- errors.Trace(m.webSvc.Serve())
		}()
	}

	go func() {
		done <- m.readings()
	}()

	// Замеры перестают поступать только при отмене ctx, поэтому ждём первого завершившегося
	err := <-done
	if err != nil && errors.Cause(err) != context.Canceled {
		return errors.Trace(err)
	}
	return nil
}

// Получение замеров с контроллера и раздача их обработчикам. Одновременно работает не больше maxWorkers
func (m Manager) readings() error {
	workers := new(errgroup.Group)
	workers.SetLimit(int(m.maxWorkers))
	defer func() { _ = workers.Wait() }()

	for {
		reading, err := m.monitorCtl.EmmitReading()
		if err != nil {
			return errors.Trace(err)
		}
		workers.Go(func() error {
			m.readingInWorker(reading)
			return nil
		})
	}
}

// Обработчик пришедшего с устройства замера
func (m Manager) readingInWorker(reading *model.ReadingEvent) {
	log := m.log.WithFields(map[string]interface{}{
		"patient": reading.PatientID,
		"feed":    reading.Feed,
	})

	var err error
	switch reading.Kind {
	case model.ReadingPressure:
		log.Debugf("давление %s", reading.Pressure)
		err = m.medicalSvc.CheckBloodPressure(reading.PatientID, reading.Pressure)
	case model.ReadingTemperature:
		log.Debugf("температура %s", reading.Temperature)
		err = m.medicalSvc.CheckTemperature(reading.PatientID, reading.Temperature)
	default:
		log.Warnf("неизвестный тип замера %s", reading.Kind)
		return
	}

	if err != nil {
		if err == model.ErrPatientNotFound {
			log.Warn("замер для неизвестного пациента")
			return
		}
		log.Error(errors.ErrorStack(err))
	}
}
