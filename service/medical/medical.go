package medical

import (
	"fmt"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"
	"github.com/kirsrus/patient-monitor/service"
	"github.com/kirsrus/patient-monitor/store"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	vitalPressure    = "pressure"
	vitalTemperature = "temperature"
)

// Допустимое отклонение температуры от нормы. Отклонение ровно на эту величину считается нормой
var temperatureTolerance = decimal.RequireFromString("1.5")

// Medical проверка показателей пациента относительно его нормы. Имплементирует интерфейс MedicalSvc.
// Инициируется конструктором NewMedical. Состояния между вызовами не хранит.
type Medical struct {
	log      *logrus.Entry
	patients store.PatientStore
	alert    service.AlertSvc
}

// ConfigMedical конфигурация конструктора NewMedical
type ConfigMedical struct {
	Log *logrus.Logger
}

// NewMedical конструктор Medical
func NewMedical(patients store.PatientStore, alert service.AlertSvc, config *ConfigMedical) (*Medical, error) {
	if patients == nil {
		return nil, errors.New("не передан репозиторий пациентов")
	}
	if alert == nil {
		return nil, errors.New("не передан сервис отправки тревог")
	}
	if config == nil {
		config = &ConfigMedical{}
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}

	return &Medical{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "medical",
			"scope":  "service",
		}),
		patients: patients,
		alert:    alert,
	}, nil
}

// CheckBloodPressure проверяет давление пациента. Любое отличие от нормы хотя бы по одному из значений
// приводит к отправке тревоги
func (m Medical) CheckBloodPressure(patientID string, pressure model.BloodPressure) error {
	patient, err := m.patient(patientID)
	if err != nil {
		m.countCheck(vitalPressure, err)
		return err
	}

	normal := patient.HealthInfo.BloodPressure
	if pressure.Equal(normal) {
		metrics.ChecksTotal.WithLabelValues(vitalPressure, metrics.ResultNormal).Inc()
		return nil
	}

	m.log.Debugf("давление %s пациента %s отличается от нормы %s", pressure, patientID, normal)
	metrics.ChecksTotal.WithLabelValues(vitalPressure, metrics.ResultAlert).Inc()
	m.alert.Send(alertMessage(patientID))
	return nil
}

// CheckTemperature проверяет температуру пациента. Тревога отправляется, если температура отклоняется от
// нормы в любую сторону больше, чем на temperatureTolerance
func (m Medical) CheckTemperature(patientID string, temperature decimal.Decimal) error {
	patient, err := m.patient(patientID)
	if err != nil {
		m.countCheck(vitalTemperature, err)
		return err
	}

	normal := patient.HealthInfo.NormalTemperature
	if temperature.Sub(normal).Abs().LessThanOrEqual(temperatureTolerance) {
		metrics.ChecksTotal.WithLabelValues(vitalTemperature, metrics.ResultNormal).Inc()
		return nil
	}

	m.log.Debugf("температура %s пациента %s отклоняется от нормы %s", temperature, patientID, normal)
	metrics.ChecksTotal.WithLabelValues(vitalTemperature, metrics.ResultAlert).Inc()
	m.alert.Send(alertMessage(patientID))
	return nil
}

// Получение карточки пациента. Отсутствие пациента возвращается как model.ErrPatientNotFound без обёртки
func (m Medical) patient(patientID string) (*model.PatientInfo, error) {
	patient, err := m.patients.GetByID(patientID)
	if err != nil {
		if m.patients.IsNotFound(err) {
			return nil, model.ErrPatientNotFound
		}
		return nil, errors.Annotatef(err, "ошибка получения пациента %s", patientID)
	}
	if patient == nil {
		return nil, model.ErrPatientNotFound
	}
	return patient, nil
}

func (m Medical) countCheck(vital string, err error) {
	result := metrics.ResultError
	if err == model.ErrPatientNotFound {
		result = metrics.ResultNotFound
	}
	metrics.ChecksTotal.WithLabelValues(vital, result).Inc()
}

func alertMessage(patientID string) string {
	return fmt.Sprintf(model.AlertMessageTemplate, patientID)
}
