package model

import (
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// ErrPatientNotFound пациент с запрошенным идентификатором отсутствует в репозитории.
// Возвращается вызывающему без обёртки, проверяется через errors.IsNotFound или сравнением
var ErrPatientNotFound = errors.NewNotFound(nil, "patient not found")

// PatientInfo описывает пациента и его нормальные показатели. Данные принадлежат репозиторию,
// сервисы проверки их не изменяют
type PatientInfo struct {
	ID         string     `json:"id" conform:"trim"`
	Name       string     `json:"name" conform:"trim" validate:"required"`
	Surname    string     `json:"surname" conform:"trim" validate:"required"`
	Birthday   time.Time  `json:"birthday" validate:"required"`
	HealthInfo HealthInfo `json:"health_info"`
}

// HealthInfo нормальные (базовые) показатели пациента
type HealthInfo struct {
	NormalTemperature decimal.Decimal `json:"normal_temperature"`
	BloodPressure     BloodPressure   `json:"blood_pressure"`
}

// NewPatientInfo конструктор PatientInfo
func NewPatientInfo(id, name, surname string, birthday time.Time, healthInfo HealthInfo) PatientInfo {
	return PatientInfo{
		ID:         id,
		Name:       name,
		Surname:    surname,
		Birthday:   birthday,
		HealthInfo: healthInfo,
	}
}

// String краткое описание
func (m PatientInfo) String() string {
	return fmt.Sprintf("%s %s (%s)", m.Surname, m.Name, m.ID)
}
