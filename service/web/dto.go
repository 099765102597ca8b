package web

import (
	"time"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/tool"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// Формат даты рождения в API
const dateLayout = "2006-01-02"

// PatientRequest карточка пациента при создании и обновлении
type PatientRequest struct {
	ID                string `json:"id" conform:"trim"`
	Name              string `json:"name" conform:"trim" validate:"required"`
	Surname           string `json:"surname" conform:"trim" validate:"required"`
	Birthday          string `json:"birthday" conform:"trim" validate:"required"`
	NormalTemperature string `json:"normal_temperature" conform:"trim" validate:"required,decimal"`
	High              int    `json:"high" validate:"gt=0"`
	Low               int    `json:"low" validate:"gt=0"`
}

// ToPatientInfo преобразование в model.PatientInfo
func (m PatientRequest) ToPatientInfo() (model.PatientInfo, error) {
	birthday, err := time.Parse(dateLayout, m.Birthday)
	if err != nil {
		return model.PatientInfo{}, errors.Errorf("некорректная дата рождения \"%s\", ожидается ГГГГ-ММ-ДД", m.Birthday)
	}
	temperature, err := decimal.NewFromString(m.NormalTemperature)
	if err != nil {
		return model.PatientInfo{}, errors.Errorf("некорректная температура \"%s\"", m.NormalTemperature)
	}
	return model.NewPatientInfo(m.ID, m.Name, m.Surname, birthday, model.HealthInfo{
		NormalTemperature: temperature,
		BloodPressure:     model.NewBloodPressure(m.High, m.Low),
	}), nil
}

// PatientResponse карточка пациента в ответе API
type PatientResponse struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Surname           string              `json:"surname"`
	Birthday          string              `json:"birthday"`
	Age               int                 `json:"age"`
	NormalTemperature string              `json:"normal_temperature"`
	BloodPressure     model.BloodPressure `json:"blood_pressure"`
}

// NewPatientResponse формирует ответ по карточке пациента на момент now
func NewPatientResponse(patient model.PatientInfo, now time.Time) PatientResponse {
	return PatientResponse{
		ID:                patient.ID,
		Name:              patient.Name,
		Surname:           patient.Surname,
		Birthday:          patient.Birthday.Format(dateLayout),
		Age:               tool.Age(patient.Birthday, now),
		NormalTemperature: patient.HealthInfo.NormalTemperature.String(),
		BloodPressure:     patient.HealthInfo.BloodPressure,
	}
}

// PressureRequest замер давления
type PressureRequest struct {
	High int `json:"high" validate:"gt=0"`
	Low  int `json:"low" validate:"gt=0"`
}

// TemperatureRequest замер температуры
type TemperatureRequest struct {
	Temperature string `json:"temperature" conform:"trim" validate:"required,decimal"`
}

// ImportResponse результат импорта пациентов
type ImportResponse struct {
	Added  []string `json:"added"`
	Errors []string `json:"errors"`
}
