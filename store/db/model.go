package db

import (
	"time"

	"github.com/kirsrus/patient-monitor/model"

	"github.com/shopspring/decimal"
)

type (
	// GormModelUnscoped модель эквивалент gorm.Model без сохранения удалений
	GormModelUnscoped struct {
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// Patient карточка пациента
	Patient struct {
		// Идентификатор пациента (обычно UUID)
		ID string `gorm:"primaryKey"`
		GormModelUnscoped
		Name     string
		Surname  string `gorm:"index"`
		Birthday time.Time
		// Нормальная температура хранится строкой, чтобы не терять точность
		NormalTemperature string
		PressureHigh      int
		PressureLow       int
	}
)

// TableName имя таблицы
func (Patient) TableName() string {
	return "patients"
}

// ToPatientInfo маппинг данных в структуру model.PatientInfo
func (m Patient) ToPatientInfo() (model.PatientInfo, error) {
	temperature, err := decimal.NewFromString(m.NormalTemperature)
	if err != nil {
		return model.PatientInfo{}, err
	}
	return model.NewPatientInfo(m.ID, m.Name, m.Surname, m.Birthday, model.HealthInfo{
		NormalTemperature: temperature,
		BloodPressure:     model.NewBloodPressure(m.PressureHigh, m.PressureLow),
	}), nil
}

// FromPatientInfo заполняет текущую структуру из структуры model.PatientInfo
func (m *Patient) FromPatientInfo(patient model.PatientInfo) {
	*m = Patient{
		ID:                patient.ID,
		Name:              patient.Name,
		Surname:           patient.Surname,
		Birthday:          patient.Birthday,
		NormalTemperature: patient.HealthInfo.NormalTemperature.String(),
		PressureHigh:      patient.HealthInfo.BloodPressure.High,
		PressureLow:       patient.HealthInfo.BloodPressure.Low,
	}
}
