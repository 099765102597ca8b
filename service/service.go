package service

import (
	"github.com/kirsrus/patient-monitor/model"

	"github.com/shopspring/decimal"
)

// AlertSvc сервис отправки тревог. Отправка односторонняя: результат доставки вызывающему не возвращается
//
//go:generate mockery --dir . --name AlertSvc --output ./mocks
type AlertSvc interface {
	// Отправляет сообщение тревоги
	Send(message string)
}

// MedicalSvc сервис проверки показателей пациента относительно его нормы
//
//go:generate mockery --dir . --name MedicalSvc --output ./mocks
type MedicalSvc interface {
	// Проверяет давление пациента. Если пациент не найден, возвращается model.ErrPatientNotFound
	CheckBloodPressure(patientID string, pressure model.BloodPressure) error
	// Проверяет температуру пациента. Если пациент не найден, возвращается model.ErrPatientNotFound
	CheckTemperature(patientID string, temperature decimal.Decimal) error
}

// ReadingSvc канал замеров с прикроватного устройства. Держит постоянно подключение к устройству.
//
//go:generate mockery --dir . --name ReadingSvc --output ./mocks
type ReadingSvc interface {
	// Ожидает очередной замер от устройства и возвращает его
	EmmitReading() (*model.ReadingEvent, error)
}

// WebSvc сервис HTTP API
//
//go:generate mockery --dir . --name WebSvc --output ./mocks
type WebSvc interface {
	// Запускает HTTP-сервер и блокируется до его остановки
	Serve() error
}
