package model

import (
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// ReadingKind тип замера
type ReadingKind string

const (
	ReadingPressure    ReadingKind = "pressure"
	ReadingTemperature ReadingKind = "temperature"
)

// ReadingEvent событие о новом замере показателя пациента, полученное с прикроватного устройства
type ReadingEvent struct {
	CreateAt  time.Time
	PatientID string
	Kind      ReadingKind
	// Заполнено при Kind == ReadingPressure
	Pressure BloodPressure
	// Заполнено при Kind == ReadingTemperature
	Temperature decimal.Decimal
	// Имя канала (устройства), с которого пришёл замер
	Feed string
}

// FeedInfo описывает подключение к каналу замеров прикроватного устройства
type FeedInfo struct {
	Name        string `conform:"trim" validate:"required"`
	URL         string `conform:"trim" validate:"required,websocket"`
	Description string `conform:"trim"`
}

// FeedReading сообщение в WebSocket канале прикроватного устройства
type FeedReading struct {
	// Идентификатор пациента
	PatientID string `json:"patient_id" conform:"trim" validate:"required"`
	// Тип замера: pressure или temperature
	Kind string `json:"kind" conform:"trim,lower" validate:"required,oneof=pressure temperature"`
	// Верхнее давление
	High int `json:"high" validate:"gte=0"`
	// Нижнее давление
	Low int `json:"low" validate:"gte=0"`
	// Температура в формате "36.6"
	Temperature string `json:"temperature" conform:"trim" validate:"omitempty,decimal"`
	// Время замера в формате RFC3339. Если пустое, берётся время получения
	Timestamp string `json:"timestamp" conform:"trim"`
}

// Validate проверка заполненности полей в зависимости от типа замера
func (m FeedReading) Validate() error {
	switch ReadingKind(m.Kind) {
	case ReadingPressure:
		if m.High == 0 || m.Low == 0 {
			return errors.New("для замера давления не заданы параметры high и low")
		}
	case ReadingTemperature:
		if m.Temperature == "" {
			return errors.New("для замера температуры не задан параметр temperature")
		}
	default:
		return errors.Errorf("неизвестный тип замера \"%s\"", m.Kind)
	}
	return nil
}

// ToEvent преобразует сообщение канала в событие ReadingEvent. receivedAt используется,
// если в сообщении не указано время замера
func (m FeedReading) ToEvent(feed string, receivedAt time.Time) (*ReadingEvent, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	event := ReadingEvent{
		CreateAt:  receivedAt,
		PatientID: m.PatientID,
		Kind:      ReadingKind(m.Kind),
		Feed:      feed,
	}
	if m.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, m.Timestamp)
		if err != nil {
			return nil, errors.Annotatef(err, "некорректный формат времени \"%s\"", m.Timestamp)
		}
		event.CreateAt = t
	}
	switch event.Kind {
	case ReadingPressure:
		event.Pressure = NewBloodPressure(m.High, m.Low)
	case ReadingTemperature:
		temperature, err := decimal.NewFromString(m.Temperature)
		if err != nil {
			return nil, errors.Annotatef(err, "некорректная температура \"%s\"", m.Temperature)
		}
		event.Temperature = temperature
	}
	return &event, nil
}
