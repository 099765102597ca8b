package model

import "time"

// AlertMessageTemplate шаблон текста тревоги по пациенту
const AlertMessageTemplate = "Warning, patient with id: %s, need help"

// AlertPayload пакет тревоги для внешних систем (WebSocket консоль, Kafka)
type AlertPayload struct {
	Message  string    `json:"message"`
	CreateAt time.Time `json:"created_at"`
}
