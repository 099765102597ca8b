package controller

import (
	"github.com/kirsrus/patient-monitor/model"
)

// MonitorCtl контроллер группы каналов замеров
//
//go:generate mockery --dir . --name MonitorCtl --output ./mocks
type MonitorCtl interface {
	// Ожидает очередной замер с любого из каналов и возвращает его.
	EmmitReading() (*model.ReadingEvent, error)
}
