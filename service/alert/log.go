package alert

import (
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Log вывод тревог в лог на уровне warning. Имплементирует интерфейс AlertSvc
type Log struct {
	log *logrus.Entry
}

// NewLog конструктор Log
func NewLog(log *logrus.Logger) *Log {
	if log == nil {
		log = logger.Discard()
	}
	return &Log{
		log: log.WithFields(map[string]interface{}{
			"module": "alert",
			"scope":  "service",
			"sender": "log",
		}),
	}
}

// Send записывает тревогу в лог
func (m Log) Send(message string) {
	m.log.Warn(message)
	metrics.AlertsTotal.WithLabelValues("log", metrics.ResultSent).Inc()
}
