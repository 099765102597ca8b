package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultNormal   = "normal"
	ResultAlert    = "alert"
	ResultNotFound = "not_found"
	ResultError    = "error"
	ResultFound    = "found"
	ResultCached   = "cached"
	ResultSent     = "sent"
	ResultFailed   = "failed"
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

var (
	// Проверки показателей пациентов
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_checks_total",
			Help: "Total number of vital sign checks",
		},
		[]string{"vital", "result"}, // result: normal, alert, not_found, error
	)

	// Отправленные тревоги
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_alerts_total",
			Help: "Total number of alerts dispatched",
		},
		[]string{"sender", "status"}, // status: sent, failed
	)

	// Обращения к хранилищу пациентов
	PatientLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_patient_lookups_total",
			Help: "Total number of patient repository lookups",
		},
		[]string{"store", "result"}, // result: found, cached, not_found, error
	)

	// Замеры, полученные с прикроватных устройств
	ReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_readings_total",
			Help: "Total number of readings received from device feeds",
		},
		[]string{"feed", "status"}, // status: accepted, rejected
	)

	// HTTP запросы к API
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)
)
