package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"
	"github.com/kirsrus/patient-monitor/pkg/validator"
	"github.com/kirsrus/patient-monitor/service"
	"github.com/kirsrus/patient-monitor/store"

	"github.com/juju/errors"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	webPort         = 8080
	maxImportSize   = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// ConfigWeb конфигурация структуры Web
type ConfigWeb struct {
	Log *logrus.Logger

	WebPort uint
	// Максимальный размер файла импорта пациентов в байтах
	MaxImportSize int64
}

// Web служба HTTP API. Инициализируется через NewWeb
type Web struct {
	ctx       context.Context
	log       *logrus.Entry
	validator *validator.Validator
	e         *echo.Echo

	patients   store.PatientStore
	medicalSvc service.MedicalSvc

	webPort       uint
	maxImportSize int64
	now           func() time.Time
}

// NewWeb конструктор структуры Web. Маршруты регистрируются сразу, сервер запускается через Serve
func NewWeb(ctx context.Context, patients store.PatientStore, medicalSvc service.MedicalSvc, config *ConfigWeb) (*Web, error) {
	if config == nil {
		return nil, errors.New("не установлена конфигурация")
	}
	if patients == nil {
		return nil, errors.New("не передан репозиторий пациентов")
	}
	if medicalSvc == nil {
		return nil, errors.New("не передан сервис проверки показателей")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	web := Web{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "web",
			"scope":  "service",
		}),
		validator: validator.Get(),
		e:         echo.New(),

		patients:   patients,
		medicalSvc: medicalSvc,

		webPort:       webPort,
		maxImportSize: maxImportSize,
		now:           time.Now,
	}
	if config.WebPort != 0 {
		web.webPort = config.WebPort
	}
	if config.MaxImportSize != 0 {
		web.maxImportSize = config.MaxImportSize
	}

	web.e.HideBanner = true
	web.e.HidePort = true
	web.e.Use(middleware.Recover())
	web.e.Use(web.metricsMiddleware)
	web.e.HTTPErrorHandler = web.errorHandler

	web.e.GET("/health", web.health)
	web.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := web.e.Group("/api")
	api.GET("/patients", web.listPatients)
	api.POST("/patients", web.addPatient)
	api.POST("/patients/import", web.importPatients)
	api.GET("/patients/:id", web.getPatient)
	api.PUT("/patients/:id", web.updatePatient)
	api.DELETE("/patients/:id", web.removePatient)
	api.POST("/patients/:id/pressure", web.checkPressure)
	api.POST("/patients/:id/temperature", web.checkTemperature)

	return &web, nil
}

// Serve запускает HTTP-сервер и блокируется до его остановки. Сервер останавливается при отмене ctx
func (m *Web) Serve() error {
	go func() {
		<-m.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := m.e.Shutdown(ctx); err != nil {
			m.log.Warnf("ошибка остановки HTTP-сервера: %v", err)
		}
	}()

	m.log.Infof("старт HTTP-сервера на порту :%d", m.webPort)
	err := m.e.Start(fmt.Sprintf(":%d", m.webPort))
	if err != nil && err != http.ErrServerClosed {
		m.log.Errorf("сервер неожиданно завершил работу: %v", err)
		return errors.Trace(err)
	}
	return nil
}

// ServeHTTP обработка запроса без запуска сервера
func (m *Web) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.e.ServeHTTP(w, r)
}

// Учёт времени обработки запросов
func (m *Web) metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Ответ об ошибке в виде {"message": "..."}
func (m *Web) errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "внутренняя ошибка сервера"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		m.log.Error(errors.ErrorStack(err))
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"message": message})
	}
	if err != nil {
		m.log.Warnf("ошибка отправки ответа: %v", err)
	}
}
