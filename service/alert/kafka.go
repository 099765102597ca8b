package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"

	"github.com/juju/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	senderKafka       = "kafka"
	kafkaWriteTimeout = 3 * time.Second
	kafkaMaxAttempts  = 3
)

// MessageWriter запись сообщений в брокер. Реализуется *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka публикация тревог в топик Kafka. Имплементирует интерфейс AlertSvc. Инициируется через NewKafka
type Kafka struct {
	ctx          context.Context
	log          *logrus.Entry
	writer       MessageWriter
	writeTimeout time.Duration
}

// ConfigKafka конфигурация конструктора NewKafka
type ConfigKafka struct {
	Log          *logrus.Logger
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	// Если задан, используется вместо создаваемого по Brokers и Topic
	Writer MessageWriter
}

// NewKafka конструктор Kafka
func NewKafka(ctx context.Context, config *ConfigKafka) (*Kafka, error) {
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	writeTimeout := kafkaWriteTimeout
	if config.WriteTimeout != 0 {
		writeTimeout = config.WriteTimeout
	}

	writer := config.Writer
	if writer == nil {
		if len(config.Brokers) == 0 {
			return nil, errors.New("не указаны брокеры Kafka")
		}
		if config.Topic == "" {
			return nil, errors.New("не указан топик Kafka")
		}
		writer = &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        config.Topic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: writeTimeout,
			RequiredAcks: kafka.RequireOne,
			MaxAttempts:  kafkaMaxAttempts,
		}
	}

	return &Kafka{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "alert",
			"scope":  "service",
			"sender": senderKafka,
			"topic":  config.Topic,
		}),
		writer:       writer,
		writeTimeout: writeTimeout,
	}, nil
}

// Send публикует тревогу. Ошибка публикации только логируется
func (m Kafka) Send(message string) {
	now := time.Now()
	value, err := json.Marshal(model.AlertPayload{Message: message, CreateAt: now})
	if err != nil {
		m.log.Errorf("ошибка создания JSON: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, m.writeTimeout)
	defer cancel()
	err = m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message),
		Value: value,
		Time:  now,
	})
	if err != nil {
		m.log.Warnf("ошибка публикации тревоги в Kafka: %v", err)
		metrics.AlertsTotal.WithLabelValues(senderKafka, metrics.ResultFailed).Inc()
		return
	}
	metrics.AlertsTotal.WithLabelValues(senderKafka, metrics.ResultSent).Inc()
}

// Close закрывает подключение к брокеру
func (m Kafka) Close() error {
	return errors.Trace(m.writer.Close())
}
