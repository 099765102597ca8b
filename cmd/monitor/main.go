package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/kirsrus/patient-monitor/controller/manager"
	monitorCtlMod "github.com/kirsrus/patient-monitor/controller/monitor"
	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/config"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/service"
	alertSvcMod "github.com/kirsrus/patient-monitor/service/alert"
	medicalSvcMod "github.com/kirsrus/patient-monitor/service/medical"
	readingSvcMod "github.com/kirsrus/patient-monitor/service/reading"
	webSvcMod "github.com/kirsrus/patient-monitor/service/web"
	"github.com/kirsrus/patient-monitor/store"
	dbStoreMod "github.com/kirsrus/patient-monitor/store/db"
	fileStoreMod "github.com/kirsrus/patient-monitor/store/file"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	storeTypeFile   = "file"
	storeTypeSqlite = "sqlite"
)

var (
	cfg *config.Config
	log *logrus.Logger

	configPath = flag.String("config", config.FileName, "путь к файлу конфигурации")
)

func setup() {
	flag.Parse()
	cfg = config.GetWithPath(*configPath)
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	log = logger.GetWithConfig(logger.Config{
		File:    cfg.LogFile(),
		Level:   level,
		Console: cfg.Log.Console,
	})
}

func main() {
	setup()

	err := run()
	if err != nil {
		fmt.Printf("ОШИБКА: в процессе работы произошла ошибка: %v\n", err)
		fmt.Printf("Для подробностей смотри лог: %s\n", cfg.LogFile())
		log.Fatal(errors.ErrorStack(err))
	}
}

func run() error {
	// Отлавливаем сигнал завершения работы программы
	chanInterrupt := make(chan os.Signal, 1)
	signal.Notify(chanInterrupt, os.Interrupt)

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// region Хранилище карточек пациентов

	patients, err := newStore()
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if err := patients.Close(); err != nil {
			log.Errorf("ошибка закрытия хранилища пациентов: %s", err)
		}
	}()

	// endregion
	// region Каналы тревог

	senders := make([]service.AlertSvc, 0)
	if cfg.Alert.Log {
		senders = append(senders, alertSvcMod.NewLog(log))
	}
	if cfg.Alert.Websocket != "" {
		wsAlert, err := alertSvcMod.NewWebsocket(ctx, &alertSvcMod.ConfigWebsocket{
			Log: log,
			URL: cfg.Alert.Websocket,
		})
		if err != nil {
			return errors.Trace(err)
		}
		senders = append(senders, wsAlert)
	}
	if len(cfg.Alert.Kafka.Brokers) > 0 {
		kafkaAlert, err := alertSvcMod.NewKafka(ctx, &alertSvcMod.ConfigKafka{
			Log:          log,
			Brokers:      cfg.Alert.Kafka.Brokers,
			Topic:        cfg.Alert.Kafka.Topic,
			WriteTimeout: cfg.Alert.Kafka.WriteTimeout,
		})
		if err != nil {
			return errors.Trace(err)
		}
		defer func() {
			if err := kafkaAlert.Close(); err != nil {
				log.Errorf("ошибка закрытия канала тревог Kafka: %s", err)
			}
		}()
		senders = append(senders, kafkaAlert)
	}
	if len(senders) == 0 {
		log.Warn("не настроен ни один канал тревог, тревоги будут теряться")
	}
	alertSvc := alertSvcMod.NewMulti(senders...)

	// endregion
	// region Медицинский сервис

	medicalSvc, err := medicalSvcMod.NewMedical(patients, alertSvc, &medicalSvcMod.ConfigMedical{
		Log: log,
	})
	if err != nil {
		return errors.Trace(err)
	}

	// endregion
	// region Каналы замеров прикроватных устройств

	feeds := make([]service.ReadingSvc, 0, len(cfg.Feeds))
	for _, i := range cfg.Feeds {
		feed, err := readingSvcMod.NewWebsocket(ctx, &readingSvcMod.ConfigWebsocket{
			Log: log,
			FeedInfo: model.FeedInfo{
				Name:        i.Name,
				URL:         i.Address,
				Description: i.Description,
			},
		})
		if err != nil {
			return errors.Trace(err)
		}
		feeds = append(feeds, feed)
	}

	monitorCtl, err := monitorCtlMod.NewMonitor(ctx, feeds, &monitorCtlMod.ConfigMonitor{
		Log: log,
	})
	if err != nil {
		return errors.Trace(err)
	}

	// endregion
	// region Контроллер WEB

	webSvc, err := webSvcMod.NewWeb(ctx, patients, medicalSvc, &webSvcMod.ConfigWeb{
		Log:           log,
		WebPort:       cfg.Http.Port,
		MaxImportSize: int64(cfg.Http.MaxImportSize) * 1024,
	})
	if err != nil {
		return errors.Trace(err)
	}

	// endregion
	// region Менеджер управления всеми

	managerCtl, err := manager.NewManager(ctx, &manager.ConfigManager{
		Log:        log,
		MonitorCtl: monitorCtl,
		MedicalSvc: medicalSvc,
		WebSvc:     webSvc,
	})
	if err != nil {
		return errors.Trace(err)
	}

	go func() {
		done <- managerCtl.Serve()
	}()

	// endregion

	// Процесс завершения работы
	select {
	case err := <-done:
		return errors.Trace(err)
	case <-chanInterrupt:
		log.Info("получена по каналу interrupt команда на завершение работы программы")
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			log.Warn("компоненты не завершились за отведённое время")
		}
		return nil
	}
}

// newStore открывает хранилище карточек пациентов указанного в конфигурации типа
func newStore() (store.PatientStore, error) {
	switch cfg.Db.Type {
	case storeTypeFile:
		return fileStoreMod.NewFile(&fileStoreMod.ConfigFile{
			Log:      log,
			FileName: cfg.DbFile(),
		})
	case storeTypeSqlite:
		return dbStoreMod.NewDb(&dbStoreMod.ConfigDb{
			Log:           log,
			DbFile:        cfg.DbFile(),
			CacheDuration: cfg.CacheTTL(),
		})
	default:
		return nil, errors.Errorf("неизвестный тип хранилища %q", cfg.Db.Type)
	}
}
