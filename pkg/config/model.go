package config

import "time"

type (

	// Config конфигурация программы
	Config struct {

		// Описание логирования
		Log struct {

			// Путь к файлу лога
			Path string

			// Имя файла логирования
			Filename string `required:"true" default:"monitor.log"`

			// Уровень логирования
			Level string `required:"true" default:"warning"`

			// Выводить лог только на консоль
			Console bool `default:"false"`
		}

		// Описываем хранилище карточек пациентов
		Db struct {

			// Тип хранилища: file (JSON файл) или sqlite
			Type string `default:"file"`

			// Путь к расположению хранилища
			Path string

			// Имя файла хранилища
			Filename string `required:"true" default:"patients.json"`

			// Время жизни карточки пациента в кэше (в секундах)
			CacheTTL uint `default:"600"`
		}

		// Обслуживание WEB-сервера
		Http struct {

			// Порт WEB-сервера
			Port uint `required:"true" default:"8080"`

			// Максимальный размер загружаемого файла импорта пациентов (в килобайтах)
			MaxImportSize uint `default:"1024"`
		}

		// Каналы отправки тревог
		Alert struct {

			// Дублировать тревоги в лог
			Log bool `default:"true"`

			// Адрес WebSocket консоли тревог, например ws://127.0.0.1:8000/alarm
			Websocket string

			// Отправка тревог в Kafka
			Kafka struct {

				// Адреса брокеров
				Brokers []string

				// Топик тревог
				Topic string `default:"patient-alerts"`

				// Таймаут записи в брокер (в миллисекундах)
				WriteTimeout time.Duration `default:"3000"`
			}
		}

		// Каналы замеров прикроватных устройств
		Feeds []struct {

			// Имя канала
			Name string `required:"true"`

			// Адрес WebSocket канала, например ws://192.168.10.10:8000/feed
			Address string `required:"true"`

			// Описание канала
			Description string
		}
	}
)
