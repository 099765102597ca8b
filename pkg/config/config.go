package config

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jinzhu/configor"
	"github.com/juju/errors"
)

var (
	config Config
	once   sync.Once
)

const (
	FileName  = "config.yaml"
	EnvPrefix = "MONITOR"
)

// Get единожды читает и возвращает конфигурацию
func Get() *Config {
	return GetWithPath(FileName)
}

// GetWithPath единожды читает и возвращает конфигурацию
func GetWithPath(filepath string) *Config {
	once.Do(func() {
		cfg, err := Load(filepath)
		if err != nil {
			log.Fatalf("ошибка чтения файла конфигурации %s: %s", filepath, err)
		}
		config = *cfg
	})
	return &config
}

// Load читает конфигурацию из файла без кэширования. Значения могут быть переопределены
// переменными окружения с префиксом MONITOR_
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Annotate(err, "файл конфигурации недоступен")
	}
	var cfg Config
	err := configor.New(&configor.Config{ENVPrefix: EnvPrefix}).Load(&cfg, path)
	if err != nil {
		return nil, errors.Annotatef(err, "ошибка загрузки конфигурации %s", path)
	}
	// Корректировки значений
	cfg.Alert.Kafka.WriteTimeout = cfg.Alert.Kafka.WriteTimeout * time.Millisecond
	return &cfg, nil
}

// LogFile полный путь к файлу лога
func (m Config) LogFile() string {
	return filepath.Join(m.Log.Path, m.Log.Filename)
}

// DbFile полный путь к файлу хранилища
func (m Config) DbFile() string {
	return filepath.Join(m.Db.Path, m.Db.Filename)
}

// CacheTTL время жизни записи в кэше хранилища
func (m Config) CacheTTL() time.Duration {
	return time.Duration(m.Db.CacheTTL) * time.Second
}
