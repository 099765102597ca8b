package db

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"
	"github.com/kirsrus/patient-monitor/pkg/validator"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	storeName     = "sqlite"
	cacheDuration = 10 * time.Minute
	cacheCleared  = time.Hour
	dirMode       = 0o755
)

// Db хранилище карточек пациентов в SQLite. Имплементирует интерфейс PatientStore. Инициируется через NewDb
type Db struct {
	log       *logrus.Entry
	db        *gorm.DB
	validator *validator.Validator

	patientCache *cache.Cache
}

// ConfigDb конфигурация класса Db
type ConfigDb struct {
	Log    *logrus.Logger
	DbFile string
	// Время жизни карточки в кэше
	CacheDuration time.Duration
}

// NewDb конструктор класса Db
func NewDb(config *ConfigDb) (*Db, error) {
	if config == nil {
		return nil, errors.New("не указана конфигурация")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if config.DbFile == "" {
		return nil, errors.New("в конфигурации не указана строка подключения")
	}
	duration := cacheDuration
	if config.CacheDuration != 0 {
		duration = config.CacheDuration
	}

	if err := os.MkdirAll(filepath.Dir(config.DbFile), dirMode); err != nil {
		return nil, errors.Annotate(err, "ошибка создания каталога БД")
	}

	// Подключаемся к БД и запускаем миграции
	conn, err := gorm.Open(sqlite.Open(config.DbFile), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, errors.Annotate(err, "ошибка подключения к файлу БД")
	}
	err = conn.AutoMigrate(Patient{})
	if err != nil {
		return nil, errors.Annotate(err, "ошибка миграции БД")
	}

	db := Db{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "db",
			"scope":  "store",
		}),
		validator: validator.Get(),
		db:        conn,

		patientCache: cache.New(duration, cacheCleared),
	}

	return &db, nil
}

// IsNotFound проверяет, что ошибка err обозначает, что пациент не найден
func (m Db) IsNotFound(err error) bool {
	return errors.IsNotFound(err) || stdErrors.Is(errors.Cause(err), gorm.ErrRecordNotFound)
}

// GetByID получает карточку пациента по идентификатору. Результат кэшируется
func (m Db) GetByID(id string) (*model.PatientInfo, error) {
	if value, found := m.patientCache.Get(id); found {
		metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultCached).Inc()
		patient := value.(model.PatientInfo)
		return &patient, nil
	}

	var row Patient
	err := m.db.Where("id = ?", id).Take(&row).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultNotFound).Inc()
			return nil, errors.NotFoundf("пациент %s", id)
		}
		metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultError).Inc()
		return nil, errors.Trace(err)
	}
	patient, err := row.ToPatientInfo()
	if err != nil {
		metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultError).Inc()
		return nil, errors.Annotatef(err, "некорректная нормальная температура у пациента %s", id)
	}
	metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultFound).Inc()
	m.patientCache.SetDefault(id, patient)
	return &patient, nil
}

// Add добавляет пациента. Если идентификатор не задан, генерируется UUID
func (m Db) Add(patient model.PatientInfo) (string, error) {
	if err := m.validator.ValidateWithConform(&patient); err != nil {
		return "", errors.Annotate(err, "ошибка валидации")
	}
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}

	var count int64
	if err := m.db.Model(&Patient{}).Where("id = ?", patient.ID).Count(&count).Error; err != nil {
		return "", errors.Trace(err)
	}
	if count != 0 {
		return "", errors.AlreadyExistsf("пациент %s", patient.ID)
	}

	row := Patient{}
	row.FromPatientInfo(patient)
	if err := m.db.Create(&row).Error; err != nil {
		return "", errors.Annotate(err, "ошибка добавления в БД")
	}
	m.log.Debugf("добавлен пациент %s", patient)
	return patient.ID, nil
}

// Update обновляет карточку существующего пациента
func (m Db) Update(patient model.PatientInfo) error {
	if err := m.validator.ValidateWithConform(&patient); err != nil {
		return errors.Annotate(err, "ошибка валидации")
	}

	var existing Patient
	err := m.db.Where("id = ?", patient.ID).Take(&existing).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFoundf("пациент %s", patient.ID)
		}
		return errors.Trace(err)
	}

	row := Patient{}
	row.FromPatientInfo(patient)
	row.CreatedAt = existing.CreatedAt
	if err = m.db.Save(&row).Error; err != nil {
		return errors.Annotate(err, "ошибка обновления записи")
	}
	m.patientCache.Delete(patient.ID)
	return nil
}

// Remove удаляет пациента по идентификатору
func (m Db) Remove(id string) error {
	result := m.db.Where("id = ?", id).Delete(&Patient{})
	if result.Error != nil {
		return errors.Annotate(result.Error, "ошибка удаления записи")
	}
	m.patientCache.Delete(id)
	if result.RowsAffected == 0 {
		return errors.NotFoundf("пациент %s", id)
	}
	return nil
}

// List возвращает всех пациентов, упорядоченных по фамилии и имени
func (m Db) List() ([]model.PatientInfo, error) {
	var rows []Patient
	if err := m.db.Order("surname, name, id").Find(&rows).Error; err != nil {
		return nil, errors.Trace(err)
	}
	patients := make([]model.PatientInfo, 0, len(rows))
	for _, row := range rows {
		patient, err := row.ToPatientInfo()
		if err != nil {
			m.log.Warnf("пропущен пациент %s с некорректной температурой: %v", row.ID, err)
			continue
		}
		patients = append(patients, patient)
	}
	return patients, nil
}

// Close закрывает подключение к БД
func (m Db) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(sqlDB.Close())
}
