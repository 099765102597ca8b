package file

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/pkg/logger"
	"github.com/kirsrus/patient-monitor/pkg/metrics"
	"github.com/kirsrus/patient-monitor/pkg/validator"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	storeName = "file"
	dirMode   = 0o755
)

// File хранилище карточек пациентов в JSON файле. Имплементирует интерфейс PatientStore.
// Инициируется через NewFile. Файл целиком читается при создании и перезаписывается при каждом изменении
type File struct {
	log       *logrus.Entry
	validator *validator.Validator
	fileName  string

	mu       sync.RWMutex
	patients map[string]model.PatientInfo
}

// ConfigFile конфигурация File
type ConfigFile struct {
	Log      *logrus.Logger
	FileName string
}

// NewFile конструктор File. Если файла нет, он будет создан при первом изменении
func NewFile(config *ConfigFile) (*File, error) {
	if config == nil {
		return nil, errors.New("не указана конфигурация")
	}
	if config.FileName == "" {
		return nil, errors.New("в конфигурации не указан файл хранилища")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(config.FileName), dirMode); err != nil {
		return nil, errors.Annotate(err, "ошибка создания каталога хранилища")
	}

	file := File{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "file",
			"scope":  "store",
			"file":   config.FileName,
		}),
		validator: validator.Get(),
		fileName:  config.FileName,
		patients:  make(map[string]model.PatientInfo),
	}
	if err := file.load(); err != nil {
		return nil, errors.Trace(err)
	}
	return &file, nil
}

// Чтение всех карточек из файла
func (m *File) load() error {
	content, err := ioutil.ReadFile(m.fileName)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Infof("файл хранилища отсутствует, будет создан новый")
			return nil
		}
		return errors.Annotate(err, "ошибка чтения файла хранилища")
	}
	if len(content) == 0 {
		return nil
	}

	var patients []model.PatientInfo
	if err = json.Unmarshal(content, &patients); err != nil {
		return errors.Annotate(err, "некорректный JSON в файле хранилища")
	}
	for _, patient := range patients {
		if patient.ID == "" {
			return errors.Errorf("в файле хранилища есть пациент без идентификатора: %s", patient)
		}
		m.patients[patient.ID] = patient
	}
	m.log.Debugf("загружено %d пациентов", len(m.patients))
	return nil
}

// Запись всех карточек в файл. Вызывается под блокировкой на запись
func (m *File) save() error {
	patients := m.sorted()
	content, err := json.MarshalIndent(patients, "", "  ")
	if err != nil {
		return errors.Annotate(err, "ошибка кодирования в JSON")
	}

	// Пишем во временный файл и переименовываем, чтобы не оставить файл недописанным
	tmp, err := ioutil.TempFile(filepath.Dir(m.fileName), filepath.Base(m.fileName)+".*")
	if err != nil {
		return errors.Annotate(err, "ошибка создания временного файла")
	}
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Annotate(err, "ошибка записи временного файла")
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Trace(err)
	}
	if err = os.Rename(tmp.Name(), m.fileName); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Annotate(err, "ошибка замены файла хранилища")
	}
	return nil
}

func (m *File) sorted() []model.PatientInfo {
	patients := make([]model.PatientInfo, 0, len(m.patients))
	for _, patient := range m.patients {
		patients = append(patients, patient)
	}
	sortPatients(patients)
	return patients
}

// IsNotFound проверяет, что ошибка err обозначает, что пациент не найден
func (m *File) IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// GetByID получает копию карточки пациента по идентификатору
func (m *File) GetByID(id string) (*model.PatientInfo, error) {
	m.mu.RLock()
	patient, found := m.patients[id]
	m.mu.RUnlock()
	if !found {
		metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultNotFound).Inc()
		return nil, errors.NotFoundf("пациент %s", id)
	}
	metrics.PatientLookupsTotal.WithLabelValues(storeName, metrics.ResultFound).Inc()
	return &patient, nil
}

// Add добавляет пациента. Если идентификатор не задан, генерируется UUID
func (m *File) Add(patient model.PatientInfo) (string, error) {
	if err := m.validator.ValidateWithConform(&patient); err != nil {
		return "", errors.Annotate(err, "ошибка валидации")
	}
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, found := m.patients[patient.ID]; found {
		return "", errors.AlreadyExistsf("пациент %s", patient.ID)
	}
	m.patients[patient.ID] = patient
	if err := m.save(); err != nil {
		delete(m.patients, patient.ID)
		return "", errors.Trace(err)
	}
	m.log.Debugf("добавлен пациент %s", patient)
	return patient.ID, nil
}

// Update обновляет карточку существующего пациента
func (m *File) Update(patient model.PatientInfo) error {
	if err := m.validator.ValidateWithConform(&patient); err != nil {
		return errors.Annotate(err, "ошибка валидации")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	previous, found := m.patients[patient.ID]
	if !found {
		return errors.NotFoundf("пациент %s", patient.ID)
	}
	m.patients[patient.ID] = patient
	if err := m.save(); err != nil {
		m.patients[patient.ID] = previous
		return errors.Trace(err)
	}
	return nil
}

// Remove удаляет пациента по идентификатору
func (m *File) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous, found := m.patients[id]
	if !found {
		return errors.NotFoundf("пациент %s", id)
	}
	delete(m.patients, id)
	if err := m.save(); err != nil {
		m.patients[id] = previous
		return errors.Trace(err)
	}
	return nil
}

// List возвращает всех пациентов, упорядоченных по фамилии и имени
func (m *File) List() ([]model.PatientInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(), nil
}

// Close ничего не делает: все изменения уже записаны
func (m *File) Close() error {
	return nil
}

func sortPatients(patients []model.PatientInfo) {
	sort.Slice(patients, func(i, j int) bool {
		if patients[i].Surname != patients[j].Surname {
			return patients[i].Surname < patients[j].Surname
		}
		if patients[i].Name != patients[j].Name {
			return patients[i].Name < patients[j].Name
		}
		return patients[i].ID < patients[j].ID
	})
}
