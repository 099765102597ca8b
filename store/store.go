package store

import (
	"github.com/kirsrus/patient-monitor/model"
)

// PatientStore репозиторий карточек пациентов
//
//go:generate mockery --dir . --name PatientStore --output ./mocks
type PatientStore interface {
	// Проверяет, что ошибка err обозначает, что пациент не найден
	IsNotFound(err error) bool

	// Получает карточку пациента по идентификатору. Отсутствие пациента проверяется через IsNotFound
	GetByID(id string) (*model.PatientInfo, error)

	// Добавляет пациента и возвращает его идентификатор. Если идентификатор не задан, он генерируется
	Add(patient model.PatientInfo) (string, error)

	// Обновляет карточку существующего пациента
	Update(patient model.PatientInfo) error

	// Удаляет пациента по идентификатору
	Remove(id string) error

	// Возвращает всех пациентов, упорядоченных по фамилии и имени
	List() ([]model.PatientInfo, error)

	// Закрывает хранилище
	Close() error
}
