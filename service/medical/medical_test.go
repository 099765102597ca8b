package medical

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kirsrus/patient-monitor/model"
	"github.com/kirsrus/patient-monitor/service"
	serviceMocks "github.com/kirsrus/patient-monitor/service/mocks"
	storeMocks "github.com/kirsrus/patient-monitor/store/mocks"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const patientID = "2374b10e-fd4a-47a3-82f1-cc6aee558a62"

var (
	_ service.MedicalSvc = (*Medical)(nil)

	patientInfo = model.NewPatientInfo(patientID, "Иван", "Петров",
		time.Date(1980, 11, 26, 0, 0, 0, 0, time.UTC),
		model.HealthInfo{
			NormalTemperature: decimal.RequireFromString("36.65"),
			BloodPressure:     model.NewBloodPressure(120, 80),
		})
	message = fmt.Sprintf("Warning, patient with id: %s, need help", patientID)
)

// Репозиторий, в котором есть только patientInfo
func knownPatient() *storeMocks.PatientStore {
	patients := &storeMocks.PatientStore{}
	patient := patientInfo
	patients.On("GetByID", patientID).Return(&patient, nil)
	return patients
}

// Репозиторий без пациентов
func noPatients() *storeMocks.PatientStore {
	notFound := errors.NotFoundf("patient %s", patientID)
	patients := &storeMocks.PatientStore{}
	patients.On("GetByID", mock.Anything).Return(nil, notFound)
	patients.On("IsNotFound", notFound).Return(true)
	return patients
}

func newAlert() *serviceMocks.AlertSvc {
	alert := &serviceMocks.AlertSvc{}
	alert.On("Send", mock.AnythingOfType("string")).Return()
	return alert
}

func newMedical(t *testing.T, patients *storeMocks.PatientStore, alert *serviceMocks.AlertSvc) *Medical {
	t.Helper()
	medical, err := NewMedical(patients, alert, nil)
	require.NoError(t, err)
	return medical
}

func TestNewMedical(t *testing.T) {
	_, err := NewMedical(nil, newAlert(), nil)
	assert.Error(t, err)
	_, err = NewMedical(knownPatient(), nil, nil)
	assert.Error(t, err)
	_, err = NewMedical(knownPatient(), newAlert(), &ConfigMedical{})
	assert.NoError(t, err)
}

func TestMedical_CheckBloodPressure(t *testing.T) {
	tests := []struct {
		name      string
		pressure  model.BloodPressure
		wantAlert bool
	}{
		{name: "повышенное", pressure: model.NewBloodPressure(160, 120), wantAlert: true},
		{name: "норма", pressure: model.NewBloodPressure(120, 80), wantAlert: false},
		{name: "отличается только верхнее", pressure: model.NewBloodPressure(121, 80), wantAlert: true},
		{name: "отличается только нижнее", pressure: model.NewBloodPressure(120, 79), wantAlert: true},
		{name: "пониженное", pressure: model.NewBloodPressure(90, 60), wantAlert: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := newAlert()
			medical := newMedical(t, knownPatient(), alert)

			err := medical.CheckBloodPressure(patientID, tt.pressure)
			require.NoError(t, err)

			if tt.wantAlert {
				alert.AssertNumberOfCalls(t, "Send", 1)
				alert.AssertCalled(t, "Send", message)
			} else {
				alert.AssertNotCalled(t, "Send", mock.Anything)
			}
		})
	}
}

func TestMedical_CheckTemperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature string
		wantAlert   bool
	}{
		{name: "пониженная больше допуска", temperature: "35.14", wantAlert: true},
		{name: "норма", temperature: "36.65", wantAlert: false},
		{name: "ниже ровно на допуск", temperature: "35.15", wantAlert: false},
		{name: "выше ровно на допуск", temperature: "38.15", wantAlert: false},
		{name: "выше больше допуска", temperature: "38.16", wantAlert: true},
		{name: "в пределах допуска", temperature: "37.2", wantAlert: false},
		{name: "высокая", temperature: "40", wantAlert: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := newAlert()
			medical := newMedical(t, knownPatient(), alert)

			err := medical.CheckTemperature(patientID, decimal.RequireFromString(tt.temperature))
			require.NoError(t, err)

			if tt.wantAlert {
				alert.AssertNumberOfCalls(t, "Send", 1)
				alert.AssertCalled(t, "Send", message)
			} else {
				alert.AssertNotCalled(t, "Send", mock.Anything)
			}
		})
	}
}

func TestMedical_NormDoesNotAlert(t *testing.T) {
	alert := newAlert()
	medical := newMedical(t, knownPatient(), alert)

	require.NoError(t, medical.CheckBloodPressure(patientID, model.NewBloodPressure(120, 80)))
	require.NoError(t, medical.CheckTemperature(patientID, decimal.RequireFromString("36.65")))

	alert.AssertNotCalled(t, "Send", mock.Anything)
}

func TestMedical_PatientNotFound(t *testing.T) {
	alert := newAlert()
	medical := newMedical(t, noPatients(), alert)

	err := medical.CheckBloodPressure(patientID, model.NewBloodPressure(160, 120))
	assert.Equal(t, model.ErrPatientNotFound, err)
	assert.True(t, errors.IsNotFound(err))

	err = medical.CheckTemperature(patientID, decimal.RequireFromString("36.65"))
	assert.Equal(t, model.ErrPatientNotFound, err)

	alert.AssertNotCalled(t, "Send", mock.Anything)
}

func TestMedical_NilPatientIsNotFound(t *testing.T) {
	patients := &storeMocks.PatientStore{}
	patients.On("GetByID", patientID).Return(nil, nil)
	alert := newAlert()
	medical := newMedical(t, patients, alert)

	err := medical.CheckTemperature(patientID, decimal.RequireFromString("40"))
	assert.Equal(t, model.ErrPatientNotFound, err)
	alert.AssertNotCalled(t, "Send", mock.Anything)
}

func TestMedical_StoreError(t *testing.T) {
	failure := errors.New("база данных недоступна")
	patients := &storeMocks.PatientStore{}
	patients.On("GetByID", patientID).Return(nil, failure)
	patients.On("IsNotFound", failure).Return(false)
	alert := newAlert()
	medical := newMedical(t, patients, alert)

	err := medical.CheckBloodPressure(patientID, model.NewBloodPressure(160, 120))
	require.Error(t, err)
	assert.NotEqual(t, model.ErrPatientNotFound, err)
	assert.Equal(t, failure, errors.Cause(err))
	alert.AssertNotCalled(t, "Send", mock.Anything)
}

func TestMedical_RepeatedCallsGiveSameOutcome(t *testing.T) {
	alert := newAlert()
	medical := newMedical(t, knownPatient(), alert)

	for i := 0; i < 2; i++ {
		require.NoError(t, medical.CheckBloodPressure(patientID, model.NewBloodPressure(160, 120)))
		require.NoError(t, medical.CheckTemperature(patientID, decimal.RequireFromString("36.65")))
	}
	alert.AssertNumberOfCalls(t, "Send", 2)
}

func TestMedical_DoesNotMutateBaseline(t *testing.T) {
	patients := knownPatient()
	medical := newMedical(t, patients, newAlert())

	require.NoError(t, medical.CheckTemperature(patientID, decimal.RequireFromString("35.14")))
	require.NoError(t, medical.CheckBloodPressure(patientID, model.NewBloodPressure(160, 120)))

	stored, err := patients.GetByID(patientID)
	require.NoError(t, err)
	assert.True(t, stored.HealthInfo.NormalTemperature.Equal(decimal.RequireFromString("36.65")))
	assert.Equal(t, model.NewBloodPressure(120, 80), stored.HealthInfo.BloodPressure)
}

func TestMedical_Concurrent(t *testing.T) {
	alert := newAlert()
	medical := newMedical(t, knownPatient(), alert)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, medical.CheckBloodPressure(patientID, model.NewBloodPressure(160, 120)))
		}()
	}
	wg.Wait()
	alert.AssertNumberOfCalls(t, "Send", 20)
}
