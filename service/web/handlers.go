package web

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/kirsrus/patient-monitor/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/juju/errors"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

func (m *Web) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (m *Web) listPatients(c echo.Context) error {
	patients, err := m.patients.List()
	if err != nil {
		return errors.Trace(err)
	}
	now := m.now()
	res := make([]PatientResponse, 0, len(patients))
	for _, patient := range patients {
		res = append(res, NewPatientResponse(patient, now))
	}
	return c.JSON(http.StatusOK, res)
}

func (m *Web) getPatient(c echo.Context) error {
	patient, err := m.patients.GetByID(c.Param("id"))
	if err != nil {
		return m.storeError(err)
	}
	return c.JSON(http.StatusOK, NewPatientResponse(*patient, m.now()))
}

func (m *Web) addPatient(c echo.Context) error {
	var req PatientRequest
	patient, err := m.bindPatient(c, &req)
	if err != nil {
		return err
	}
	id, err := m.patients.Add(patient)
	if err != nil {
		return m.storeError(err)
	}
	m.log.Infof("добавлен пациент %s", id)
	patient.ID = id
	return c.JSON(http.StatusCreated, NewPatientResponse(patient, m.now()))
}

func (m *Web) updatePatient(c echo.Context) error {
	var req PatientRequest
	patient, err := m.bindPatient(c, &req)
	if err != nil {
		return err
	}
	patient.ID = c.Param("id")
	if err = m.patients.Update(patient); err != nil {
		return m.storeError(err)
	}
	return c.JSON(http.StatusOK, NewPatientResponse(patient, m.now()))
}

func (m *Web) removePatient(c echo.Context) error {
	if err := m.patients.Remove(c.Param("id")); err != nil {
		return m.storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Импорт списка пациентов из загруженного JSON файла (поле формы file)
func (m *Web) importPatients(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "не передан файл импорта в поле file")
	}
	if header.Size > m.maxImportSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("файл импорта больше %d байт", m.maxImportSize))
	}
	file, err := header.Open()
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = file.Close() }()
	content, err := ioutil.ReadAll(file)
	if err != nil {
		return errors.Trace(err)
	}

	mime := mimetype.Detect(content)
	if !mime.Is("application/json") {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType,
			fmt.Sprintf("ожидается JSON, получен %s", mime.String()))
	}
	var requests []PatientRequest
	if err = json.Unmarshal(content, &requests); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ожидается JSON массив пациентов: "+err.Error())
	}

	res := ImportResponse{Added: make([]string, 0), Errors: make([]string, 0)}
	for idx := range requests {
		req := requests[idx]
		if err = m.validator.ValidateWithConform(&req); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("#%d: %v", idx, err))
			continue
		}
		patient, err := req.ToPatientInfo()
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("#%d: %v", idx, err))
			continue
		}
		id, err := m.patients.Add(patient)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("#%d: %v", idx, err))
			continue
		}
		res.Added = append(res.Added, id)
	}
	m.log.Infof("импортировано %d пациентов, ошибок %d", len(res.Added), len(res.Errors))
	return c.JSON(http.StatusOK, res)
}

func (m *Web) checkPressure(c echo.Context) error {
	var req PressureRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}
	err := m.medicalSvc.CheckBloodPressure(c.Param("id"), model.NewBloodPressure(req.High, req.Low))
	if err != nil {
		return m.checkError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "checked"})
}

func (m *Web) checkTemperature(c echo.Context) error {
	var req TemperatureRequest
	if err := m.bind(c, &req); err != nil {
		return err
	}
	temperature, err := decimal.NewFromString(req.Temperature)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "некорректная температура")
	}
	if err = m.medicalSvc.CheckTemperature(c.Param("id"), temperature); err != nil {
		return m.checkError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "checked"})
}

// Чтение и валидация тела запроса
func (m *Web) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса")
	}
	if err := m.validator.ValidateWithConform(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ошибка валидации: "+err.Error())
	}
	return nil
}

func (m *Web) bindPatient(c echo.Context, req *PatientRequest) (model.PatientInfo, error) {
	if err := m.bind(c, req); err != nil {
		return model.PatientInfo{}, err
	}
	patient, err := req.ToPatientInfo()
	if err != nil {
		return model.PatientInfo{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return patient, nil
}

// Ошибка проверки показателей в ответ API
func (m *Web) checkError(err error) error {
	if err == model.ErrPatientNotFound {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return errors.Trace(err)
}

// Ошибка хранилища в ответ API
func (m *Web) storeError(err error) error {
	switch {
	case m.patients.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "пациент не найден")
	case errors.IsAlreadyExists(err):
		return echo.NewHTTPError(http.StatusConflict, "пациент уже существует")
	}
	return errors.Trace(err)
}
