package validator

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Валидатор корректной ссылки на WebSocket
func validatorWebsocket(fl validator.FieldLevel) bool {
	address, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	addr, err := url.Parse(address)
	if err != nil {
		return false
	}
	if addr.Scheme != "ws" && addr.Scheme != "wss" {
		return false
	}
	return addr.Host != ""
}

// Валидатор строки с десятичным числом ("36.6")
func validatorDecimal(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := decimal.NewFromString(value)
	return err == nil
}
