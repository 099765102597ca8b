package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type feed struct {
	Name string `conform:"trim" validate:"required"`
	URL  string `conform:"trim" validate:"required,websocket"`
}

type temperature struct {
	Value string `conform:"trim" validate:"required,decimal"`
}

func TestValidator_Websocket(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "ws", url: "ws://127.0.0.1:8000/feed", wantErr: false},
		{name: "wss с пробелами", url: "  wss://monitor.local/feed ", wantErr: false},
		{name: "http", url: "http://127.0.0.1:8000/feed", wantErr: true},
		{name: "без хоста", url: "ws://", wantErr: true},
		{name: "пустой", url: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Get().ValidateWithConform(&feed{Name: "палата 1", URL: tt.url})
			assert.Equal(t, tt.wantErr, err != nil, "ошибка: %v", err)
		})
	}
}

func TestValidator_Decimal(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "дробное", value: "36.65", wantErr: false},
		{name: "целое", value: "37", wantErr: false},
		{name: "отрицательное", value: "-1.5", wantErr: false},
		{name: "запятая", value: "36,6", wantErr: true},
		{name: "текст", value: "норма", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Get().ValidateWithConform(&temperature{Value: tt.value})
			assert.Equal(t, tt.wantErr, err != nil, "ошибка: %v", err)
		})
	}
}

func TestValidator_ConformTrims(t *testing.T) {
	f := feed{Name: "  палата 2  ", URL: " ws://10.0.0.2/feed "}
	assert.NoError(t, Get().ValidateWithConform(&f))
	assert.Equal(t, "палата 2", f.Name)
	assert.Equal(t, "ws://10.0.0.2/feed", f.URL)
}
