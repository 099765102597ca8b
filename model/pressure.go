package model

import "fmt"

// BloodPressure артериальное давление: верхнее (систолическое) и нижнее (диастолическое)
type BloodPressure struct {
	High int `json:"high" validate:"gt=0"`
	Low  int `json:"low" validate:"gt=0"`
}

// NewBloodPressure конструктор BloodPressure
func NewBloodPressure(high, low int) BloodPressure {
	return BloodPressure{High: high, Low: low}
}

// Equal давление совпадает с other по обоим значениям
func (m BloodPressure) Equal(other BloodPressure) bool {
	return m.High == other.High && m.Low == other.Low
}

// String краткое описание в виде "120/80"
func (m BloodPressure) String() string {
	return fmt.Sprintf("%d/%d", m.High, m.Low)
}
