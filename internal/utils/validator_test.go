// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passportProbe struct {
	PassportNumber string `validate:"required,passport"`
}

type travelDateProbe struct {
	TravelDate string `validate:"required,traveldate"`
}

func TestPassportValidator(t *testing.T) {
	valid := []string{"G1234567", "A00012345", "ab123456", "XK99887766554433"}
	for _, v := range valid {
		assert.NoErrorf(t, ValidateStruct(passportProbe{PassportNumber: v}), "expected %q to pass", v)
	}

	invalid := []string{"", "G123", "G1234-567", "G 1234567", "TOOLONGTOOLONGTOOLONG1"}
	for _, v := range invalid {
		assert.Errorf(t, ValidateStruct(passportProbe{PassportNumber: v}), "expected %q to fail", v)
	}
}

func TestTravelDateValidator(t *testing.T) {
	assert.NoError(t, ValidateStruct(travelDateProbe{TravelDate: "2026-01-15"}))
	assert.Error(t, ValidateStruct(travelDateProbe{TravelDate: "15/01/2026"}))
	assert.Error(t, ValidateStruct(travelDateProbe{TravelDate: "2026-13-40"}))
	assert.Error(t, ValidateStruct(travelDateProbe{TravelDate: "tomorrow"}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(passportProbe{PassportNumber: "!!"})
	assert.Error(t, err)

	errs := GetValidationErrors(err)
	assert.Len(t, errs, 1)
	assert.Equal(t, "passportnumber", errs[0].Field)
	assert.Equal(t, "passport", errs[0].Tag)
	assert.Equal(t, "Passport number must be 6-20 letters and digits", errs[0].Message)
}
