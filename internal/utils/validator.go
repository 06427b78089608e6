// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,20}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("passport", validatePassportNumber)
	validate.RegisterValidation("traveldate", validateTravelDate)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Passport numbers are uppercased before validation; formats vary by issuing
// country so only length and the alphanumeric alphabet are enforced.
func validatePassportNumber(fl validator.FieldLevel) bool {
	return passportPattern.MatchString(strings.ToUpper(fl.Field().String()))
}

func validateTravelDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "passport":
		return "Passport number must be 6-20 letters and digits"
	case "traveldate":
		return "Travel date must be in YYYY-MM-DD format"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}
