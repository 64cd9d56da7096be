package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
)

// TagFiscalQuarter validates a YYYYQX string
const TagFiscalQuarter = "fiscal_quarter"

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the project tags registered
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(TagFiscalQuarter, validateFiscalQuarter)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func validateFiscalQuarter(fl validator.FieldLevel) bool {
	_, err := entities.ParseFiscalQuarter(fl.Field().String())
	return err == nil
}
