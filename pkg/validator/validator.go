package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/insightcrew/relata/pkg/config"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// "provider" validates against the closed provider enumeration,
	// accepting legacy spellings that normalize to a known value.
	_ = v.RegisterValidation("provider", func(fl validator.FieldLevel) bool {
		switch config.NormalizeProvider(fl.Field().String()) {
		case config.ProviderOnDevice, config.ProviderCloud, config.ProviderNone:
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
