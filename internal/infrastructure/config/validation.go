package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/booking"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("payment_method", validatePaymentMethod)

	return &Validator{
		validate: v,
	}
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := booking.ParsePaymentMethod(fl.Field().String())
	return err == nil
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// ValidateExcept validates a struct skipping the named fields
func (v *Validator) ValidateExcept(i interface{}, fields ...string) error {
	if err := v.validate.StructExcept(i, fields...); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			value := e.Value()
			if e.Field() == "Password" {
				value = "***"
			}
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				value,
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates every section except the account and journey,
// which only a booking run needs
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.ValidateExcept(cfg, "Account", "Journey")
}

// ValidateBooking validates the whole configuration including account and journey
func ValidateBooking(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
