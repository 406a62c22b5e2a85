// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Slider bounds for the distance threshold control.
const (
	SliderMinKm  = 0
	SliderMaxKm  = 50
	SliderStepKm = 10
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator with the application's custom tags registered.
func New() *Validator {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("slider", validateSlider)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// IsSliderValue reports whether km is a position the threshold slider can take.
func IsSliderValue(km int) bool {
	return km >= SliderMinKm && km <= SliderMaxKm && km%SliderStepKm == 0
}

func validateSlider(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInt() {
		return false
	}
	return IsSliderValue(int(field.Int()))
}

// Messages flattens validation errors into "field failed tag" strings for
// API responses.
func Messages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, len(validationErrors))
	for i, fe := range validationErrors {
		messages[i] = formatFieldError(fe)
	}
	return messages
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "slider":
		return fe.Field() + " must be one of 0, 10, 20, 30, 40, 50"
	case "latitude", "longitude":
		return fe.Field() + " must be a valid " + fe.Tag()
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}
