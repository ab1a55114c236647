// Package validator wraps go-playground/validator for request DTOs that
// need richer checks than gin's binding tags alone.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs the struct's validate tags and returns a field→failed-tag
// map suitable for the error envelope's details payload, or nil when the
// value is valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
