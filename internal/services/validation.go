package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

var validate = validator.New()

// ValidationError lists the offending fields.
type ValidationError struct {
	Fields []string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(err.Fields, ", "))
}

func (err *ValidationError) Unwrap() error {
	return ErrValidation
}

func validateStruct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, fmt.Sprintf("%s failed %s", fieldError.Field(), fieldError.Tag()))
	}
	return &ValidationError{Fields: fields}
}
