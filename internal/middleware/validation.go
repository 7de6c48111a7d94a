package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"rekraft-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds every decoded JSON body.
const maxBodyBytes = 1 << 20

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateRequest validates a struct against its validation tags
func ValidateRequest(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		if fields := FormatValidationErrors(err); len(fields) > 0 {
			return &domain.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// DecodeAndValidate decodes the JSON request body and validates it. Every
// failure comes back as a *domain.ValidationError.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// DecodeJSON decodes an optional JSON body. An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.NewValidationError("body", "Request body must be valid JSON")
}

// FormatValidationErrors converts validator errors to field messages
func FormatValidationErrors(err error) []domain.FieldError {
	var fields []domain.FieldError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields = append(fields, domain.FieldError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return fields
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return e.Field() + " must be at least " + e.Param() + " characters"
		}
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " is too long"
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "numeric":
		return e.Field() + " must contain only digits"
	case "oneof":
		return e.Field() + " must be one of " + e.Param()
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
