package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Validate checks struct tags and returns a field -> code map, or nil
// when i is valid.
func Validate(i any) map[string]string {
	err := v.Struct(i)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"_error": "validation_failed"}
	}
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = mapTagToCode(e.Tag())
	}
	return out
}

func mapTagToCode(tag string) string {
	switch tag {
	case "required", "required_without_all":
		return "required"
	case "email":
		return "invalid_email"
	case "len", "min", "max":
		return "invalid_length"
	case "gte", "lte":
		return "out_of_range"
	default:
		return "invalid"
	}
}
