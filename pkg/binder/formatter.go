package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	email    = "email"
	gte      = "gte"
	lte      = "lte"
	mx       = "max"
	mn       = "min"
	ne       = "ne"
	oneof    = "oneof"
	required = "required"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) (string, string) {
	field := strings.Trim(err.Field, ".")
	return field, fmt.Sprintf("Incorrect type. Expected %s.", err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("Incorrect type. Expected %s.", err.Type)
}

// formatValidationError renders a message in the style clients of this API
// expect. The offending field is carried separately as the body key, so
// messages refer to "this field"/"this value" rather than naming it.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case email:
		return "Enter a valid email address."
	case gte, mn:
		if isNumericKind(err.Kind()) {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", err.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", err.Param())
	case lte, mx:
		if isNumericKind(err.Kind()) {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", err.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", err.Param())
	case ne:
		return fmt.Sprintf("This field may not be %q.", err.Param())
	case oneof:
		return fmt.Sprintf("%q is not a valid choice.", err.Value())
	case required:
		return "This field is required."
	default:
		return fmt.Sprintf("This field failed the %q constraint.", err.Tag())
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
