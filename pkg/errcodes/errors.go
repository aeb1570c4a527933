package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// Field scopes validation errors to the offending payload field. When
	// set, the handler renders {"<field>": ["<message>"]} instead of the
	// {"detail": ...} body.
	Field string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Field = err.Field
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code &&
		te.Field == err.Field
}

// NotAuthenticated returns the 403 used for anonymous write attempts.
func NotAuthenticated() error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  "Authentication credentials were not provided.",
		Code:     "not_authenticated",
	}
}

// PermissionDenied returns the 403 used when an authenticated user lacks
// rights to the resource.
func PermissionDenied() error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  "You do not have permission to perform this action.",
		Code:     "permission_denied",
	}
}

// InvalidCredentials returns the 403 used for failed logins.
func InvalidCredentials() error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  "Invalid username or password.",
		Code:     "invalid_credentials",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

// ValidationError returns a 400 scoped to the given payload field.
func ValidationError(field, msg string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     "validation_error",
		Field:    field,
	}
}

func ValidationTypeError(field, msg string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     "validation_type_error",
		Field:    field,
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
