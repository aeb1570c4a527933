package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleErr(t *testing.T, err error) (int, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	NewHandler().Handle(err, c)

	return rr.Code, rr.Body.String()
}

func TestHandle_DetailBody(t *testing.T) {
	t.Parallel()

	code, body := handleErr(t, NotFound("Book"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"detail": "Book not found."}`, body)

	code, body = handleErr(t, NotAuthenticated())
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"detail": "Authentication credentials were not provided."}`, body)

	code, body = handleErr(t, PermissionDenied())
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"detail": "You do not have permission to perform this action."}`, body)
}

func TestHandle_FieldKeyedBody(t *testing.T) {
	t.Parallel()

	code, body := handleErr(t, ValidationError("price", "A valid number is required."))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"price": ["A valid number is required."]}`, body)
}

func TestHandle_WrappedError(t *testing.T) {
	t.Parallel()

	code, body := handleErr(t, errors.Wrap(NotFound("Book"), "retrieve"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"detail": "Book not found."}`, body)
}

func TestHandle_GenericError(t *testing.T) {
	t.Parallel()

	code, body := handleErr(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.JSONEq(t, `{"detail": "Internal server error."}`, body)
	require.NotContains(t, body, "boom")
}

func TestHandle_EchoHTTPError(t *testing.T) {
	t.Parallel()

	code, body := handleErr(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.JSONEq(t, `{"detail": "Method Not Allowed"}`, body)
}
