package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/stretchr/testify/require"
)

func writeAndDecode(t *testing.T, err error, env string) (int, ProblemDetails) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/events/1", nil)
	rec := httptest.NewRecorder()
	FromError(rec, req, err, env)

	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var details ProblemDetails
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&details))
	return rec.Code, details
}

func TestFromErrorNotFound(t *testing.T) {
	status, details := writeAndDecode(t, fault.NotFoundf("event 1 is not found"), "test")

	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, http.StatusNotFound, details.Status)
	require.Equal(t, "Not found", details.Title)
	require.Equal(t, "event 1 is not found", details.Detail)
	require.Equal(t, "/events/1", details.Instance)
}

func TestFromErrorValidation(t *testing.T) {
	status, details := writeAndDecode(t, fault.Validationf("title must not be blank"), "test")

	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "title must not be blank", details.Detail)
}

func TestFromErrorConflict(t *testing.T) {
	status, _ := writeAndDecode(t, fault.Conflictf("limit reached"), "test")

	require.Equal(t, http.StatusConflict, status)
}

func TestFromErrorUniqueness(t *testing.T) {
	status, _ := writeAndDecode(t, fault.Uniquef("email taken"), "test")

	require.Equal(t, http.StatusConflict, status)
}

func TestFromErrorPaginationParam(t *testing.T) {
	status, details := writeAndDecode(t, pagination.ParamError{Param: "size", Message: "must be a number"}, "test")

	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, details.Detail, "size")
}

func TestFromErrorWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), fault.NotFoundf("inner gone"))
	status, _ := writeAndDecode(t, wrapped, "test")

	require.Equal(t, http.StatusNotFound, status)
}

func TestFromErrorUnknownIsServerError(t *testing.T) {
	status, details := writeAndDecode(t, errors.New("pool exhausted"), "production")

	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, http.StatusText(http.StatusInternalServerError), details.Detail)
}

func TestFromErrorHidesDetailOutsideDevelopment(t *testing.T) {
	_, details := writeAndDecode(t, errors.New("dsn=postgres://secret"), "production")

	require.NotContains(t, details.Detail, "secret")
}
