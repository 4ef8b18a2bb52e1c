// Package problem renders RFC 7807 application/problem+json responses and
// maps the domain error taxonomy onto HTTP statuses.
package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

type ProblemDetails struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Errors   map[string]any `json:"errors,omitempty"`
}

type Option func(*ProblemDetails)

func WithDetail(detail string) Option {
	return func(p *ProblemDetails) {
		p.Detail = detail
	}
}

func WithErrors(errs map[string]any) Option {
	return func(p *ProblemDetails) {
		p.Errors = errs
	}
}

// FromError maps a service error onto the right problem response. Anything
// outside the domain taxonomy is a server error.
func FromError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var notFound *fault.NotFoundError
	var conflict *fault.ConflictError
	var validation *fault.ValidationError
	var unique *fault.UniquenessError
	var param pagination.ParamError

	switch {
	case errors.As(err, &param):
		Write(w, r, http.StatusBadRequest, "https://gatherly.events/problems/validation-error", "Invalid request", err, env,
			WithDetail(param.Error()))
	case errors.As(err, &notFound):
		Write(w, r, http.StatusNotFound, "https://gatherly.events/problems/not-found", "Not found", err, env,
			WithDetail(notFound.Message))
	case errors.As(err, &validation):
		Write(w, r, http.StatusBadRequest, "https://gatherly.events/problems/validation-error", "Invalid request", err, env,
			WithDetail(validation.Message))
	case errors.As(err, &conflict):
		Write(w, r, http.StatusConflict, "https://gatherly.events/problems/conflict", "Conflict", err, env,
			WithDetail(conflict.Message))
	case errors.As(err, &unique):
		Write(w, r, http.StatusConflict, "https://gatherly.events/problems/conflict", "Conflict", err, env,
			WithDetail(unique.Message))
	default:
		Write(w, r, http.StatusInternalServerError, "https://gatherly.events/problems/server-error", "Server error", err, env)
	}
}

func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	problem := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	for _, opt := range opts {
		opt(&problem)
	}

	if problem.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			problem.Detail = err.Error()
		} else {
			problem.Detail = http.StatusText(status)
		}
	}

	if problem.Instance == "" && r != nil {
		problem.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteProblem(w, problem)
}

func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	payload, err := json.Marshal(problem)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(problem.Status)
	_, _ = w.Write(payload)
}
