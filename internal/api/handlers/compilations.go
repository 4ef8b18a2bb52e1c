package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/compilations"
	"github.com/gatherly/server/internal/domain/fault"
)

// CompilationsHandler serves pinned event collections: public reads and
// the admin CRUD.
type CompilationsHandler struct {
	Service *compilations.Service
	Env     string
}

func NewCompilationsHandler(service *compilations.Service, env string) *CompilationsHandler {
	return &CompilationsHandler{Service: service, Env: env}
}

type newCompilationRequest struct {
	Title  string  `json:"title" validate:"required,min=1,max=50"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events" validate:"omitempty,dive,gt=0"`
}

type updateCompilationRequest struct {
	Title  *string `json:"title" validate:"omitempty,max=50"`
	Pinned *bool   `json:"pinned"`
	Events []int64 `json:"events" validate:"omitempty,dive,gt=0"`
}

type compilationResponse struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

func toCompilationResponse(compilation compilations.Compilation) compilationResponse {
	events := compilation.EventIDs
	if events == nil {
		events = []int64{}
	}
	return compilationResponse{
		ID:     compilation.ID,
		Title:  compilation.Title,
		Pinned: compilation.Pinned,
		Events: events,
	}
}

func (h *CompilationsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var pinned *bool
	if raw := strings.TrimSpace(r.URL.Query().Get("pinned")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problem.FromError(w, r, fault.Validationf("invalid pinned: must be a boolean"), h.Env)
			return
		}
		pinned = &value
	}

	items, err := h.Service.List(r.Context(), pinned, page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	out := make([]compilationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCompilationResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CompilationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	compID, err := pathInt64(r, "compId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	item, err := h.Service.Get(r.Context(), compID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toCompilationResponse(*item))
}

func (h *CompilationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload newCompilationRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	created, err := h.Service.Create(r.Context(), compilations.NewCompilation{
		Title:    payload.Title,
		Pinned:   payload.Pinned,
		EventIDs: payload.Events,
	})
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toCompilationResponse(*created))
}

func (h *CompilationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	compID, err := pathInt64(r, "compId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var payload updateCompilationRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	updated, err := h.Service.Update(r.Context(), compID, compilations.UpdateParams{
		Title:    payload.Title,
		Pinned:   payload.Pinned,
		EventIDs: payload.Events,
	})
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toCompilationResponse(*updated))
}

func (h *CompilationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	compID, err := pathInt64(r, "compId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), compID); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
