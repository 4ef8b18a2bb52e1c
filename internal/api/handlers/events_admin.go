package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/metrics"
)

// AdminEventsHandler serves the moderation surfaces.
type AdminEventsHandler struct {
	Events *events.Service
	Query  *events.QueryService
	Env    string
}

func NewAdminEventsHandler(eventsSvc *events.Service, query *events.QueryService, env string) *AdminEventsHandler {
	return &AdminEventsHandler{Events: eventsSvc, Query: query, Env: env}
}

func (h *AdminEventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := events.ParseAdminFilters(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Query.ListAdmin(r.Context(), filters, page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toProjectionResponses(items))
}

func (h *AdminEventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt64(r, "eventId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var payload updateEventRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	params, err := payload.toParams()
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	updated, err := h.Events.ReviewByAdmin(r.Context(), eventID, params)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	if params.Action == events.ActionPublish {
		metrics.EventsPublished.Inc()
	}

	writeJSON(w, http.StatusOK, toEventResponse(*updated, 0, 0))
}
