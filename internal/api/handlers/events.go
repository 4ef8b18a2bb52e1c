package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/events"
)

// EventsHandler serves the public event surfaces. Every read records an
// endpoint hit through the query service.
type EventsHandler struct {
	Query *events.QueryService
	Env   string
}

func NewEventsHandler(query *events.QueryService, env string) *EventsHandler {
	return &EventsHandler{Query: query, Env: env}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := events.ParsePublicFilters(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Query.ListPublished(r.Context(), filters, page, r.URL.RequestURI(), clientIP(r))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toProjectionResponses(items))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt64(r, "id")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	item, err := h.Query.GetPublishedDetail(r.Context(), eventID, r.URL.RequestURI(), clientIP(r))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(item.Event, item.ConfirmedRequests, item.Views))
}
