package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/requests"
	"github.com/gatherly/server/internal/metrics"
)

// OwnerEventsHandler serves the initiator's own event surfaces, including
// the participation requests attached to an owned event.
type OwnerEventsHandler struct {
	Events   *events.Service
	Requests *requests.Service
	Env      string
}

func NewOwnerEventsHandler(eventsSvc *events.Service, requestsSvc *requests.Service, env string) *OwnerEventsHandler {
	return &OwnerEventsHandler{Events: eventsSvc, Requests: requestsSvc, Env: env}
}

func (h *OwnerEventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var payload newEventRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	draft, err := payload.toDraft()
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	created, err := h.Events.Create(r.Context(), userID, draft)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(*created, 0, 0))
}

func (h *OwnerEventsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Events.ListByOwner(r.Context(), userID, page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(items))
}

func (h *OwnerEventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	item, err := h.Events.GetForOwner(r.Context(), userID, eventID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*item, 0, 0))
}

func (h *OwnerEventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
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

	updated, err := h.Events.EditByOwner(r.Context(), userID, eventID, params)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*updated, 0, 0))
}

func (h *OwnerEventsHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Requests.ListForEvent(r.Context(), userID, eventID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponses(items))
}

type decideRequestsPayload struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1"`
	Status     string  `json:"status" validate:"required"`
}

type decideRequestsResponse struct {
	ConfirmedRequests []requestResponse `json:"confirmedRequests"`
	RejectedRequests  []requestResponse `json:"rejectedRequests"`
}

func (h *OwnerEventsHandler) DecideRequests(w http.ResponseWriter, r *http.Request) {
	userID, eventID, err := ownerEventIDs(r)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var payload decideRequestsPayload
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	result, err := h.Requests.Decide(r.Context(), userID, eventID, payload.RequestIDs, requests.Decision(payload.Status))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	metrics.RequestsDecided.WithLabelValues(string(requests.StatusConfirmed)).Add(float64(len(result.Confirmed)))
	metrics.RequestsDecided.WithLabelValues(string(requests.StatusRejected)).Add(float64(len(result.Rejected)))

	writeJSON(w, http.StatusOK, decideRequestsResponse{
		ConfirmedRequests: toRequestResponses(result.Confirmed),
		RejectedRequests:  toRequestResponses(result.Rejected),
	})
}

func ownerEventIDs(r *http.Request) (int64, int64, error) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	eventID, err := pathInt64(r, "eventId")
	if err != nil {
		return 0, 0, err
	}
	return userID, eventID, nil
}
