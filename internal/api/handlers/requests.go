package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/requests"
)

// RequestsHandler serves a requester's own participation requests.
type RequestsHandler struct {
	Service *requests.Service
	Env     string
}

func NewRequestsHandler(service *requests.Service, env string) *RequestsHandler {
	return &RequestsHandler{Service: service, Env: env}
}

type requestResponse struct {
	ID        int64  `json:"id"`
	Event     int64  `json:"event"`
	Requester int64  `json:"requester"`
	Created   string `json:"created"`
	Status    string `json:"status"`
}

func toRequestResponse(request requests.Request) requestResponse {
	return requestResponse{
		ID:        request.ID,
		Event:     request.EventID,
		Requester: request.RequesterID,
		Created:   formatTime(request.CreatedAt),
		Status:    string(request.Status),
	}
}

func toRequestResponses(items []requests.Request) []requestResponse {
	out := make([]requestResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toRequestResponse(item))
	}
	return out
}

func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.ListOwn(r.Context(), userID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponses(items))
}

func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	eventID, err := queryInt64(r, "eventId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	created, err := h.Service.Submit(r.Context(), userID, eventID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(*created))
}

func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	requestID, err := pathInt64(r, "requestId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	canceled, err := h.Service.Cancel(r.Context(), userID, requestID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toRequestResponse(*canceled))
}
