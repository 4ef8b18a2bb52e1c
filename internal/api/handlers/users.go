package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/users"
)

// UsersHandler serves the admin user registry.
type UsersHandler struct {
	Service *users.Service
	Env     string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{Service: service, Env: env}
}

type newUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=250"`
	Email string `json:"email" validate:"required,email,max=254"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(user users.User) userResponse {
	return userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload newUserRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	created, err := h.Service.Create(r.Context(), users.User{Name: payload.Name, Email: payload.Email})
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(*created))
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	ids, err := idListParam(r, "ids")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), ids, page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	out := make([]userResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toUserResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), userID); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
