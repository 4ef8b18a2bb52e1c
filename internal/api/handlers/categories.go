package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/categories"
)

// CategoriesHandler serves both the public catalog and the admin CRUD.
type CategoriesHandler struct {
	Service *categories.Service
	Env     string
}

func NewCategoriesHandler(service *categories.Service, env string) *CategoriesHandler {
	return &CategoriesHandler{Service: service, Env: env}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	out := make([]categoryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, categoryResponse{ID: item.ID, Name: item.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt64(r, "catId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	item, err := h.Service.Get(r.Context(), categoryID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, categoryResponse{ID: item.ID, Name: item.Name})
}

func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	created, err := h.Service.Create(r.Context(), payload.Name)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, categoryResponse{ID: created.ID, Name: created.Name})
}

func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt64(r, "catId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var payload categoryRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	updated, err := h.Service.Update(r.Context(), categoryID, payload.Name)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, categoryResponse{ID: updated.ID, Name: updated.Name})
}

func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt64(r, "catId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), categoryID); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
