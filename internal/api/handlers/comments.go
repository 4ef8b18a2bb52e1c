package handlers

import (
	"net/http"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/comments"
)

// CommentsHandler serves comment surfaces: public per-event listing,
// the author's own comments, and admin moderation.
type CommentsHandler struct {
	Service *comments.Service
	Env     string
}

func NewCommentsHandler(service *comments.Service, env string) *CommentsHandler {
	return &CommentsHandler{Service: service, Env: env}
}

type commentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type commentResponse struct {
	ID        int64  `json:"id"`
	Event     int64  `json:"event"`
	Author    int64  `json:"author"`
	Text      string `json:"text"`
	CreatedOn string `json:"createdOn"`
	Edited    bool   `json:"edited"`
}

func toCommentResponse(comment comments.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Event:     comment.EventID,
		Author:    comment.AuthorID,
		Text:      comment.Text,
		CreatedOn: formatTime(comment.CreatedAt),
		Edited:    comment.Edited,
	}
}

func toCommentResponses(items []comments.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toCommentResponse(item))
	}
	return out
}

func (h *CommentsHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt64(r, "eventId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.ListForEvent(r.Context(), eventID, page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponses(items))
}

func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var payload commentRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	created, err := h.Service.Create(r.Context(), userID, eventID, payload.Text)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(*created))
}

func (h *CommentsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, toCommentResponses(items))
}

func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, commentID, err := authorCommentIDs(r)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	var payload commentRequest
	if err := decodeValid(r, &payload); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	updated, err := h.Service.Update(r.Context(), userID, commentID, payload.Text)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(*updated))
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, commentID, err := authorCommentIDs(r)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	if err := h.Service.Delete(r.Context(), userID, commentID); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentsHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query())
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	items, err := h.Service.Search(r.Context(), r.URL.Query().Get("text"), page)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponses(items))
}

func (h *CommentsHandler) DeleteByAdmin(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathInt64(r, "commentId")
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	if err := h.Service.DeleteByAdmin(r.Context(), commentID); err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func authorCommentIDs(r *http.Request) (int64, int64, error) {
	userID, err := pathInt64(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	commentID, err := pathInt64(r, "commentId")
	if err != nil {
		return 0, 0, err
	}
	return userID, commentID, nil
}
