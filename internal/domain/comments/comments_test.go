package comments

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/stretchr/testify/require"
)

type memCommentRepo struct {
	comments map[int64]Comment
	nextID   int64
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: make(map[int64]Comment), nextID: 1}
}

func (r *memCommentRepo) Create(_ context.Context, comment Comment) (*Comment, error) {
	comment.ID = r.nextID
	r.nextID++
	r.comments[comment.ID] = comment
	return &comment, nil
}

func (r *memCommentRepo) Update(_ context.Context, comment Comment) (*Comment, error) {
	if _, ok := r.comments[comment.ID]; !ok {
		return nil, fault.NotFoundf("comment %d is not found", comment.ID)
	}
	r.comments[comment.ID] = comment
	return &comment, nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id int64) (*Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, fault.NotFoundf("comment %d is not found", id)
	}
	return &comment, nil
}

func (r *memCommentRepo) GetByAuthor(_ context.Context, authorID, commentID int64) (*Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok || comment.AuthorID != authorID {
		return nil, fault.NotFoundf("comment %d from user %d is not found", commentID, authorID)
	}
	return &comment, nil
}

func (r *memCommentRepo) ListByAuthor(_ context.Context, authorID int64) ([]Comment, error) {
	var items []Comment
	for _, comment := range r.comments {
		if comment.AuthorID == authorID {
			items = append(items, comment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memCommentRepo) ListByEvent(_ context.Context, eventID int64, page pagination.Page) ([]Comment, error) {
	var items []Comment
	for _, comment := range r.comments {
		if comment.EventID == eventID {
			items = append(items, comment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return pagination.Slice(items, page), nil
}

func (r *memCommentRepo) SearchText(_ context.Context, text string, page pagination.Page) ([]Comment, error) {
	var items []Comment
	for _, comment := range r.comments {
		if strings.Contains(strings.ToLower(comment.Text), strings.ToLower(text)) {
			items = append(items, comment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return pagination.Slice(items, page), nil
}

func (r *memCommentRepo) Delete(_ context.Context, id int64) error {
	delete(r.comments, id)
	return nil
}

type stubEventSource struct {
	events map[int64]events.Event
}

func (s stubEventSource) GetByID(_ context.Context, id int64) (*events.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, fault.NotFoundf("event %d is not found", id)
	}
	return &event, nil
}

type allUsers struct{}

func (allUsers) Exists(context.Context, int64) (bool, error) { return true, nil }

func newCommentService(repo *memCommentRepo) *Service {
	source := stubEventSource{events: map[int64]events.Event{
		1: {ID: 1, State: events.StatePublished},
		2: {ID: 2, State: events.StatePending},
	}}
	return NewService(repo, source, allUsers{})
}

func TestCreateComment(t *testing.T) {
	service := newCommentService(newMemCommentRepo())

	created, err := service.Create(context.Background(), 5, 1, "looking forward to this")

	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, int64(5), created.AuthorID)
	require.False(t, created.Edited)
}

func TestCreateCommentOnUnpublishedEvent(t *testing.T) {
	service := newCommentService(newMemCommentRepo())

	_, err := service.Create(context.Background(), 5, 2, "too early")

	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateCommentBlankText(t *testing.T) {
	service := newCommentService(newMemCommentRepo())

	_, err := service.Create(context.Background(), 5, 1, "   ")

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestUpdateCommentWithinWindow(t *testing.T) {
	repo := newMemCommentRepo()
	service := newCommentService(repo)
	created, err := service.Create(context.Background(), 5, 1, "first draft")
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), 5, created.ID, "second thoughts")

	require.NoError(t, err)
	require.Equal(t, "second thoughts", updated.Text)
	require.True(t, updated.Edited)
}

func TestUpdateCommentAfterWindow(t *testing.T) {
	repo := newMemCommentRepo()
	service := newCommentService(repo)
	created, err := service.Create(context.Background(), 5, 1, "first draft")
	require.NoError(t, err)

	stale := repo.comments[created.ID]
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	repo.comments[created.ID] = stale

	_, err = service.Update(context.Background(), 5, created.ID, "too late")

	var conflict *fault.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUpdateCommentNotAuthor(t *testing.T) {
	service := newCommentService(newMemCommentRepo())
	created, err := service.Create(context.Background(), 5, 1, "mine")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), 6, created.ID, "theirs")

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestSearchBlankTextMatchesNothing(t *testing.T) {
	service := newCommentService(newMemCommentRepo())
	_, err := service.Create(context.Background(), 5, 1, "findable")
	require.NoError(t, err)

	found, err := service.Search(context.Background(), "  ", pagination.Page{Size: 10})

	require.NoError(t, err)
	require.Empty(t, found)
}

func TestSearchCaseInsensitive(t *testing.T) {
	service := newCommentService(newMemCommentRepo())
	_, err := service.Create(context.Background(), 5, 1, "Great Lineup")
	require.NoError(t, err)

	found, err := service.Search(context.Background(), "lineup", pagination.Page{Size: 10})

	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestDeleteCommentNotAuthor(t *testing.T) {
	service := newCommentService(newMemCommentRepo())
	created, err := service.Create(context.Background(), 5, 1, "mine")
	require.NoError(t, err)

	err = service.Delete(context.Background(), 6, created.ID)

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestDeleteByAdmin(t *testing.T) {
	repo := newMemCommentRepo()
	service := newCommentService(repo)
	created, err := service.Create(context.Background(), 5, 1, "gone soon")
	require.NoError(t, err)

	require.NoError(t, service.DeleteByAdmin(context.Background(), created.ID))

	err = service.DeleteByAdmin(context.Background(), created.ID)
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
