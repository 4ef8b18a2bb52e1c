package compilations

import (
	"context"
	"sort"
	"testing"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/stretchr/testify/require"
)

type memCompilationRepo struct {
	compilations map[int64]Compilation
	nextID       int64
}

func newMemCompilationRepo() *memCompilationRepo {
	return &memCompilationRepo{compilations: make(map[int64]Compilation), nextID: 1}
}

func (r *memCompilationRepo) Create(_ context.Context, compilation Compilation) (*Compilation, error) {
	compilation.ID = r.nextID
	r.nextID++
	r.compilations[compilation.ID] = compilation
	return &compilation, nil
}

func (r *memCompilationRepo) Update(_ context.Context, compilation Compilation) (*Compilation, error) {
	if _, ok := r.compilations[compilation.ID]; !ok {
		return nil, fault.NotFoundf("compilation %d is not found", compilation.ID)
	}
	r.compilations[compilation.ID] = compilation
	return &compilation, nil
}

func (r *memCompilationRepo) GetByID(_ context.Context, id int64) (*Compilation, error) {
	compilation, ok := r.compilations[id]
	if !ok {
		return nil, fault.NotFoundf("compilation %d is not found", id)
	}
	return &compilation, nil
}

func (r *memCompilationRepo) List(_ context.Context, pinned *bool, page pagination.Page) ([]Compilation, error) {
	var items []Compilation
	for _, compilation := range r.compilations {
		if pinned != nil && compilation.Pinned != *pinned {
			continue
		}
		items = append(items, compilation)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return pagination.Slice(items, page), nil
}

func (r *memCompilationRepo) Delete(_ context.Context, id int64) error {
	delete(r.compilations, id)
	return nil
}

func TestCreateCompilation(t *testing.T) {
	service := NewService(newMemCompilationRepo())

	created, err := service.Create(context.Background(), NewCompilation{
		Title:    "Weekend Picks",
		Pinned:   true,
		EventIDs: []int64{3, 1},
	})

	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.True(t, created.Pinned)
	require.Equal(t, []int64{3, 1}, created.EventIDs)
}

func TestCreateCompilationBlankTitle(t *testing.T) {
	service := NewService(newMemCompilationRepo())

	_, err := service.Create(context.Background(), NewCompilation{Title: " "})

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestUpdateCompilationPartial(t *testing.T) {
	service := NewService(newMemCompilationRepo())
	created, err := service.Create(context.Background(), NewCompilation{Title: "Weekend Picks", EventIDs: []int64{1}})
	require.NoError(t, err)

	pinned := true
	updated, err := service.Update(context.Background(), created.ID, UpdateParams{Pinned: &pinned})

	require.NoError(t, err)
	require.True(t, updated.Pinned)
	require.Equal(t, "Weekend Picks", updated.Title)
	require.Equal(t, []int64{1}, updated.EventIDs)
}

func TestUpdateCompilationReplacesEvents(t *testing.T) {
	service := NewService(newMemCompilationRepo())
	created, err := service.Create(context.Background(), NewCompilation{Title: "Weekend Picks", EventIDs: []int64{1, 2}})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, UpdateParams{EventIDs: []int64{5}})

	require.NoError(t, err)
	require.Equal(t, []int64{5}, updated.EventIDs)
}

func TestUpdateCompilationNotFound(t *testing.T) {
	service := NewService(newMemCompilationRepo())

	title := "anything"
	_, err := service.Update(context.Background(), 42, UpdateParams{Title: &title})

	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListCompilationsPinnedFilter(t *testing.T) {
	service := NewService(newMemCompilationRepo())
	_, err := service.Create(context.Background(), NewCompilation{Title: "Pinned", Pinned: true})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), NewCompilation{Title: "Plain"})
	require.NoError(t, err)

	pinned := true
	items, err := service.List(context.Background(), &pinned, pagination.Page{Size: 10})

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Pinned", items[0].Title)
}

func TestDeleteCompilation(t *testing.T) {
	service := NewService(newMemCompilationRepo())
	created, err := service.Create(context.Background(), NewCompilation{Title: "Weekend Picks"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	err = service.Delete(context.Background(), created.ID)
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
