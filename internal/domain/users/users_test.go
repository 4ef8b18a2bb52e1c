package users

import (
	"context"
	"sort"
	"testing"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users  map[int64]User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]User), nextID: 1}
}

func (r *memUserRepo) Create(_ context.Context, user User) (*User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, fault.Uniquef("email %s is already registered", user.Email)
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return &user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fault.NotFoundf("user %d is not found", id)
	}
	return &user, nil
}

func (r *memUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUserRepo) List(_ context.Context, ids []int64, page pagination.Page) ([]User, error) {
	var items []User
	for _, user := range r.users {
		if len(ids) > 0 && !containsID(ids, user.ID) {
			continue
		}
		items = append(items, user)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return pagination.Slice(items, page), nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return fault.NotFoundf("user %d is not found", id)
	}
	delete(r.users, id)
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func TestCreateUser(t *testing.T) {
	service := NewService(newMemUserRepo())

	created, err := service.Create(context.Background(), User{Name: "Ada", Email: "ada@example.com"})

	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Ada", created.Name)
}

func TestCreateUserBadEmail(t *testing.T) {
	service := NewService(newMemUserRepo())

	_, err := service.Create(context.Background(), User{Name: "Ada", Email: "not-an-address"})

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestCreateUserBlankName(t *testing.T) {
	service := NewService(newMemUserRepo())

	_, err := service.Create(context.Background(), User{Name: " ", Email: "ada@example.com"})

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	service := NewService(newMemUserRepo())
	_, err := service.Create(context.Background(), User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), User{Name: "Other Ada", Email: "ada@example.com"})

	var unique *fault.UniquenessError
	require.ErrorAs(t, err, &unique)
}

func TestListUsersByIDs(t *testing.T) {
	service := NewService(newMemUserRepo())
	first, err := service.Create(context.Background(), User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), User{Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	users, err := service.List(context.Background(), []int64{first.ID}, pagination.Page{Size: 10})

	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, first.ID, users[0].ID)
}

func TestDeleteUser(t *testing.T) {
	service := NewService(newMemUserRepo())
	created, err := service.Create(context.Background(), User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	err = service.Delete(context.Background(), created.ID)
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
