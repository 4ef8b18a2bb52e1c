package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/categories"
	"github.com/gatherly/server/internal/domain/compilations"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/gatherly/server/internal/domain/requests"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/stats"
	"github.com/stretchr/testify/require"
)

func TestEventRepositoryRoundtrip(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	user := seedUser(t, ctx, repo, "Ada", "ada@example.com")
	category := seedCategory(t, ctx, repo, "concerts")

	created := seedEvent(t, ctx, repo, user.ID, category.ID, events.StatePending, 10)

	loaded, err := repo.Events().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, loaded.ID)
	require.Equal(t, events.StatePending, loaded.State)
	require.Equal(t, 10, loaded.ParticipantLimit)
	require.InDelta(t, 52.52, loaded.Location.Lat, 0.0001)
	require.Nil(t, loaded.PublishedAt)

	_, err = repo.Events().GetByID(ctx, created.ID+1000)
	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestEventRepositoryListPublished(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	user := seedUser(t, ctx, repo, "Ada", "ada@example.com")
	category := seedCategory(t, ctx, repo, "concerts")
	other := seedCategory(t, ctx, repo, "lectures")

	published := seedEvent(t, ctx, repo, user.ID, category.ID, events.StatePublished, 0)
	seedEvent(t, ctx, repo, user.ID, other.ID, events.StatePending, 0)

	page := pagination.Page{Size: 10}
	listed, err := repo.Events().ListPublished(ctx, events.PublicFilters{}, time.Now(), page)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, published.ID, listed[0].ID)

	listed, err = repo.Events().ListPublished(ctx, events.PublicFilters{Text: "improv"}, time.Now(), page)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, err = repo.Events().ListPublished(ctx, events.PublicFilters{Text: "no such thing"}, time.Now(), page)
	require.NoError(t, err)
	require.Empty(t, listed)

	listed, err = repo.Events().ListPublished(ctx, events.PublicFilters{Categories: []int64{other.ID}}, time.Now(), page)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestEventRepositoryListAdminFilters(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	ada := seedUser(t, ctx, repo, "Ada", "ada@example.com")
	grace := seedUser(t, ctx, repo, "Grace", "grace@example.com")
	category := seedCategory(t, ctx, repo, "concerts")

	seedEvent(t, ctx, repo, ada.ID, category.ID, events.StatePublished, 0)
	pending := seedEvent(t, ctx, repo, grace.ID, category.ID, events.StatePending, 0)

	page := pagination.Page{Size: 10}
	listed, err := repo.Events().ListAdmin(ctx, events.AdminFilters{States: []events.State{events.StatePending}}, page)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, pending.ID, listed[0].ID)

	listed, err = repo.Events().ListAdmin(ctx, events.AdminFilters{Users: []int64{grace.ID}}, page)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, err = repo.Events().ListAdmin(ctx, events.AdminFilters{}, page)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	seedUser(t, ctx, repo, "Ada", "ada@example.com")

	_, err := repo.Users().Create(ctx, users.User{Name: "Other Ada", Email: "ada@example.com"})

	var unique *fault.UniquenessError
	require.ErrorAs(t, err, &unique)
}

func TestCategoryRepositoryDuplicateName(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	seedCategory(t, ctx, repo, "concerts")

	_, err := repo.Categories().Create(ctx, categories.Category{Name: "concerts"})

	var unique *fault.UniquenessError
	require.ErrorAs(t, err, &unique)
}

func TestRequestRepositoryLockAndBatch(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	owner := seedUser(t, ctx, repo, "Ada", "ada@example.com")
	category := seedCategory(t, ctx, repo, "concerts")
	event := seedEvent(t, ctx, repo, owner.ID, category.ID, events.StatePublished, 5)

	var first, second *requests.Request
	err := repo.Requests().WithEventLock(ctx, event.ID, func(ctx context.Context, tx requests.Tx) error {
		var err error
		first, err = tx.Create(ctx, requests.Request{
			EventID: event.ID, RequesterID: owner.ID + 100, CreatedAt: time.Now(), Status: requests.StatusPending,
		})
		require.NoError(t, err)
		second, err = tx.Create(ctx, requests.Request{
			EventID: event.ID, RequesterID: owner.ID + 101, CreatedAt: time.Now(), Status: requests.StatusPending,
		})
		return err
	})
	require.NoError(t, err)

	err = repo.Requests().WithEventLock(ctx, event.ID, func(ctx context.Context, tx requests.Tx) error {
		batch, err := tx.FindByEventAndIDs(ctx, event.ID, []int64{second.ID, first.ID})
		require.NoError(t, err)
		require.Len(t, batch, 2)
		require.Equal(t, second.ID, batch[0].ID)
		require.Equal(t, first.ID, batch[1].ID)

		return tx.UpdateStatuses(ctx, []int64{first.ID}, requests.StatusConfirmed)
	})
	require.NoError(t, err)

	counts, err := repo.Requests().CountConfirmedByEvents(ctx, []int64{event.ID})
	require.NoError(t, err)
	require.Equal(t, 1, counts[event.ID])
}

func TestRequestRepositoryDuplicatePair(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	owner := seedUser(t, ctx, repo, "Ada", "ada@example.com")
	requester := seedUser(t, ctx, repo, "Grace", "grace@example.com")
	category := seedCategory(t, ctx, repo, "concerts")
	event := seedEvent(t, ctx, repo, owner.ID, category.ID, events.StatePublished, 5)

	err := repo.Requests().WithEventLock(ctx, event.ID, func(ctx context.Context, tx requests.Tx) error {
		_, err := tx.Create(ctx, requests.Request{
			EventID: event.ID, RequesterID: requester.ID, CreatedAt: time.Now(), Status: requests.StatusPending,
		})
		return err
	})
	require.NoError(t, err)

	err = repo.Requests().WithEventLock(ctx, event.ID, func(ctx context.Context, tx requests.Tx) error {
		_, err := tx.Create(ctx, requests.Request{
			EventID: event.ID, RequesterID: requester.ID, CreatedAt: time.Now(), Status: requests.StatusPending,
		})
		return err
	})
	var conflict *fault.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestRequestRepositoryLockMissingEvent(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	err := repo.Requests().WithEventLock(ctx, 12345, func(ctx context.Context, tx requests.Tx) error {
		t.Fatal("unit of work must not run for a missing event")
		return nil
	})

	var notFound *fault.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCompilationRepositoryRoundtrip(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	owner := seedUser(t, ctx, repo, "Ada", "ada@example.com")
	category := seedCategory(t, ctx, repo, "concerts")
	first := seedEvent(t, ctx, repo, owner.ID, category.ID, events.StatePublished, 0)
	second := seedEvent(t, ctx, repo, owner.ID, category.ID, events.StatePublished, 0)

	created, err := repo.Compilations().Create(ctx, compilations.Compilation{
		Title:    "Weekend Picks",
		Pinned:   true,
		EventIDs: []int64{first.ID, second.ID},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{first.ID, second.ID}, created.EventIDs)

	created.EventIDs = []int64{second.ID}
	updated, err := repo.Compilations().Update(ctx, *created)
	require.NoError(t, err)
	require.Equal(t, []int64{second.ID}, updated.EventIDs)

	pinned := true
	listed, err := repo.Compilations().List(ctx, &pinned, pagination.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].EventIDs)
}

func TestStatsRepositoryCounts(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		require.NoError(t, repo.Stats().SaveHit(ctx, stats.Hit{
			App: "gatherly-server", URI: "/events/1", IP: ip, Timestamp: base,
		}))
	}

	counts, err := repo.Stats().CountHits(ctx, base.Add(-time.Hour), base.Add(time.Hour), []string{"/events/1"}, true)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.EqualValues(t, 2, counts[0].Hits)

	counts, err = repo.Stats().CountHits(ctx, base.Add(-time.Hour), base.Add(time.Hour), nil, false)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.EqualValues(t, 3, counts[0].Hits)
}
