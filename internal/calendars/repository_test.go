package calendars_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aidin1998/calendars/internal/calendars"
	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/Aidin1998/calendars/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *calendars.Repository {
	t.Helper()
	repo := calendars.NewRepository(testutil.NewSQLiteDB(t))
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func insert(t *testing.T, repo *calendars.Repository, name, description string, at time.Time) *calendars.Calendar {
	t.Helper()
	cal := &calendars.Calendar{Name: name, Description: description, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, repo.Create(context.Background(), cal))
	return cal
}

func TestRepository_CreateAssignsDistinctIDs(t *testing.T) {
	repo := newRepository(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC)

	first := insert(t, repo, "Team Sync", "Weekly", at)
	second := insert(t, repo, "Team Sync", "Weekly", at)

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := repo.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly", got.Description)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.True(t, got.UpdatedAt.Equal(at))
}

func TestRepository_ListEmptyIsEmptySlice(t *testing.T) {
	repo := newRepository(t)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRepository_ListOrderedByID(t *testing.T) {
	repo := newRepository(t)
	now := time.Now().UTC()
	a := insert(t, repo, "b-second-alphabetically", "", now)
	b := insert(t, repo, "a-first-alphabetically", "", now)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []calendars.PartialCalendar{
		{ID: a.ID, Name: a.Name},
		{ID: b.ID, Name: b.Name},
	}, list)
}

func TestRepository_FindByNameExactMatchLowestID(t *testing.T) {
	repo := newRepository(t)
	now := time.Now().UTC()
	first := insert(t, repo, "Ops", "one", now)
	insert(t, repo, "Ops", "two", now)
	insert(t, repo, "ops", "lowercase", now)

	got, err := repo.FindByName(context.Background(), "Ops")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "one", got.Description)

	_, err = repo.FindByName(context.Background(), "Op")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestRepository_FindByIDMissing(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.FindByID(context.Background(), 12345)
	assert.True(t, calendars.IsNotFound(err))
}

func TestRepository_UpdateOverwritesFields(t *testing.T) {
	repo := newRepository(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := insert(t, repo, "Team Sync", "Weekly", created)

	updated := created.Add(time.Hour)
	require.NoError(t, repo.Update(context.Background(), cal.ID, calendars.Input{Name: "", Description: "Biweekly"}, updated))

	got, err := repo.FindByID(context.Background(), cal.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "Biweekly", got.Description)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(updated))
}

func TestRepository_UpdateMissingDoesNotMutate(t *testing.T) {
	repo := newRepository(t)
	now := time.Now().UTC()
	cal := insert(t, repo, "Keep", "me", now)

	err := repo.Update(context.Background(), cal.ID+100, calendars.Input{Name: "x", Description: "y"}, now)
	assert.True(t, calendars.IsNotFound(err))

	got, err := repo.FindByID(context.Background(), cal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Name)
	assert.Equal(t, "me", got.Description)
}

func TestRepository_DeleteReturnsFormerRow(t *testing.T) {
	repo := newRepository(t)
	cal := insert(t, repo, "Team Sync", "Weekly", time.Now().UTC())

	deleted, err := repo.Delete(context.Background(), cal.ID)
	require.NoError(t, err)
	assert.Equal(t, &calendars.DeletedCalendar{ID: cal.ID, Name: "Team Sync", Description: "Weekly"}, deleted)

	_, err = repo.FindByID(context.Background(), cal.ID)
	assert.True(t, calendars.IsNotFound(err))

	_, err = repo.Delete(context.Background(), cal.ID)
	assert.True(t, calendars.IsNotFound(err))
}

func TestRepository_DeleteRemovesOnlyTarget(t *testing.T) {
	repo := newRepository(t)
	now := time.Now().UTC()
	keep := insert(t, repo, "Keep", "stays", now)
	gone := insert(t, repo, "Gone", "goes", now)

	deleted, err := repo.Delete(context.Background(), gone.ID)
	require.NoError(t, err)
	assert.Equal(t, gone.ID, deleted.ID)
	assert.Equal(t, "Gone", deleted.Name)
	assert.Equal(t, "goes", deleted.Description)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []calendars.PartialCalendar{{ID: keep.ID, Name: "Keep"}}, list)
}

func TestRepository_ConcurrentDeletesSucceedOnce(t *testing.T) {
	repo := newRepository(t)
	cal := insert(t, repo, "Contended", "x", time.Now().UTC())

	const workers = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		notFound  atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Delete(context.Background(), cal.ID)
			switch {
			case err == nil:
				succeeded.Add(1)
			case calendars.IsNotFound(err):
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), notFound.Load())
}

func TestRepository_FindReturnsUTC(t *testing.T) {
	repo := newRepository(t)
	zone := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 10, 18, 11, 30, 0, 0, zone)
	cal := insert(t, repo, "Zoned", "d", at)

	byID, err := repo.FindByID(context.Background(), cal.ID)
	require.NoError(t, err)
	byName, err := repo.FindByName(context.Background(), "Zoned")
	require.NoError(t, err)

	for _, got := range []*calendars.Calendar{byID, byName} {
		assert.Equal(t, time.UTC, got.CreatedAt.Location())
		assert.Equal(t, time.UTC, got.UpdatedAt.Location())
		assert.True(t, got.CreatedAt.Equal(at))
	}
}

func TestCalendar_AfterFindNormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 10, 18, 11, 30, 0, 0, zone)
	cal := &calendars.Calendar{CreatedAt: at, UpdatedAt: at.Add(time.Minute)}

	require.NoError(t, cal.AfterFind(nil))
	assert.Equal(t, time.UTC, cal.CreatedAt.Location())
	assert.Equal(t, time.UTC, cal.UpdatedAt.Location())
	assert.Equal(t, "2026-10-18T09:30:00Z", cal.CreatedAt.Format(time.RFC3339))
}
