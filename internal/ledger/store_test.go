package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/gardenal/internal/database"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (ledger.Store, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return ledger.NewStore(db), db, teardown
}

func sampleMatch(id string, teamA, teamB [2]string, createdAt time.Time) *ledger.Match {
	return &ledger.Match{
		ID:        id,
		CreatedBy: teamA[0],
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		TeamA:     teamA,
		TeamB:     teamB,
		Rounds:    []ledger.Round{},
		Lisa:      []string{},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	created := time.UnixMilli(1714560000000).UTC()
	m := sampleMatch("m1", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, created)
	require.NoError(t, store.Create(ctx, m))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrMatchNotFound)
}

func TestStore_UpdateRoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	created := time.UnixMilli(1714560000000).UTC()
	require.NoError(t, store.Create(ctx, sampleMatch("m1", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, created)))

	finishedAt := created.Add(time.Hour)
	updated, err := store.Update(ctx, "m1", func(m *ledger.Match) error {
		m.Rounds = append(m.Rounds, ledger.Round{Number: 1, PointsA: 100, RecordedAt: finishedAt, RecordedBy: "p1"})
		m.TotalA = 100
		m.Finished = true
		m.WinnerTeam = ledger.TeamA
		m.Lisa = []string{"p1", "p2"}
		m.FinishedAt = &finishedAt
		m.UpdatedAt = finishedAt
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.True(t, got.Finished)
	assert.Equal(t, ledger.TeamA, got.WinnerTeam)
	assert.Equal(t, []string{"p1", "p2"}, got.Lisa)
	require.NotNil(t, got.FinishedAt)
	assert.True(t, finishedAt.Equal(*got.FinishedAt))
}

func TestStore_UpdateErrorRollsBack(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleMatch("m1", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, time.Now().UTC())))

	boom := errors.New("boom")
	_, err := store.Update(ctx, "m1", func(m *ledger.Match) error {
		m.TotalA = 50
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, got.TotalA)
	assert.Zero(t, got.Version)

	_, err = store.Update(ctx, "missing", func(*ledger.Match) error { return nil })
	assert.ErrorIs(t, err, ledger.ErrMatchNotFound)
}

func TestStore_VersionIsManagedByStore(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleMatch("m1", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, time.Now().UTC())))

	for i := 0; i < 2; i++ {
		_, err := store.Update(ctx, "m1", func(m *ledger.Match) error {
			m.TotalA += 10
			m.Version = 99
			return nil
		})
		require.NoError(t, err)
	}

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.TotalA)
	assert.Equal(t, int64(2), got.Version)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleMatch("m1", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, time.Now().UTC())))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "m1", func(m *ledger.Match) error {
				m.Rounds = append(m.Rounds, ledger.Round{Number: len(m.Rounds) + 1, PointsA: 1})
				m.TotalA++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.TotalA)
	assert.Len(t, got.Rounds, 10)
	assert.Equal(t, int64(10), got.Version)
}

func TestStore_ListFilters(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	base := time.UnixMilli(1714560000000).UTC()
	require.NoError(t, store.Create(ctx, sampleMatch("old", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, base)))
	require.NoError(t, store.Create(ctx, sampleMatch("mid", [2]string{"p5", "p6"}, [2]string{"p1", "p7"}, base.Add(time.Minute))))
	require.NoError(t, store.Create(ctx, sampleMatch("new", [2]string{"p5", "p6"}, [2]string{"p7", "p8"}, base.Add(2*time.Minute))))
	_, err := store.Update(ctx, "old", func(m *ledger.Match) error {
		m.Finished = true
		m.WinnerTeam = ledger.TeamA
		now := base.Add(time.Hour)
		m.FinishedAt = &now
		return nil
	})
	require.NoError(t, err)

	ids := func(ms []*ledger.Match) []string {
		out := []string{}
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	all, err := store.List(ctx, ledger.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(all))

	limited, err := store.List(ctx, ledger.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid"}, ids(limited))

	withP1, err := store.List(ctx, ledger.ListOptions{PlayerID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "old"}, ids(withP1))

	unfinished := false
	open, err := store.List(ctx, ledger.ListOptions{Finished: &unfinished, PlayerID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, ids(open))

	active, err := store.ListUnfinished(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"new", "mid"}, ids(active))

	done, err := store.ListFinished(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids(done))
}

func TestStore_Delete(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleMatch("m1", [2]string{"p1", "p2"}, [2]string{"p3", "p4"}, time.Now().UTC())))
	require.NoError(t, store.Delete(ctx, "m1"))
	assert.ErrorIs(t, store.Delete(ctx, "m1"), ledger.ErrMatchNotFound)
}

func TestStore_ListUnfinishedFailsOnCorruptRow(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	base := time.UnixMilli(1714560000000).UTC()
	require.NoError(t, store.Create(ctx, sampleMatch("good", [2]string{"p5", "p6"}, [2]string{"p7", "p8"}, base)))
	_, err := db.ExecContext(ctx, `
		INSERT INTO matches (id, created_by, created_at, updated_at, team_a_json, team_b_json)
		VALUES ('corrupt', 'p1', ?, ?, 'not json', '["p3","p4"]')`, base.UnixMilli(), base.UnixMilli())
	require.NoError(t, err)

	_, err = store.ListUnfinished(ctx)
	assert.Error(t, err)

	all, err := store.List(ctx, ledger.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "good", all[0].ID)

	players := player.NewMock(
		player.Player{ID: "p1"}, player.Player{ID: "p2"},
		player.Player{ID: "p3"}, player.Player{ID: "p4"},
	)
	svc := ledger.New(store, players, nil, metrics.NewMock(), ledger.Options{})
	_, err = svc.CreateMatch(ctx, "p1", []string{"p1", "p2"}, []string{"p3", "p4"})
	assert.Error(t, err, "players of an unreadable active match must not be placed in a new one")
}
