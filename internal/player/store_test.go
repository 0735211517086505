package player_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/gardenal/internal/database"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (player.Store, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return player.New(db), db, teardown
}

func TestCreateAndGetPlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := &player.Player{Name: "Ana", Email: "  Ana@Example.com "}
	require.NoError(t, store.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "An ID should be generated")
	assert.Equal(t, player.RoleUser, p.Role, "Role should default to user")

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@example.com", got.Email)

	byEmail, err := store.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byEmail.ID)

	exists, err := store.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreatePlayer_DuplicateEmail(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &player.Player{Email: "dup@example.com"}))
	err := store.Create(ctx, &player.Player{Email: "DUP@example.com"})
	assert.ErrorIs(t, err, player.ErrEmailInUse)
}

func TestGetPlayer_NotFound(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestGetMany(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	for _, p := range []*player.Player{
		{ID: "p1", Name: "Player One", Email: "p1@example.com"},
		{ID: "p2", Name: "Player Two", Email: "p2@example.com"},
		{ID: "p3", Name: "Player Three", Email: "p3@example.com"},
	} {
		require.NoError(t, store.Create(ctx, p))
	}

	t.Run("gets multiple players", func(t *testing.T) {
		players, err := store.GetMany(ctx, []string{"p1", "p3"})
		require.NoError(t, err)
		require.Len(t, players, 2)

		playerMap := make(map[string]player.Player)
		for _, p := range players {
			playerMap[p.ID] = p
		}
		assert.Equal(t, "Player One", playerMap["p1"].Name)
		assert.Equal(t, "Player Three", playerMap["p3"].Name)
	})

	t.Run("skips unknown ids", func(t *testing.T) {
		players, err := store.GetMany(ctx, []string{"p2", "p9"})
		require.NoError(t, err)
		require.Len(t, players, 1)
		assert.Equal(t, "p2", players[0].ID)
	})

	t.Run("returns empty slice for empty id slice", func(t *testing.T) {
		players, err := store.GetMany(ctx, []string{})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})
}

func TestListOrdersByName(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &player.Player{Name: "carla", Email: "c@example.com"}))
	require.NoError(t, store.Create(ctx, &player.Player{Name: "Bruno", Email: "b@example.com"}))
	require.NoError(t, store.Create(ctx, &player.Player{Name: "Ana", Email: "a@example.com"}))

	players, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, []string{"Ana", "Bruno", "carla"}, []string{players[0].Name, players[1].Name, players[2].Name})
}

func TestUpdates(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	p := &player.Player{ID: "p1", Name: "Old", Email: "p1@example.com", PasswordHash: "old"}
	require.NoError(t, store.Create(ctx, p))

	require.NoError(t, store.UpdateName(ctx, "p1", "  New Name "))
	require.NoError(t, store.UpdateRole(ctx, "p1", player.RoleAdmin))
	require.NoError(t, store.UpdatePassword(ctx, "p1", "new-hash"))

	got, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, player.RoleAdmin, got.Role)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, store.UpdateName(ctx, "missing", "x"), player.ErrNotFound)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana", player.Player{ID: "1", Name: "Ana", Email: "a@x"}.DisplayName())
	assert.Equal(t, "a@x", player.Player{ID: "1", Email: "a@x"}.DisplayName())
	assert.Equal(t, "1", player.Player{ID: "1"}.DisplayName())
}
