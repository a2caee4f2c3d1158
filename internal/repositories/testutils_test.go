package repositories

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/sqlite"
	"github.com/jkorri/spotthebot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, dbs.Close())
	})

	return dbs
}

// seedProfile inserts a fresh profile and returns it.
func seedProfile(t *testing.T, dbs *sqlite.Database) *models.Profile {
	t.Helper()

	repo := NewProfileRepository(dbs, testhelpers.NewLogger(io.Discard))
	profile := models.NewProfile()
	require.NoError(t, repo.Create(context.Background(), profile))
	return profile
}

// seedGame inserts a waiting game with the given room parameters.
func seedGame(t *testing.T, dbs *sqlite.Database, maxPlayers, botCount, chatDurationSeconds int) *models.Game {
	t.Helper()

	repo := NewGameRepository(dbs, testhelpers.NewLogger(io.Discard))
	game := &models.Game{
		Status:       models.GameStatusWaiting,
		Topic:        "If animals could talk, which would be the rudest?",
		TopicID:      1,
		MaxPlayers:   maxPlayers,
		BotCount:     botCount,
		ChatDuration: chatDurationSeconds,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), game))
	return game
}
