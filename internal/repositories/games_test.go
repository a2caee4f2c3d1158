package repositories

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_CreateAndGet(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	repo := NewGameRepository(dbs, logger)
	ctx := context.Background()

	created := seedGame(t, dbs, 7, 2, 120)
	require.NotZero(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameStatusWaiting, got.Status)
	require.Equal(t, 7, got.MaxPlayers)
	require.Equal(t, 2, got.BotCount)
	require.Equal(t, 120, got.ChatDuration)
	require.Nil(t, got.StartedAt)
	require.Nil(t, got.EndedAt)

	_, err = repo.Get(ctx, created.ID+1000)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGameRepository_Transitions(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	repo := NewGameRepository(dbs, logger)
	ctx := context.Background()
	now := time.Now().UTC()

	game := seedGame(t, dbs, 7, 2, 120)

	require.NoError(t, repo.StartChat(ctx, game.ID, now))

	// The conditional update admits exactly one transition.
	require.ErrorIs(t, repo.StartChat(ctx, game.ID, now), ErrConflict)

	got, err := repo.Get(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameStatusChatting, got.Status)
	require.NotNil(t, got.StartedAt)

	require.NoError(t, repo.EndChat(ctx, game.ID, now))
	require.ErrorIs(t, repo.EndChat(ctx, game.ID, now), ErrConflict)

	got, err = repo.Get(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameStatusVoting, got.Status)
	require.NotNil(t, got.EndedAt)
}

func TestGameRepository_FindJoinableWaiting(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	games := NewGameRepository(dbs, logger)
	players := NewPlayerRepository(dbs, logger)
	ctx := context.Background()

	_, err := games.FindJoinableWaiting(ctx, time.Now().UTC().Add(-30*time.Second))
	require.ErrorIs(t, err, ErrNotFound)

	game := seedGame(t, dbs, 3, 2, 120)

	found, err := games.FindJoinableWaiting(ctx, game.CreatedAt.Add(-time.Second))
	require.NoError(t, err)
	require.Equal(t, game.ID, found.ID)

	// A room older than the window is never offered.
	_, err = games.FindJoinableWaiting(ctx, game.CreatedAt.Add(time.Second))
	require.ErrorIs(t, err, ErrNotFound)

	// A full room is never offered.
	_, err = players.AddBot(ctx, game.ID, models.PersonalityCasual, "BotMcBotface")
	require.NoError(t, err)
	_, err = players.AddBot(ctx, game.ID, models.PersonalityFormal, "RoboReply")
	require.NoError(t, err)
	profile := seedProfile(t, dbs)
	_, err = players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)

	_, err = games.FindJoinableWaiting(ctx, game.CreatedAt.Add(-time.Second))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGameRepository_Complete(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	games := NewGameRepository(dbs, logger)
	players := NewPlayerRepository(dbs, logger)
	profiles := NewProfileRepository(dbs, logger)
	ctx := context.Background()
	now := time.Now().UTC()

	game := seedGame(t, dbs, 7, 2, 120)
	profile := seedProfile(t, dbs)
	seat, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)

	require.NoError(t, games.StartChat(ctx, game.ID, now))
	require.NoError(t, games.EndChat(ctx, game.ID, now))

	scores := []PlayerScoreUpdate{{PlayerID: seat.ID, Score: 200}}
	stats := []ProfileStatsUpdate{{ProfileID: profile.ID, XPGained: 20, Won: true}}
	require.NoError(t, games.Complete(ctx, game.ID, scores, stats))

	got, err := games.Get(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameStatusCompleted, got.Status)

	updatedSeat, err := players.Get(ctx, seat.ID)
	require.NoError(t, err)
	require.Equal(t, 200, updatedSeat.Score)

	updatedProfile, err := profiles.Get(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, 20, updatedProfile.XP)
	require.Equal(t, 1, updatedProfile.GamesPlayed)
	require.Equal(t, 1, updatedProfile.GamesWon)

	// A second completion loses the compare-and-set and changes nothing.
	err = games.Complete(ctx, game.ID,
		[]PlayerScoreUpdate{{PlayerID: seat.ID, Score: 999}},
		[]ProfileStatsUpdate{{ProfileID: profile.ID, XPGained: 99, Won: true}})
	require.ErrorIs(t, err, ErrConflict)

	updatedSeat, err = players.Get(ctx, seat.ID)
	require.NoError(t, err)
	require.Equal(t, 200, updatedSeat.Score)
	updatedProfile, err = profiles.Get(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, 20, updatedProfile.XP)
	require.Equal(t, 1, updatedProfile.GamesPlayed)
}
