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

func TestPlayerRepository_Seating(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	players := NewPlayerRepository(dbs, logger)
	ctx := context.Background()

	game := seedGame(t, dbs, 3, 2, 120)

	bot1, err := players.AddBot(ctx, game.ID, models.PersonalityCasual, "BotMcBotface")
	require.NoError(t, err)
	require.True(t, bot1.IsBot)
	require.Equal(t, "BotMcBotface", bot1.BotName)
	require.Equal(t, models.PersonalityCasual, bot1.BotPersonality)
	require.Nil(t, bot1.ProfileID)

	_, err = players.AddBot(ctx, game.ID, models.PersonalityFormal, "RoboReply")
	require.NoError(t, err)

	profile := seedProfile(t, dbs)
	human, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)
	require.False(t, human.IsBot)
	require.NotNil(t, human.ProfileID)
	require.Equal(t, profile.ID, *human.ProfileID)

	// The room is at max_players; another human conflicts.
	other := seedProfile(t, dbs)
	_, err = players.AddHuman(ctx, game.ID, other.ID)
	require.ErrorIs(t, err, ErrConflict)

	all, err := players.ListByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Every seat resolves a display name, bot or human.
	for _, seat := range all {
		require.NotEmpty(t, seat.DisplayName)
		if !seat.IsBot {
			require.Equal(t, profile.Username, seat.DisplayName)
		}
	}

	bots, err := players.ListBots(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, bots, 2)
	for _, bot := range bots {
		require.True(t, bot.IsBot)
	}
}

func TestPlayerRepository_DuplicateProfileConflicts(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	players := NewPlayerRepository(dbs, logger)
	ctx := context.Background()

	game := seedGame(t, dbs, 7, 2, 120)
	profile := seedProfile(t, dbs)

	_, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)
	_, err = players.AddHuman(ctx, game.ID, profile.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestPlayerRepository_SeatingClosedAfterStart(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	games := NewGameRepository(dbs, logger)
	players := NewPlayerRepository(dbs, logger)
	ctx := context.Background()

	game := seedGame(t, dbs, 7, 2, 120)
	require.NoError(t, games.StartChat(ctx, game.ID, time.Now().UTC()))

	profile := seedProfile(t, dbs)
	_, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.ErrorIs(t, err, ErrConflict)

	_, err = players.AddBot(ctx, game.ID, models.PersonalityQuirky, "ByteMe")
	require.ErrorIs(t, err, ErrConflict)
}

func TestPlayerRepository_GetByProfile(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	players := NewPlayerRepository(dbs, logger)
	ctx := context.Background()

	game := seedGame(t, dbs, 7, 2, 120)
	profile := seedProfile(t, dbs)

	_, err := players.GetByProfile(ctx, game.ID, profile.ID)
	require.ErrorIs(t, err, ErrNotFound)

	seat, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)

	got, err := players.GetByProfile(ctx, game.ID, profile.ID)
	require.NoError(t, err)
	require.Equal(t, seat.ID, got.ID)
}
