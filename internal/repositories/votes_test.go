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

func TestVoteRepository_SubmitBatch(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	players := NewPlayerRepository(dbs, logger)
	votes := NewVoteRepository(dbs, logger)
	ctx := context.Background()
	now := time.Now().UTC()

	game := seedGame(t, dbs, 7, 2, 120)
	bot1, err := players.AddBot(ctx, game.ID, models.PersonalityCasual, "BotMcBotface")
	require.NoError(t, err)
	bot2, err := players.AddBot(ctx, game.ID, models.PersonalityFormal, "RoboReply")
	require.NoError(t, err)
	profile := seedProfile(t, dbs)
	voter, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)

	batch, err := votes.SubmitBatch(ctx, game.ID, voter.ID, []int64{bot1.ID, bot2.ID}, now)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	// A repeat submission conflicts and persists nothing.
	_, err = votes.SubmitBatch(ctx, game.ID, voter.ID, []int64{bot1.ID, bot2.ID}, now)
	require.ErrorIs(t, err, ErrConflict)

	all, err := votes.ListByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	voters, err := votes.DistinctVoters(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{voter.ID}, voters)
}

func TestVoteRepository_FailedBatchPersistsNothing(t *testing.T) {
	dbs := newTestDB(t)
	logger := testhelpers.NewLogger(io.Discard)
	players := NewPlayerRepository(dbs, logger)
	votes := NewVoteRepository(dbs, logger)
	ctx := context.Background()
	now := time.Now().UTC()

	game := seedGame(t, dbs, 7, 2, 120)
	bot, err := players.AddBot(ctx, game.ID, models.PersonalityCasual, "BotMcBotface")
	require.NoError(t, err)
	profile := seedProfile(t, dbs)
	voter, err := players.AddHuman(ctx, game.ID, profile.ID)
	require.NoError(t, err)

	// Duplicate targets violate the unique constraint mid-batch; the
	// transaction rolls back as a whole.
	_, err = votes.SubmitBatch(ctx, game.ID, voter.ID, []int64{bot.ID, bot.ID}, now)
	require.Error(t, err)

	all, err := votes.ListByGame(ctx, game.ID)
	require.NoError(t, err)
	require.Empty(t, all)
}
