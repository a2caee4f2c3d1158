package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/sqlite"
)

type VoteRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewVoteRepository(dbs *sqlite.Database, logger *slog.Logger) *VoteRepository {
	return &VoteRepository{
		dbs:    dbs,
		logger: logger.With("source", "VoteRepository"),
	}
}

// SubmitBatch stores a voter's full accusation batch atomically. The
// duplicate-submission guard and the inserts run in one write transaction on
// the single-writer connection, so two concurrent batches for the same voter
// cannot both pass the guard; the loser gets ErrConflict and persists zero
// votes.
func (r *VoteRepository) SubmitBatch(
	ctx context.Context,
	gameID int64,
	voterID int64,
	targetIDs []int64,
	now time.Time,
) ([]models.Vote, error) {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "could not rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}()

	var existing int
	if err = tx.GetContext(ctx, &existing,
		`SELECT COUNT(*) FROM votes WHERE game_id = ? AND voter_id = ?`, gameID, voterID); err != nil {
		return nil, errors.Wrap(err, "count prior votes")
	}
	if existing > 0 {
		return nil, errors.Wrap(ErrConflict, "voter already has votes",
			slog.Int64("game_id", gameID), slog.Int64("voter_id", voterID))
	}

	votes := make([]models.Vote, 0, len(targetIDs))
	for _, targetID := range targetIDs {
		var res sql.Result
		if res, err = tx.ExecContext(ctx,
			`INSERT INTO votes (game_id, voter_id, target_id, created_at) VALUES (?, ?, ?, ?)`,
			gameID, voterID, targetID, now); err != nil {
			return nil, errors.Wrap(err, "insert vote", slog.Int64("target_id", targetID))
		}
		var id int64
		if id, err = res.LastInsertId(); err != nil {
			return nil, errors.Wrap(err, "read vote id")
		}
		votes = append(votes, models.Vote{
			ID:        id,
			GameID:    gameID,
			VoterID:   voterID,
			TargetID:  targetID,
			CreatedAt: now,
		})
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit vote batch")
	}
	return votes, nil
}

// ListByGame returns all votes of a game.
func (r *VoteRepository) ListByGame(ctx context.Context, gameID int64) ([]models.Vote, error) {
	var votes []models.Vote
	stmt := `SELECT id, game_id, voter_id, target_id, created_at FROM votes WHERE game_id = ? ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &votes, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list votes")
	}
	return votes, nil
}

// DistinctVoters returns the distinct voter seat ids that have votes recorded
// for a game. Completion of the voting phase is derived from this persisted
// set, never from in-memory bookkeeping.
func (r *VoteRepository) DistinctVoters(ctx context.Context, gameID int64) ([]int64, error) {
	var voters []int64
	stmt := `SELECT DISTINCT voter_id FROM votes WHERE game_id = ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &voters, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list distinct voters")
	}
	return voters, nil
}
