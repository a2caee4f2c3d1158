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

type GameRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewGameRepository(dbs *sqlite.Database, logger *slog.Logger) *GameRepository {
	return &GameRepository{
		dbs:    dbs,
		logger: logger.With("source", "GameRepository"),
	}
}

const gameColumns = `id, status, topic, topic_id, max_players, bot_count, chat_duration, created_at, started_at, ended_at`

// Create inserts a new game in waiting status and assigns its id.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	stmt := `INSERT INTO games (status, topic, topic_id, max_players, bot_count, chat_duration, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		game.Status, game.Topic, game.TopicID, game.MaxPlayers, game.BotCount, game.ChatDuration, game.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert game")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read game id")
	}
	game.ID = id
	return nil
}

func (r *GameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	stmt := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &game, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "game not found", slog.Int64("game_id", id))
		}
		return nil, errors.Wrap(err, "read game")
	}
	return &game, nil
}

// ListByStatus returns all games in the given status, oldest first.
func (r *GameRepository) ListByStatus(ctx context.Context, status models.GameStatus) ([]models.Game, error) {
	var games []models.Game
	stmt := `SELECT ` + gameColumns + ` FROM games WHERE status = ? ORDER BY created_at, id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &games, stmt, status); err != nil {
		return nil, errors.Wrap(err, "list games by status")
	}
	return games, nil
}

// FindJoinableWaiting returns the oldest waiting game created at or after
// createdAfter that still has a free seat. Stale abandoned rooms fall outside
// the window and are never joined.
func (r *GameRepository) FindJoinableWaiting(ctx context.Context, createdAfter time.Time) (*models.Game, error) {
	var game models.Game
	stmt := `SELECT ` + gameColumns + ` FROM games
	WHERE status = 'waiting'
	  AND created_at >= ?
	  AND (SELECT COUNT(*) FROM game_players WHERE game_players.game_id = games.id) < max_players
	ORDER BY created_at, id
	LIMIT 1`
	if err := r.dbs.ReadOnly.GetContext(ctx, &game, stmt, createdAfter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "no joinable game")
		}
		return nil, errors.Wrap(err, "find joinable game")
	}
	return &game, nil
}

// StartChat transitions waiting -> chatting and sets started_at. The status
// check and the write are a single conditional update, so two concurrent
// starts cannot both succeed; the loser gets ErrConflict.
func (r *GameRepository) StartChat(ctx context.Context, id int64, now time.Time) error {
	stmt := `UPDATE games SET status = 'chatting', started_at = ? WHERE id = ? AND status = 'waiting'`
	return r.transition(ctx, stmt, now, id)
}

// EndChat transitions chatting -> voting and sets ended_at.
func (r *GameRepository) EndChat(ctx context.Context, id int64, now time.Time) error {
	stmt := `UPDATE games SET status = 'voting', ended_at = ? WHERE id = ? AND status = 'chatting'`
	return r.transition(ctx, stmt, now, id)
}

func (r *GameRepository) transition(ctx context.Context, stmt string, now time.Time, id int64) error {
	res, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, now, id)
	if err != nil {
		return errors.Wrap(err, "transition game status")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Wrap(ErrConflict, "game not in required status", slog.Int64("game_id", id))
	}
	return nil
}

// PlayerScoreUpdate carries a seat's final score to persistence.
type PlayerScoreUpdate struct {
	PlayerID int64
	Score    int
}

// ProfileStatsUpdate carries a human player's profile stat increments.
type ProfileStatsUpdate struct {
	ProfileID string
	XPGained  int
	Won       bool
}

// Complete transitions voting -> completed and persists scores and profile
// stats in the same transaction. The compare-and-set on the status makes the
// whole completion exactly-once: a concurrent or repeated attempt loses the
// CAS, nothing in the transaction is applied, and ErrConflict is returned.
func (r *GameRepository) Complete(
	ctx context.Context,
	id int64,
	scores []PlayerScoreUpdate,
	profiles []ProfileStatsUpdate,
) error {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "could not rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE games SET status = 'completed' WHERE id = ? AND status = 'voting'`, id)
	if err != nil {
		return errors.Wrap(err, "complete game")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Wrap(ErrConflict, "game not in voting status", slog.Int64("game_id", id))
	}

	for _, score := range scores {
		if _, err = tx.ExecContext(ctx,
			`UPDATE game_players SET score = ? WHERE id = ? AND game_id = ?`,
			score.Score, score.PlayerID, id); err != nil {
			return errors.Wrap(err, "update player score", slog.Int64("player_id", score.PlayerID))
		}
	}

	for _, profile := range profiles {
		won := 0
		if profile.Won {
			won = 1
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE profiles
			SET xp = xp + ?, games_played = games_played + 1, games_won = games_won + ?
			WHERE id = ?`,
			profile.XPGained, won, profile.ProfileID); err != nil {
			return errors.Wrap(err, "update profile stats", slog.String("profile_id", profile.ProfileID))
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit completion")
	}
	return nil
}
