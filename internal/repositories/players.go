package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/sqlite"
)

type PlayerRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewPlayerRepository(dbs *sqlite.Database, logger *slog.Logger) *PlayerRepository {
	return &PlayerRepository{
		dbs:    dbs,
		logger: logger.With("source", "PlayerRepository"),
	}
}

const playerColumns = `id, game_id, profile_id, is_bot, bot_personality, bot_name, score`

// AddHuman seats a human into a game. The insert is guarded on the game still
// waiting and having a free seat, so a capacity race resolves to ErrConflict
// instead of an overfull room. Seating the same profile twice also conflicts
// via the (game_id, profile_id) unique constraint.
func (r *PlayerRepository) AddHuman(ctx context.Context, gameID int64, profileID string) (*models.GamePlayer, error) {
	stmt := `INSERT INTO game_players (game_id, profile_id, is_bot)
	SELECT @game_id, @profile_id, FALSE
	WHERE (SELECT status FROM games WHERE id = @game_id) = 'waiting'
	  AND (SELECT COUNT(*) FROM game_players WHERE game_id = @game_id) <
	      (SELECT max_players FROM games WHERE id = @game_id)`
	params := []any{
		sql.Named("game_id", gameID),
		sql.Named("profile_id", profileID),
	}
	res, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, errors.Wrap(ErrConflict, "profile already seated",
				slog.Int64("game_id", gameID), slog.String("profile_id", profileID))
		}
		return nil, errors.Wrap(err, "insert human seat")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return nil, errors.Wrap(ErrConflict, "game not joinable", slog.Int64("game_id", gameID))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "read seat id")
	}
	return r.Get(ctx, id)
}

// AddBot seats a bot with its personality and display name. Bots are only
// allocated at game creation while the game is waiting.
func (r *PlayerRepository) AddBot(
	ctx context.Context,
	gameID int64,
	personality models.BotPersonality,
	name string,
) (*models.GamePlayer, error) {
	stmt := `INSERT INTO game_players (game_id, is_bot, bot_personality, bot_name)
	SELECT @game_id, TRUE, @personality, @name
	WHERE (SELECT status FROM games WHERE id = @game_id) = 'waiting'`
	params := []any{
		sql.Named("game_id", gameID),
		sql.Named("personality", personality),
		sql.Named("name", name),
	}
	res, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...)
	if err != nil {
		return nil, errors.Wrap(err, "insert bot seat")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return nil, errors.Wrap(ErrConflict, "game not in waiting status", slog.Int64("game_id", gameID))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "read seat id")
	}
	return r.Get(ctx, id)
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (*models.GamePlayer, error) {
	var player models.GamePlayer
	stmt := `SELECT ` + playerColumns + ` FROM game_players WHERE id = ?`
	// Read through the write connection: callers look up seats they just
	// inserted, and the read pool may lag behind the WAL.
	if err := r.dbs.ReadWrite.GetContext(ctx, &player, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "seat not found", slog.Int64("player_id", id))
		}
		return nil, errors.Wrap(err, "read seat")
	}
	return &player, nil
}

// GetByProfile returns the human seat of a profile in a game.
func (r *PlayerRepository) GetByProfile(ctx context.Context, gameID int64, profileID string) (*models.GamePlayer, error) {
	var player models.GamePlayer
	stmt := `SELECT ` + playerColumns + ` FROM game_players WHERE game_id = ? AND profile_id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &player, stmt, gameID, profileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "profile has no seat in game",
				slog.Int64("game_id", gameID), slog.String("profile_id", profileID))
		}
		return nil, errors.Wrap(err, "read seat by profile")
	}
	return &player, nil
}

// ListByGame returns all seats in a game in seating order. Display names are
// resolved in the query so bot seats read like any other player.
func (r *PlayerRepository) ListByGame(ctx context.Context, gameID int64) ([]models.GamePlayer, error) {
	var players []models.GamePlayer
	stmt := `SELECT gp.id, gp.game_id, gp.profile_id, gp.is_bot, gp.bot_personality, gp.bot_name, gp.score,
		COALESCE(NULLIF(gp.bot_name, ''), p.username, '') AS display_name
	FROM game_players gp
	LEFT JOIN profiles p ON p.id = gp.profile_id
	WHERE gp.game_id = ? ORDER BY gp.id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &players, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list seats")
	}
	return players, nil
}

// ListBots returns the bot seats in a game in seating order.
func (r *PlayerRepository) ListBots(ctx context.Context, gameID int64) ([]models.GamePlayer, error) {
	var players []models.GamePlayer
	stmt := `SELECT ` + playerColumns + ` FROM game_players WHERE game_id = ? AND is_bot ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &players, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list bot seats")
	}
	return players, nil
}
