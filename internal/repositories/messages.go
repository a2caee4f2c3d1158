package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"slices"
	"time"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/sqlite"
)

type MessageRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewMessageRepository(dbs *sqlite.Database, logger *slog.Logger) *MessageRepository {
	return &MessageRepository{
		dbs:    dbs,
		logger: logger.With("source", "MessageRepository"),
	}
}

// messageSelect resolves the speaker display name at query time: the bot name
// for bot seats, the profile username for humans.
const messageSelect = `SELECT m.id, m.game_id, m.player_id, m.content, m.is_bot, m.created_at,
	COALESCE(NULLIF(gp.bot_name, ''), p.username, '') AS speaker
FROM messages m
JOIN game_players gp ON gp.id = m.player_id
LEFT JOIN profiles p ON p.id = gp.profile_id`

// Create appends a message. The insert is guarded on the game being in
// chatting status within the same statement, so a message can never land
// after the phase has ended; the loser gets ErrConflict.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	stmt := `INSERT INTO messages (game_id, player_id, content, is_bot, created_at)
	SELECT @game_id, @player_id, @content, @is_bot, @created_at
	WHERE (SELECT status FROM games WHERE id = @game_id) = 'chatting'`
	params := []any{
		sql.Named("game_id", message.GameID),
		sql.Named("player_id", message.PlayerID),
		sql.Named("content", message.Content),
		sql.Named("is_bot", message.IsBot),
		sql.Named("created_at", message.CreatedAt),
	}
	res, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...)
	if err != nil {
		return errors.Wrap(err, "insert message")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return errors.Wrap(ErrConflict, "game not in chatting status", slog.Int64("game_id", message.GameID))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read message id")
	}
	message.ID = id
	return nil
}

// ListByGame returns all messages of a game in display order.
func (r *MessageRepository) ListByGame(ctx context.Context, gameID int64) ([]models.Message, error) {
	var messages []models.Message
	stmt := messageSelect + ` WHERE m.game_id = ? ORDER BY m.created_at, m.id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &messages, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return messages, nil
}

// Recent returns the latest limit messages of a game in chronological order.
// This is the conversation-history window handed to the text generator.
func (r *MessageRepository) Recent(ctx context.Context, gameID int64, limit int) ([]models.Message, error) {
	var messages []models.Message
	stmt := messageSelect + ` WHERE m.game_id = ? ORDER BY m.created_at DESC, m.id DESC LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &messages, stmt, gameID, limit); err != nil {
		return nil, errors.Wrap(err, "list recent messages")
	}
	slices.Reverse(messages)
	return messages, nil
}

// LastMessageAt returns the creation time of a seat's latest message in a
// game, or nil if the seat has never spoken.
func (r *MessageRepository) LastMessageAt(ctx context.Context, gameID, playerID int64) (*time.Time, error) {
	var createdAt time.Time
	stmt := `SELECT created_at FROM messages
	WHERE game_id = ? AND player_id = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1`
	if err := r.dbs.ReadOnly.GetContext(ctx, &createdAt, stmt, gameID, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read last message time")
	}
	return &createdAt, nil
}
