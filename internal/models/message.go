package models

import "time"

// Message is one chat utterance. Messages are only creatable while the game
// is chatting and are immutable once stored. Display order is by the
// store-assigned creation timestamp.
type Message struct {
	ID       int64  `db:"id"`
	GameID   int64  `db:"game_id"`
	PlayerID int64  `db:"player_id"`
	Content  string `db:"content"`
	// IsBot is denormalized from the authoring seat.
	IsBot     bool      `db:"is_bot"`
	CreatedAt time.Time `db:"created_at"`
	// Speaker is the display name of the authoring seat, resolved at query
	// time from the bot name or the profile username.
	Speaker string `db:"speaker"`
}
