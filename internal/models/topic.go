package models

// Topic is a conversation prompt drawn at game-creation time. Immutable
// reference data.
type Topic struct {
	ID       int64  `db:"id"`
	Topic    string `db:"topic"`
	Category string `db:"category"`
}
