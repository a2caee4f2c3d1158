package models

import "time"

// Vote is one accusation: a human seat naming one suspect seat. A voter casts
// exactly bot_count votes as one atomic batch and may submit at most once per
// game.
type Vote struct {
	ID        int64     `db:"id"`
	GameID    int64     `db:"game_id"`
	VoterID   int64     `db:"voter_id"`
	TargetID  int64     `db:"target_id"`
	CreatedAt time.Time `db:"created_at"`
}
