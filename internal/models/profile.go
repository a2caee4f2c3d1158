package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile is a persistent player identity with lifetime stats. Stats are
// mutated only by results computation: xp by the gained amount, games_played
// by one, games_won by one when the player identified at least one bot.
type Profile struct {
	ID          string    `db:"id"`
	Username    string    `db:"username"`
	XP          int       `db:"xp"`
	GamesPlayed int       `db:"games_played"`
	GamesWon    int       `db:"games_won"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewProfile creates an anonymous profile with a generated username. External
// identity providers can overwrite the username later; the core only needs a
// stable id to hang stats on.
func NewProfile() *Profile {
	id := uuid.NewString()
	return &Profile{
		ID:       id,
		Username: fmt.Sprintf("Player-%.8s", id),
	}
}
