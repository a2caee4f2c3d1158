package models

import "time"

// GameStatus is the authoritative phase of a game. Transitions only ever move
// forward: waiting -> chatting -> voting -> completed.
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"
	GameStatusChatting  GameStatus = "chatting"
	GameStatusVoting    GameStatus = "voting"
	GameStatusCompleted GameStatus = "completed"
)

// Game is one playthrough instance from matchmaking through results.
type Game struct {
	ID         int64      `db:"id"`
	Status     GameStatus `db:"status"`
	Topic      string     `db:"topic"`
	TopicID    int64      `db:"topic_id"`
	MaxPlayers int        `db:"max_players"`
	BotCount   int        `db:"bot_count"`
	// ChatDuration is the length of the chat phase in seconds.
	ChatDuration int        `db:"chat_duration"`
	CreatedAt    time.Time  `db:"created_at"`
	StartedAt    *time.Time `db:"started_at"`
	EndedAt      *time.Time `db:"ended_at"`
}

// ChatDeadline returns the instant the chat phase ends. The zero time is
// returned when the game has not started.
func (g *Game) ChatDeadline() time.Time {
	if g.StartedAt == nil {
		return time.Time{}
	}
	return g.StartedAt.Add(time.Duration(g.ChatDuration) * time.Second)
}

// RemainingChat derives the remaining chat time from persisted timestamps.
// It is a pure function of started_at, chat_duration and now, so any observer
// can recompute it without drift. Never negative.
func (g *Game) RemainingChat(now time.Time) time.Duration {
	if g.StartedAt == nil {
		return time.Duration(g.ChatDuration) * time.Second
	}
	remaining := g.ChatDeadline().Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ChatOver reports whether the chat deadline has passed.
func (g *Game) ChatOver(now time.Time) bool {
	return g.StartedAt != nil && !now.Before(g.ChatDeadline())
}

// GameWithPlayers is a room snapshot: the game and all of its seats.
type GameWithPlayers struct {
	Game    Game
	Players []GamePlayer
}
