package game

import "github.com/jkorri/spotthebot/internal/errors"

// The error taxonomy for player-facing operations. Each violated
// precondition maps to its own sentinel so callers can present a specific
// message and distinguish a rejection from a successful no-op.
var (
	// ErrNotFound: the referenced game, seat, or topic does not exist.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrWrongPhase: the operation requires a different game status.
	ErrWrongPhase = errors.NewSentinel("game is in the wrong phase")
	// ErrChatNotOver: the chat deadline has not been reached yet, so the
	// chatting phase cannot be ended.
	ErrChatNotOver = errors.NewSentinel("chat time has not run out")
	// ErrForbidden: the actor may not perform this action, e.g. a non-member
	// acting on a game or a bot seat voting.
	ErrForbidden = errors.NewSentinel("forbidden")
	// ErrInvalidInput: malformed request content.
	ErrInvalidInput = errors.NewSentinel("invalid input")
	// ErrInvalidTargets: the vote target set has the wrong size or contains
	// seats outside the game.
	ErrInvalidTargets = errors.NewSentinel("invalid vote targets")
	// ErrSelfVote: a voter accused themselves.
	ErrSelfVote = errors.NewSentinel("cannot vote for yourself")
	// ErrAlreadyVoted: the voter has already submitted their batch.
	ErrAlreadyVoted = errors.NewSentinel("already voted")
)
