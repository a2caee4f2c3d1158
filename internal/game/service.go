package game

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/repositories"
)

// Service drives the game lifecycle: phase transitions, chat messages, vote
// tallying, and results. It owns no in-process state; every decision is
// derived from persisted rows so that any number of concurrent instances can
// run against the same store.
type Service struct {
	games    *repositories.GameRepository
	players  *repositories.PlayerRepository
	messages *repositories.MessageRepository
	votes    *repositories.VoteRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(
	games *repositories.GameRepository,
	players *repositories.PlayerRepository,
	messages *repositories.MessageRepository,
	votes *repositories.VoteRepository,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		games:    games,
		players:  players,
		messages: messages,
		votes:    votes,
		notifier: notifier,
		logger:   logger.With("source", "GameService"),
		now:      time.Now,
	}
}

// WithClock overrides the wall clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Snapshot is a room view for callers: the game, its seats, and the remaining
// chat time derived from persisted timestamps.
type Snapshot struct {
	Game          models.Game
	Players       []models.GamePlayer
	RemainingChat time.Duration
}

func (s *Service) Snapshot(ctx context.Context, gameID int64) (*Snapshot, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "list players")
	}
	return &Snapshot{
		Game:          *g,
		Players:       players,
		RemainingChat: g.RemainingChat(s.now().UTC()),
	}, nil
}

// Start transitions waiting -> chatting and stamps started_at. The underlying
// update is conditional on the game still waiting, so of two concurrent
// starts exactly one succeeds; the other gets ErrWrongPhase.
func (s *Service) Start(ctx context.Context, gameID int64) (*models.Game, error) {
	if err := s.games.StartChat(ctx, gameID, s.now().UTC()); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, s.wrongPhase(ctx, gameID, models.GameStatusWaiting)
		}
		return nil, errors.Wrap(err, "start chat phase")
	}
	s.notifier.GameChanged(gameID, EventStatus)
	return s.getGame(ctx, gameID)
}

// EndChat transitions chatting -> voting and stamps ended_at. The transition
// is deadline-guarded: it is rejected with ErrChatNotOver until the chat
// window derived from started_at and chat_duration has elapsed, so no caller
// can cut the conversation short.
func (s *Service) EndChat(ctx context.Context, gameID int64) (*models.Game, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != models.GameStatusChatting {
		return nil, errors.Wrap(ErrWrongPhase, "game is not chatting",
			slog.String("status", string(g.Status)))
	}
	if !g.ChatOver(s.now().UTC()) {
		return nil, errors.Wrap(ErrChatNotOver, "chat deadline not reached",
			slog.Duration("remaining", g.RemainingChat(s.now().UTC())))
	}
	if err = s.games.EndChat(ctx, gameID, s.now().UTC()); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, s.wrongPhase(ctx, gameID, models.GameStatusChatting)
		}
		return nil, errors.Wrap(err, "end chat phase")
	}
	s.notifier.GameChanged(gameID, EventStatus)
	return s.getGame(ctx, gameID)
}

// CloseExpired ends the chat phase of every chatting game whose deadline has
// passed. This is the trusted sweep path; losing a transition race to another
// observer is not an error.
func (s *Service) CloseExpired(ctx context.Context) (int, error) {
	chatting, err := s.games.ListByStatus(ctx, models.GameStatusChatting)
	if err != nil {
		return 0, errors.Wrap(err, "list chatting games")
	}
	closed := 0
	now := s.now().UTC()
	for _, g := range chatting {
		if !g.ChatOver(now) {
			continue
		}
		if err = s.games.EndChat(ctx, g.ID, now); err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				continue
			}
			return closed, errors.Wrap(err, "end chat phase", slog.Int64("game_id", g.ID))
		}
		s.notifier.GameChanged(g.ID, EventStatus)
		closed++
	}
	return closed, nil
}

// PostMessage appends a human chat message. Rejected with ErrForbidden when
// the profile has no seat in the game and with ErrWrongPhase outside the
// chatting phase.
func (s *Service) PostMessage(
	ctx context.Context,
	gameID int64,
	profileID string,
	content string,
) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "empty message")
	}
	if _, err := s.getGame(ctx, gameID); err != nil {
		return nil, err
	}
	seat, err := s.players.GetByProfile(ctx, gameID, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrap(ErrForbidden, "not a player in this game",
				slog.Int64("game_id", gameID))
		}
		return nil, errors.Wrap(err, "read seat")
	}
	message := models.Message{
		GameID:    gameID,
		PlayerID:  seat.ID,
		Content:   content,
		IsBot:     false,
		CreatedAt: s.now().UTC(),
	}
	if err = s.messages.Create(ctx, &message); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, s.wrongPhase(ctx, gameID, models.GameStatusChatting)
		}
		return nil, errors.Wrap(err, "store message")
	}
	s.notifier.GameChanged(gameID, EventMessage)
	return &message, nil
}

// Messages returns the full chat transcript in display order. This is the
// pull-based fallback for realtime subscribers.
func (s *Service) Messages(ctx context.Context, gameID int64) ([]models.Message, error) {
	if _, err := s.getGame(ctx, gameID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByGame(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return messages, nil
}

// VoteReceipt reports a stored vote batch and whether it completed the game.
type VoteReceipt struct {
	Votes     []models.Vote
	Completed bool
}

// SubmitVotes validates and stores one human's full accusation batch, then
// checks whether every human seat has now voted and completes the game if so.
// All preconditions are checked before any write; an invalid batch persists
// zero votes.
func (s *Service) SubmitVotes(
	ctx context.Context,
	gameID int64,
	profileID string,
	targetIDs []int64,
) (*VoteReceipt, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != models.GameStatusVoting {
		return nil, errors.Wrap(ErrWrongPhase, "game is not in voting phase",
			slog.String("status", string(g.Status)))
	}

	players, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "list players")
	}
	voter := findSeatByProfile(players, profileID)
	if voter == nil {
		return nil, errors.Wrap(ErrForbidden, "not a player in this game",
			slog.Int64("game_id", gameID))
	}
	if voter.IsBot {
		return nil, errors.Wrap(ErrForbidden, "bots cannot vote",
			slog.Int64("voter_id", voter.ID))
	}

	if len(targetIDs) != g.BotCount {
		return nil, errors.Wrap(ErrInvalidTargets, "target set size must equal bot count",
			slog.Int("got", len(targetIDs)), slog.Int("want", g.BotCount))
	}
	seatIDs := make(map[int64]struct{}, len(players))
	for _, player := range players {
		seatIDs[player.ID] = struct{}{}
	}
	seen := make(map[int64]struct{}, len(targetIDs))
	for _, targetID := range targetIDs {
		if _, ok := seatIDs[targetID]; !ok {
			return nil, errors.Wrap(ErrInvalidTargets, "target is not a player in this game",
				slog.Int64("target_id", targetID))
		}
		if _, dup := seen[targetID]; dup {
			return nil, errors.Wrap(ErrInvalidTargets, "duplicate target",
				slog.Int64("target_id", targetID))
		}
		seen[targetID] = struct{}{}
		if targetID == voter.ID {
			return nil, errors.Wrap(ErrSelfVote, "voter is among the targets")
		}
	}

	votes, err := s.votes.SubmitBatch(ctx, gameID, voter.ID, targetIDs, s.now().UTC())
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, errors.Wrap(ErrAlreadyVoted, "vote batch already submitted",
				slog.Int64("voter_id", voter.ID))
		}
		return nil, errors.Wrap(err, "store vote batch")
	}

	completed, err := s.CompleteIfAllVoted(ctx, gameID)
	if err != nil {
		// The batch is committed; completion stays recoverable from
		// persisted rows via the next submission or a results fetch.
		return nil, errors.Wrap(err, "complete game after vote batch")
	}
	return &VoteReceipt{Votes: votes, Completed: completed}, nil
}

// CompleteIfAllVoted transitions voting -> completed and persists scoring
// once the distinct voters cover every human seat. The status compare-and-set
// inside the completion transaction makes the scoring exactly-once: when two
// observers race here, the loser sees the CAS fail and treats the game as
// already completed. Calling this on a completed game is a no-op.
func (s *Service) CompleteIfAllVoted(ctx context.Context, gameID int64) (bool, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	if g.Status != models.GameStatusVoting {
		return false, nil
	}

	players, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return false, errors.Wrap(err, "list players")
	}
	voters, err := s.votes.DistinctVoters(ctx, gameID)
	if err != nil {
		return false, errors.Wrap(err, "list voters")
	}
	voted := make(map[int64]struct{}, len(voters))
	for _, voterID := range voters {
		voted[voterID] = struct{}{}
	}
	for _, player := range players {
		if player.IsBot {
			continue
		}
		if _, ok := voted[player.ID]; !ok {
			return false, nil
		}
	}

	votes, err := s.votes.ListByGame(ctx, gameID)
	if err != nil {
		return false, errors.Wrap(err, "list votes")
	}
	scores := Score(players, votes)

	scoreUpdates := make([]repositories.PlayerScoreUpdate, 0, len(scores))
	profileUpdates := make([]repositories.ProfileStatsUpdate, 0, len(scores))
	for _, score := range scores {
		scoreUpdates = append(scoreUpdates, repositories.PlayerScoreUpdate{
			PlayerID: score.PlayerID,
			Score:    score.Score,
		})
		if score.ProfileID == "" {
			continue
		}
		profileUpdates = append(profileUpdates, repositories.ProfileStatsUpdate{
			ProfileID: score.ProfileID,
			XPGained:  XPGained(score.Score),
			Won:       score.GuessedCorrectly(),
		})
	}

	if err = s.games.Complete(ctx, gameID, scoreUpdates, profileUpdates); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Another observer completed the game first.
			return false, nil
		}
		return false, errors.Wrap(err, "persist completion")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "game completed",
		slog.Int64("game_id", gameID),
		slog.Int("human_players", len(scores)),
		slog.Int("correct_players", TotalCorrectPlayers(scores)))
	s.notifier.GameChanged(gameID, EventStatus)
	return true, nil
}

// Results is the per-player outcome summary of a completed game.
type Results struct {
	// BotNames reveals the bot seats' display names.
	BotNames []string
	// Outcome of the requesting player.
	CorrectVotes     int
	TotalVotes       int
	Score            int
	XPGained         int
	GuessedCorrectly bool
	// TotalCorrectPlayers counts the humans in the game who identified at
	// least one bot.
	TotalCorrectPlayers int
}

// Results computes the outcome summary for the requesting profile. Rejected
// with ErrNotFound when the profile has no seat in the game. When the game is
// still in voting but every human has voted (e.g. a crash interrupted the
// completion trigger), the completion is re-derived from persisted rows
// before answering.
func (s *Service) Results(ctx context.Context, gameID int64, profileID string) (*Results, error) {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status == models.GameStatusVoting {
		if _, err = s.CompleteIfAllVoted(ctx, gameID); err != nil {
			return nil, errors.Wrap(err, "recover completion")
		}
		if g, err = s.getGame(ctx, gameID); err != nil {
			return nil, err
		}
	}
	if g.Status != models.GameStatusCompleted {
		return nil, errors.Wrap(ErrWrongPhase, "results are not available yet",
			slog.String("status", string(g.Status)))
	}

	players, err := s.players.ListByGame(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "list players")
	}
	seat := findSeatByProfile(players, profileID)
	if seat == nil {
		return nil, errors.Wrap(ErrNotFound, "player not found in game",
			slog.Int64("game_id", gameID))
	}

	votes, err := s.votes.ListByGame(ctx, gameID)
	if err != nil {
		return nil, errors.Wrap(err, "list votes")
	}
	scores := Score(players, votes)

	results := Results{
		TotalCorrectPlayers: TotalCorrectPlayers(scores),
	}
	for _, player := range players {
		if player.IsBot {
			results.BotNames = append(results.BotNames, player.BotName)
		}
	}
	for _, score := range scores {
		if score.PlayerID != seat.ID {
			continue
		}
		results.CorrectVotes = score.CorrectVotes
		results.TotalVotes = score.TotalVotes
		results.Score = score.Score
		results.XPGained = XPGained(score.Score)
		results.GuessedCorrectly = score.GuessedCorrectly()
	}
	return &results, nil
}

func (s *Service) getGame(ctx context.Context, gameID int64) (*models.Game, error) {
	g, err := s.games.Get(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrap(ErrNotFound, "game not found", slog.Int64("game_id", gameID))
		}
		return nil, errors.Wrap(err, "read game")
	}
	return g, nil
}

// wrongPhase builds an ErrWrongPhase that reports the game's current status.
func (s *Service) wrongPhase(ctx context.Context, gameID int64, required models.GameStatus) error {
	status := "unknown"
	if g, err := s.games.Get(ctx, gameID); err == nil {
		status = string(g.Status)
	}
	return errors.Wrap(ErrWrongPhase, "game is not in required status",
		slog.String("required", string(required)), slog.String("status", status))
}

func findSeatByProfile(players []models.GamePlayer, profileID string) *models.GamePlayer {
	for i := range players {
		if players[i].ProfileID != nil && *players[i].ProfileID == profileID {
			return &players[i]
		}
	}
	return nil
}
