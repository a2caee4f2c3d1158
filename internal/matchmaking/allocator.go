package matchmaking

import (
	"context"
	"log/slog"
	"time"

	"github.com/jkorri/spotthebot/internal/bots"
	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/repositories"
)

// JoinWindow bounds how old a waiting room may be to accept joiners. Rooms
// older than this are considered abandoned and are never joined.
const JoinWindow = 30 * time.Second

// Config holds the room parameters for newly created games.
type Config struct {
	MaxPlayers   int           `env:"SPOTTHEBOT_MAX_PLAYERS" envDefault:"7"`
	BotCount     int           `env:"SPOTTHEBOT_BOT_COUNT" envDefault:"2"`
	ChatDuration time.Duration `env:"SPOTTHEBOT_CHAT_DURATION" envDefault:"120s"`
}

// Allocator places a requesting human into a playable room: it joins the
// oldest fresh waiting room with a free seat, or creates a new room with bot
// seats and a random topic.
type Allocator struct {
	games     *repositories.GameRepository
	players   *repositories.PlayerRepository
	topics    *repositories.TopicRepository
	lifecycle *game.Service
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

func NewAllocator(
	games *repositories.GameRepository,
	players *repositories.PlayerRepository,
	topics *repositories.TopicRepository,
	lifecycle *game.Service,
	cfg Config,
	logger *slog.Logger,
) *Allocator {
	return &Allocator{
		games:     games,
		players:   players,
		topics:    topics,
		lifecycle: lifecycle,
		cfg:       cfg,
		logger:    logger.With("source", "MatchmakingAllocator"),
		now:       time.Now,
	}
}

// WithClock overrides the wall clock. Intended for tests.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Join places the profile into a room and returns the room snapshot. The room
// auto-starts once the human is seated.
func (a *Allocator) Join(ctx context.Context, profileID string) (*game.Snapshot, error) {
	existing, err := a.games.FindJoinableWaiting(ctx, a.now().UTC().Add(-JoinWindow))
	if err == nil {
		snapshot, joinErr := a.joinExisting(ctx, existing, profileID)
		if joinErr == nil {
			return snapshot, nil
		}
		// The room filled or started under us; fall through to a new room.
		if !errors.Is(joinErr, repositories.ErrConflict) {
			return nil, joinErr
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, errors.Wrap(err, "find waiting game")
	}

	return a.createRoom(ctx, profileID)
}

func (a *Allocator) joinExisting(ctx context.Context, g *models.Game, profileID string) (*game.Snapshot, error) {
	// A profile already seated in the room re-joins it instead of opening a
	// second room.
	if _, err := a.players.GetByProfile(ctx, g.ID, profileID); err == nil {
		return a.lifecycle.Snapshot(ctx, g.ID)
	}

	if _, err := a.players.AddHuman(ctx, g.ID, profileID); err != nil {
		return nil, err
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "joined waiting game",
		slog.Int64("game_id", g.ID), slog.String("profile_id", profileID))

	return a.start(ctx, g.ID)
}

func (a *Allocator) createRoom(ctx context.Context, profileID string) (*game.Snapshot, error) {
	topic, err := a.topics.Random(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "pick topic")
	}

	g := models.Game{
		Status:       models.GameStatusWaiting,
		Topic:        topic.Topic,
		TopicID:      topic.ID,
		MaxPlayers:   a.cfg.MaxPlayers,
		BotCount:     a.cfg.BotCount,
		ChatDuration: int(a.cfg.ChatDuration.Seconds()),
		CreatedAt:    a.now().UTC(),
	}
	if err = a.games.Create(ctx, &g); err != nil {
		return nil, errors.Wrap(err, "create game")
	}

	names, err := bots.GenerateNames(a.cfg.BotCount, nil)
	if err != nil {
		return nil, errors.Wrap(err, "generate bot names")
	}
	personalities := models.Personalities()
	for i := range a.cfg.BotCount {
		personality := personalities[i%len(personalities)]
		if _, err = a.players.AddBot(ctx, g.ID, personality, names[i]); err != nil {
			return nil, errors.Wrap(err, "seat bot", slog.Int64("game_id", g.ID))
		}
	}

	if _, err = a.players.AddHuman(ctx, g.ID, profileID); err != nil {
		return nil, errors.Wrap(err, "seat human", slog.Int64("game_id", g.ID))
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "created game",
		slog.Int64("game_id", g.ID),
		slog.String("topic", g.Topic),
		slog.Int("bot_count", g.BotCount))

	return a.start(ctx, g.ID)
}

// start triggers waiting -> chatting. Losing the start race to another
// joiner is fine; the room is chatting either way.
func (a *Allocator) start(ctx context.Context, gameID int64) (*game.Snapshot, error) {
	if _, err := a.lifecycle.Start(ctx, gameID); err != nil && !errors.Is(err, game.ErrWrongPhase) {
		return nil, errors.Wrap(err, "start game")
	}
	return a.lifecycle.Snapshot(ctx, gameID)
}
