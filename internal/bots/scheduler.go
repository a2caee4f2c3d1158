package bots

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/repositories"
)

// Response timing. A bot never speaks more often than MinGap regardless of
// probability; past the gap the probability climbs with silence so bots are
// guaranteed to speak eventually but on an irregular rhythm that cannot be
// fingerprinted by timing alone.
const (
	// MinGap is the hard floor between two messages of the same bot.
	MinGap = 20 * time.Second

	probFirstMessage = 0.4
	probOverdue40s   = 0.9
	probGood30s      = 0.6
	probMaybe20s     = 0.3

	// historyWindow is the number of recent messages handed to the text
	// generator as conversation context.
	historyWindow = 20

	// previewLength truncates generated text in sweep reports.
	previewLength = 50
)

// TextGenerator produces a short chat message from a bot personality, the
// game topic, and recent conversation history. Implementations are treated as
// slow, non-deterministic, and able to fail.
type TextGenerator interface {
	Generate(
		ctx context.Context,
		personality models.BotPersonality,
		topic string,
		history []models.Message,
	) (string, error)
}

// ResponseProbability returns the chance a bot responds on this tick given
// the seconds since its own last message. A nil sinceLast means the bot has
// never spoken. Below MinGap the probability is zero.
func ResponseProbability(sinceLast *time.Duration) float64 {
	if sinceLast == nil {
		return probFirstMessage
	}
	switch {
	case *sinceLast >= 40*time.Second:
		return probOverdue40s
	case *sinceLast >= 30*time.Second:
		return probGood30s
	case *sinceLast >= MinGap:
		return probMaybe20s
	default:
		return 0
	}
}

// Action records one triggered bot response in a sweep report.
type Action struct {
	GameID           int64   `json:"game_id"`
	BotID            int64   `json:"bot_id"`
	BotName          string  `json:"bot_name"`
	SecondsSinceLast *int    `json:"seconds_since_last"`
	Probability      float64 `json:"probability"`
	MessagePreview   string  `json:"message_preview"`
}

// Report summarizes one scheduler sweep.
type Report struct {
	ProcessedGames     int           `json:"processed_games"`
	TriggeredResponses int           `json:"triggered_responses"`
	Actions            []Action      `json:"actions"`
	Errors             []string      `json:"errors"`
	Elapsed            time.Duration `json:"elapsed"`
}

// Scheduler decides, per bot per tick, whether to emit a chat message into
// its game. It is driven by an external periodic invocation and holds no
// state between ticks; everything is derived from the store.
type Scheduler struct {
	games    *repositories.GameRepository
	players  *repositories.PlayerRepository
	messages *repositories.MessageRepository
	gen      TextGenerator
	notifier game.Notifier
	logger   *slog.Logger
	now      func() time.Time
	roll     func() float64
}

func NewScheduler(
	games *repositories.GameRepository,
	players *repositories.PlayerRepository,
	messages *repositories.MessageRepository,
	gen TextGenerator,
	notifier game.Notifier,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		games:    games,
		players:  players,
		messages: messages,
		gen:      gen,
		notifier: notifier,
		logger:   logger.With("source", "BotScheduler"),
		now:      time.Now,
		roll:     rand.Float64,
	}
}

// WithClock overrides the wall clock. Intended for tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// WithRoll overrides the random draw. Intended for tests.
func (s *Scheduler) WithRoll(roll func() float64) *Scheduler {
	s.roll = roll
	return s
}

// Sweep evaluates every bot in every chatting game once. A failure for one
// bot is collected into the report and never aborts the rest of the sweep.
func (s *Scheduler) Sweep(ctx context.Context) (*Report, error) {
	start := s.now()
	report := Report{}

	chatting, err := s.games.ListByStatus(ctx, models.GameStatusChatting)
	if err != nil {
		return nil, errors.Wrap(err, "list chatting games")
	}
	report.ProcessedGames = len(chatting)

	for _, g := range chatting {
		bots, err := s.players.ListBots(ctx, g.ID)
		if err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("game %d: %v", g.ID, err))
			continue
		}
		for _, bot := range bots {
			action, err := s.evaluate(ctx, &g, &bot)
			if err != nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("bot %d in game %d: %v", bot.ID, g.ID, err))
				continue
			}
			if action != nil {
				report.Actions = append(report.Actions, *action)
				report.TriggeredResponses++
			}
		}
	}

	report.Elapsed = s.now().Sub(start)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "bot sweep finished",
		slog.Int("processed_games", report.ProcessedGames),
		slog.Int("triggered_responses", report.TriggeredResponses),
		slog.Int("errors", len(report.Errors)),
		slog.Duration("elapsed", report.Elapsed))
	return &report, nil
}

// evaluate runs the per-bot decision and, on a hit, generates and stores the
// message. Returns nil when the bot stays silent this tick.
func (s *Scheduler) evaluate(ctx context.Context, g *models.Game, bot *models.GamePlayer) (*Action, error) {
	lastAt, err := s.messages.LastMessageAt(ctx, g.ID, bot.ID)
	if err != nil {
		return nil, errors.Wrap(err, "read last message time")
	}

	var sinceLast *time.Duration
	if lastAt != nil {
		elapsed := s.now().UTC().Sub(*lastAt)
		sinceLast = &elapsed
		if elapsed < MinGap {
			return nil, nil
		}
	}

	probability := ResponseProbability(sinceLast)
	if s.roll() >= probability {
		return nil, nil
	}

	history, err := s.messages.Recent(ctx, g.ID, historyWindow)
	if err != nil {
		return nil, errors.Wrap(err, "gather conversation history")
	}

	text, err := s.gen.Generate(ctx, bot.BotPersonality, g.Topic, history)
	if err != nil {
		return nil, errors.Wrap(err, "generate bot message")
	}

	message := models.Message{
		GameID:    g.ID,
		PlayerID:  bot.ID,
		Content:   text,
		IsBot:     true,
		CreatedAt: s.now().UTC(),
	}
	if err = s.messages.Create(ctx, &message); err != nil {
		// Losing the chatting-status guard means the phase ended mid-tick.
		if errors.Is(err, repositories.ErrConflict) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "store bot message")
	}
	s.notifier.GameChanged(g.ID, game.EventMessage)

	preview := text
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	action := Action{
		GameID:         g.ID,
		BotID:          bot.ID,
		BotName:        bot.BotName,
		Probability:    probability,
		MessagePreview: preview,
	}
	if sinceLast != nil {
		seconds := int(sinceLast.Seconds())
		action.SecondsSinceLast = &seconds
	}
	return &action, nil
}
