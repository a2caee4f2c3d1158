package bots

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/repositories"
	"github.com/jkorri/spotthebot/internal/sqlite"
	"github.com/jkorri/spotthebot/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestResponseProbability(t *testing.T) {
	seconds := func(s int) *time.Duration {
		d := time.Duration(s) * time.Second
		return &d
	}
	tests := []struct {
		name      string
		sinceLast *time.Duration
		want      float64
	}{
		{name: "never spoken", sinceLast: nil, want: 0.4},
		{name: "just spoke", sinceLast: seconds(5), want: 0},
		{name: "under gap", sinceLast: seconds(19), want: 0},
		{name: "at gap", sinceLast: seconds(20), want: 0.3},
		{name: "29 seconds", sinceLast: seconds(29), want: 0.3},
		{name: "30 seconds", sinceLast: seconds(30), want: 0.6},
		{name: "39 seconds", sinceLast: seconds(39), want: 0.6},
		{name: "40 seconds", sinceLast: seconds(40), want: 0.9},
		{name: "long overdue", sinceLast: seconds(300), want: 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, ResponseProbability(tt.sinceLast), 1e-9)
		})
	}
}

// scriptedGenerator returns canned lines and records what it was asked.
type scriptedGenerator struct {
	calls     int
	histories [][]models.Message
	fail      bool
}

func (g *scriptedGenerator) Generate(
	_ context.Context,
	_ models.BotPersonality,
	_ string,
	history []models.Message,
) (string, error) {
	if g.fail {
		return "", fmt.Errorf("model unavailable")
	}
	g.calls++
	g.histories = append(g.histories, history)
	return fmt.Sprintf("scripted reply %d", g.calls), nil
}

type schedulerWorld struct {
	scheduler *Scheduler
	games     *repositories.GameRepository
	players   *repositories.PlayerRepository
	messages  *repositories.MessageRepository
	gen       *scriptedGenerator
	now       time.Time
}

func newSchedulerWorld(t *testing.T) *schedulerWorld {
	t.Helper()

	logger := testhelpers.NewLogger(io.Discard)
	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, dbs.Close())
	})

	w := schedulerWorld{
		games:    repositories.NewGameRepository(dbs, logger),
		players:  repositories.NewPlayerRepository(dbs, logger),
		messages: repositories.NewMessageRepository(dbs, logger),
		gen:      &scriptedGenerator{},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	w.scheduler = NewScheduler(w.games, w.players, w.messages, w.gen, game.NopNotifier{}, logger).
		WithClock(func() time.Time { return w.now }).
		WithRoll(func() float64 { return 0 })
	return &w
}

// seedChattingGame creates a chatting game with one bot seat.
func (w *schedulerWorld) seedChattingGame(t *testing.T) (*models.Game, *models.GamePlayer) {
	t.Helper()
	ctx := context.Background()

	g := models.Game{
		Status:       models.GameStatusWaiting,
		Topic:        "What is the most overrated piece of technology right now?",
		TopicID:      6,
		MaxPlayers:   7,
		BotCount:     1,
		ChatDuration: 120,
		CreatedAt:    w.now,
	}
	require.NoError(t, w.games.Create(ctx, &g))
	bot, err := w.players.AddBot(ctx, g.ID, models.PersonalityQuirky, "SyntaxError")
	require.NoError(t, err)
	require.NoError(t, w.games.StartChat(ctx, g.ID, w.now))
	g.Status = models.GameStatusChatting
	return &g, bot
}

func TestScheduler_FirstMessageAndMinGap(t *testing.T) {
	w := newSchedulerWorld(t)
	ctx := context.Background()
	g, bot := w.seedChattingGame(t)

	// A roll of zero always wins, so the bot speaks on its first tick.
	report, err := w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.ProcessedGames)
	require.Equal(t, 1, report.TriggeredResponses)
	require.Len(t, report.Actions, 1)
	require.Equal(t, bot.ID, report.Actions[0].BotID)
	require.InDelta(t, 0.4, report.Actions[0].Probability, 1e-9)

	// Within the hard gap the bot stays silent no matter the roll.
	w.now = w.now.Add(10 * time.Second)
	report, err = w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, report.TriggeredResponses)

	w.now = w.now.Add(9 * time.Second)
	report, err = w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, report.TriggeredResponses)

	// Past the gap it may speak again.
	w.now = w.now.Add(time.Second)
	report, err = w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.TriggeredResponses)

	messages, err := w.messages.ListByGame(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	for _, message := range messages {
		require.True(t, message.IsBot)
		require.Equal(t, "SyntaxError", message.Speaker)
	}
}

func TestScheduler_LosingRollStaysSilent(t *testing.T) {
	w := newSchedulerWorld(t)
	ctx := context.Background()
	w.seedChattingGame(t)

	w.scheduler.WithRoll(func() float64 { return 0.99 })
	report, err := w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.ProcessedGames)
	require.Zero(t, report.TriggeredResponses)
	require.Zero(t, w.gen.calls)
}

func TestScheduler_HistoryWindowPassedToGenerator(t *testing.T) {
	w := newSchedulerWorld(t)
	ctx := context.Background()
	g, bot := w.seedChattingGame(t)

	for i := range historyWindow + 5 {
		message := models.Message{
			GameID:    g.ID,
			PlayerID:  bot.ID,
			Content:   fmt.Sprintf("line %d", i),
			IsBot:     true,
			CreatedAt: w.now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, w.messages.Create(ctx, &message))
	}

	// Move well past the last message so the gap no longer suppresses.
	w.now = w.now.Add(time.Duration(historyWindow+5+60) * time.Second)
	report, err := w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.TriggeredResponses)

	require.Len(t, w.gen.histories, 1)
	history := w.gen.histories[0]
	require.Len(t, history, historyWindow)
	// The window holds the latest messages in chronological order.
	require.Equal(t, "line 5", history[0].Content)
	require.Equal(t, fmt.Sprintf("line %d", historyWindow+4), history[len(history)-1].Content)
}

func TestScheduler_GeneratorFailureIsCollected(t *testing.T) {
	w := newSchedulerWorld(t)
	ctx := context.Background()
	w.seedChattingGame(t)

	w.gen.fail = true
	report, err := w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, report.TriggeredResponses)
	require.Len(t, report.Errors, 1)
}

func TestScheduler_SkipsNonChattingGames(t *testing.T) {
	w := newSchedulerWorld(t)
	ctx := context.Background()
	g, _ := w.seedChattingGame(t)
	require.NoError(t, w.games.EndChat(ctx, g.ID, w.now))

	report, err := w.scheduler.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, report.ProcessedGames)
	require.Zero(t, w.gen.calls)
}
