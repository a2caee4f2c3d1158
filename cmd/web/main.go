package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jkorri/spotthebot/internal/ai"
	"github.com/jkorri/spotthebot/internal/bots"
	"github.com/jkorri/spotthebot/internal/broker"
	"github.com/jkorri/spotthebot/internal/envstruct"
	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/logging"
	"github.com/jkorri/spotthebot/internal/matchmaking"
	"github.com/jkorri/spotthebot/internal/repositories"
	"github.com/jkorri/spotthebot/internal/sqlite"
	"github.com/joho/godotenv"
)

// gameEvent is the change hint streamed to SSE subscribers. It carries no
// payload beyond the kind; clients re-query for actual state.
type gameEvent struct {
	Kind string `json:"kind"`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	profiles       *repositories.ProfileRepository
	games          *game.Service
	allocator      *matchmaking.Allocator
	scheduler      *bots.Scheduler
	events         *broker.Broker[int64, gameEvent]
}

// GameChanged implements game.Notifier by publishing a hint to SSE
// subscribers of the game.
func (app *application) GameChanged(gameID int64, event string) {
	app.events.Publish(gameID, gameEvent{Kind: event})
}

func main() {
	addr := flag.String("addr", "localhost:4000", "HTTP network address")
	dbURL := flag.String("sqlite-url", "./spotthebot.sqlite", "SQLite URL")
	flag.Parse()

	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
	logger := slog.New(loggerHandler)

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded")
	}

	var cfg matchmaking.Config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		logger.Error("could not read configuration", errors.SlogError(err))
		os.Exit(1)
	}

	db, err := sqlite.NewDatabase(ctx, *dbURL, logger)
	if err != nil {
		logger.Error("could not connect to database", errors.SlogError(err))
		os.Exit(1)
	}
	go db.StartOptimizer(ctx)

	logger.Info("connected to db", slog.String("url", *dbURL))

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	games := repositories.NewGameRepository(db, logger)
	players := repositories.NewPlayerRepository(db, logger)
	messages := repositories.NewMessageRepository(db, logger)
	votes := repositories.NewVoteRepository(db, logger)
	topics := repositories.NewTopicRepository(db, logger)
	profiles := repositories.NewProfileRepository(db, logger)

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		profiles:       profiles,
		events:         broker.New[int64, gameEvent](),
	}
	app.games = game.NewService(games, players, messages, votes, &app, logger)
	app.allocator = matchmaking.NewAllocator(games, players, topics, app.games, cfg, logger)
	app.scheduler = bots.NewScheduler(games, players, messages, ai.NewClient(), &app, logger)

	if err = app.configureAndStartServer(ctx, *addr); err != nil {
		logger.Error("server exited", errors.SlogError(err))
		os.Exit(1)
	}
}
