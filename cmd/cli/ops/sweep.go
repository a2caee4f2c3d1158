package ops

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jkorri/spotthebot/internal/ai"
	"github.com/jkorri/spotthebot/internal/bots"
	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/repositories"
	"github.com/spf13/cobra"
)

func init() {
	Sweep.Flags().String("sqlite-url", "./spotthebot.sqlite", "SQLite URL")
	Sweep.Flags().Duration("interval", 10*time.Second, "time between sweep ticks")
	Sweep.Flags().Bool("once", false, "run a single tick and exit")
}

var Sweep = &cobra.Command{
	Use:     "sweep",
	GroupID: "ops",
	Short:   "Run the bot response sweeper",
	Long: `Periodically evaluates every bot in every chatting game and lets them
respond, then closes games whose chat deadline has passed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := openDatabase(ctx, cmd, logger)
		if err != nil {
			return errors.Wrap(err, "open database")
		}
		defer func() { _ = db.Close() }()

		games := repositories.NewGameRepository(db, logger)
		players := repositories.NewPlayerRepository(db, logger)
		messages := repositories.NewMessageRepository(db, logger)
		votes := repositories.NewVoteRepository(db, logger)

		lifecycle := game.NewService(games, players, messages, votes, game.NopNotifier{}, logger)
		scheduler := bots.NewScheduler(games, players, messages, ai.NewClient(), game.NopNotifier{}, logger)

		interval, err := cmd.Flags().GetDuration("interval")
		if err != nil {
			return errors.Wrap(err, "read interval flag")
		}
		once, err := cmd.Flags().GetBool("once")
		if err != nil {
			return errors.Wrap(err, "read once flag")
		}

		tick := func() {
			report, err := scheduler.Sweep(ctx)
			if err != nil {
				logger.Error("sweep failed", errors.SlogError(err))
				return
			}
			closed, err := lifecycle.CloseExpired(ctx)
			if err != nil {
				logger.Error("could not close expired games", errors.SlogError(err))
				return
			}
			if report.TriggeredResponses > 0 || closed > 0 {
				logger.Info("sweep tick",
					"games", report.ProcessedGames,
					"responses", report.TriggeredResponses,
					"closed", closed,
					"elapsed", report.Elapsed)
			}
		}

		tick()
		if once {
			return nil
		}

		fmt.Printf("sweeping every %s, ctrl-c to stop\n", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				tick()
			}
		}
	},
}
