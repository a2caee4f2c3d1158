package ops

import (
	"context"
	"fmt"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/game"
	"github.com/jkorri/spotthebot/internal/repositories"
	"github.com/spf13/cobra"
)

func init() {
	CloseExpired.Flags().String("sqlite-url", "./spotthebot.sqlite", "SQLite URL")
}

var CloseExpired = &cobra.Command{
	Use:     "close-expired",
	GroupID: "ops",
	Short:   "Close games whose chat deadline has passed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		ctx := context.Background()

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

		closed, err := lifecycle.CloseExpired(ctx)
		if err != nil {
			return errors.Wrap(err, "close expired games")
		}
		fmt.Printf("closed %d game(s)\n", closed)
		return nil
	},
}
