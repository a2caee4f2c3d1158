// Package ops holds the operational subcommands: the bot sweeper loop, the
// expired-game closer, and the topic seeder. Each command builds its own
// database connection so the CLI can run against a live server's database
// file.
package ops

import (
	"context"
	"log/slog"
	"os"

	"github.com/jkorri/spotthebot/internal/logging"
	"github.com/jkorri/spotthebot/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "ops",
	Title: "Operational tasks",
}

func newLogger() *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return slog.New(handler)
}

func openDatabase(ctx context.Context, cmd *cobra.Command, logger *slog.Logger) (*sqlite.Database, error) {
	url, err := cmd.Flags().GetString("sqlite-url")
	if err != nil {
		return nil, err
	}
	return sqlite.NewDatabase(ctx, url, logger)
}
