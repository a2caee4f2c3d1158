package ops

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/repositories"
	"github.com/spf13/cobra"
)

func init() {
	SeedTopics.Flags().String("sqlite-url", "./spotthebot.sqlite", "SQLite URL")
	SeedTopics.Flags().String("file", "", "file with one category<TAB>topic line per topic")
}

var SeedTopics = &cobra.Command{
	Use:     "seed-topics [category] [topic]",
	GroupID: "ops",
	Short:   "Add conversation topics",
	Long: `Adds conversation topics to the pool games draw from. Pass a single
category and topic as arguments, or --file to load many at once.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx := context.Background()

		db, err := openDatabase(ctx, cmd, logger)
		if err != nil {
			return errors.Wrap(err, "open database")
		}
		defer func() { _ = db.Close() }()

		topics := repositories.NewTopicRepository(db, logger)

		path, err := cmd.Flags().GetString("file")
		if err != nil {
			return errors.Wrap(err, "read file flag")
		}

		switch {
		case path != "":
			count, err := seedFromFile(ctx, topics, path)
			if err != nil {
				return err
			}
			fmt.Printf("added %d topic(s)\n", count)
		case len(args) == 2:
			topic := models.Topic{Category: args[0], Topic: args[1]}
			if err = topics.Create(ctx, &topic); err != nil {
				return errors.Wrap(err, "create topic")
			}
			fmt.Printf("added topic %d\n", topic.ID)
		default:
			return errors.New("pass a category and a topic, or --file")
		}
		return nil
	},
}

func seedFromFile(ctx context.Context, topics *repositories.TopicRepository, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open topic file")
	}
	defer func() { _ = file.Close() }()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		category, text, found := strings.Cut(line, "\t")
		if !found {
			return count, errors.New("malformed topic line", slog.String("line", line))
		}
		topic := models.Topic{Category: category, Topic: text}
		if err = topics.Create(ctx, &topic); err != nil {
			return count, errors.Wrap(err, "create topic")
		}
		count++
	}
	if err = scanner.Err(); err != nil {
		return count, errors.Wrap(err, "read topic file")
	}
	return count, nil
}
