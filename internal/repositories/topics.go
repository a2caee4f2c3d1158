package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/sqlite"
)

type TopicRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewTopicRepository(dbs *sqlite.Database, logger *slog.Logger) *TopicRepository {
	return &TopicRepository{
		dbs:    dbs,
		logger: logger.With("source", "TopicRepository"),
	}
}

// Random draws a topic uniformly at random.
func (r *TopicRepository) Random(ctx context.Context) (*models.Topic, error) {
	var topic models.Topic
	stmt := `SELECT id, topic, category FROM topics ORDER BY RANDOM() LIMIT 1`
	if err := r.dbs.ReadOnly.GetContext(ctx, &topic, stmt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "no topics available")
		}
		return nil, errors.Wrap(err, "read random topic")
	}
	return &topic, nil
}

// RandomByCategory draws a topic uniformly at random within a category.
func (r *TopicRepository) RandomByCategory(ctx context.Context, category string) (*models.Topic, error) {
	var topic models.Topic
	stmt := `SELECT id, topic, category FROM topics WHERE category = ? ORDER BY RANDOM() LIMIT 1`
	if err := r.dbs.ReadOnly.GetContext(ctx, &topic, stmt, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "no topics in category", slog.String("category", category))
		}
		return nil, errors.Wrap(err, "read random topic by category")
	}
	return &topic, nil
}

// Create inserts a topic and assigns its id.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	res, err := r.dbs.ReadWrite.ExecContext(ctx,
		`INSERT INTO topics (topic, category) VALUES (?, ?)`, topic.Topic, topic.Category)
	if err != nil {
		return errors.Wrap(err, "insert topic")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read topic id")
	}
	topic.ID = id
	return nil
}
