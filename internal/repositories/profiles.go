package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/models"
	"github.com/jkorri/spotthebot/internal/sqlite"
)

type ProfileRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewProfileRepository(dbs *sqlite.Database, logger *slog.Logger) *ProfileRepository {
	return &ProfileRepository{
		dbs:    dbs,
		logger: logger.With("source", "ProfileRepository"),
	}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	stmt := `INSERT INTO profiles (id, username, xp, games_played, games_won, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		profile.ID, profile.Username, profile.XP, profile.GamesPlayed, profile.GamesWon,
		profile.CreatedAt); err != nil {
		return errors.Wrap(err, "insert profile")
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	stmt := `SELECT id, username, xp, games_played, games_won, created_at FROM profiles WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &profile, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "profile not found", slog.String("profile_id", id))
		}
		return nil, errors.Wrap(err, "read profile")
	}
	return &profile, nil
}

// Exists reports whether the profile id is known. Used by the session
// middleware to detect stale session references.
func (r *ProfileRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	stmt := `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)`
	if err := r.dbs.ReadOnly.GetContext(ctx, &exists, stmt, id); err != nil {
		return false, errors.Wrap(err, "check profile existence")
	}
	return exists, nil
}
