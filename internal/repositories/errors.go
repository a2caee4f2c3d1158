package repositories

import (
	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrConflict is returned when a guarded write finds its precondition no
	// longer holds, e.g. a status compare-and-set loses the race, a seat
	// insert hits a full or already-started room, or a vote batch finds
	// prior votes.
	ErrConflict = errors.NewSentinel("conflict")
)

// isConstraintViolation reports whether err is a SQLite constraint failure
// such as a UNIQUE violation.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
