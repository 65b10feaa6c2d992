// Package store persists users, collections, collection items and events in
// SQLite. Driver failures are classified at this boundary: unique violations
// become common.ErrConflict, foreign-key violations common.ErrNotFound and
// everything else common.ErrStore.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/common"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// classify wraps err from operation op with the matching error kind.
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w", op, common.ErrConflict)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, common.ErrNotFound)
		}
		// without extended result codes only the primary code is set
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := se.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%s: %w", op, common.ErrConflict)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%s: %w", op, common.ErrNotFound)
			}
		}
	}

	return fmt.Errorf("%s: %w: %w", op, common.ErrStore, err)
}
