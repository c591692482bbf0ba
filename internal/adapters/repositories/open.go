package repositories

import (
	"database/sql"
	"dispatch-sim/internal/platform/db"
	"errors"
	"fmt"
	"strings"
)

// ErrNoStore is returned by Open when neither a Postgres URL nor a SQLite
// path was configured.
var ErrNoStore = errors.New("no report store configured")

// Open connects the report repository. A Postgres URL takes precedence over
// a SQLite path. The schema is created when missing; the caller closes the
// returned *sql.DB.
func Open(databaseURL, sqlitePath string) (*SQLReportRepository, *sql.DB, error) {
	var (
		conn    *sql.DB
		dialect Dialect
		err     error
	)
	switch {
	case strings.TrimSpace(databaseURL) != "":
		conn, err = db.Open(databaseURL)
		dialect = Postgres
	case strings.TrimSpace(sqlitePath) != "":
		conn, err = db.OpenSQLite(sqlitePath)
		dialect = SQLite
	default:
		return nil, nil, ErrNoStore
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open report store: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open report store (%s): %w", dialect, err)
	}

	return NewSQLReportRepository(conn, dialect), conn, nil
}
