package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Dialect selects placeholder syntax for the report repository.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// bind returns the placeholder for the n-th (1-based) argument.
func (d Dialect) bind(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Initialize the report schema. Statements are valid for both SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createScenarioReportsQuery := `
	CREATE TABLE IF NOT EXISTS scenario_reports (
		run_id TEXT NOT NULL,
		scenario TEXT NOT NULL,
		best_agent TEXT NOT NULL DEFAULT '',
		packages_delivered INTEGER NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		skipped_packages INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		PRIMARY KEY (run_id, scenario)
	);
	`

	createAgentStatsQuery := `
	CREATE TABLE IF NOT EXISTS agent_stats (
		run_id TEXT NOT NULL,
		scenario TEXT NOT NULL,
		agent_id TEXT NOT NULL,
		packages_delivered INTEGER NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, scenario, agent_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_scenario_reports_created_at
	ON scenario_reports(created_at);
	`

	statements := []string{
		createScenarioReportsQuery,
		createAgentStatsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
