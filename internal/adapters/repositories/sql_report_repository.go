package repositories

import (
	"context"
	"database/sql"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// SQL-backed store for scenario and global report summaries plus the
// per-agent statistics behind them. Works on SQLite and Postgres.
type SQLReportRepository struct {
	DB      *sql.DB
	Dialect Dialect
	Now     func() time.Time
}

func NewSQLReportRepository(db *sql.DB, dialect Dialect) *SQLReportRepository {
	return &SQLReportRepository{DB: db, Dialect: dialect, Now: time.Now}
}

func (s *SQLReportRepository) WriteScenario(ctx context.Context, runID string, r *domain.ScenarioReport) (err error) {
	defer obs.Time(ctx, "reports.sql.WriteScenario")(&err)

	sum := domain.Summarize(runID, r.Scenario, r.Stats, r.BestAgent)
	if err := s.save(ctx, sum, len(r.Skipped), r.Stats); err != nil {
		return fmt.Errorf("save scenario report %q: %w", r.Scenario, err)
	}
	return nil
}

func (s *SQLReportRepository) WriteGlobal(ctx context.Context, runID string, g *domain.GlobalReport) (err error) {
	defer obs.Time(ctx, "reports.sql.WriteGlobal")(&err)

	sum := domain.Summarize(runID, domain.GlobalScenario, g.Stats, g.BestAgent)
	if err := s.save(ctx, sum, 0, g.Stats); err != nil {
		return fmt.Errorf("save global report: %w", err)
	}
	return nil
}

func (s *SQLReportRepository) save(ctx context.Context, sum domain.Summary, skipped int, stats domain.StatSheet) error {
	if s.DB == nil {
		return errors.New("report repository: db is nil")
	}
	if sum.RunID == "" {
		return errors.New("report repository: run id must not be empty")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	d := s.Dialect
	reportQuery := fmt.Sprintf(`
	INSERT INTO scenario_reports (
		run_id,
		scenario,
		best_agent,
		packages_delivered,
		total_distance,
		skipped_packages,
		created_at
	)
	VALUES (%s, %s, %s, %s, %s, %s, %s)
	ON CONFLICT (run_id, scenario) DO UPDATE
	SET best_agent = EXCLUDED.best_agent,
		packages_delivered = EXCLUDED.packages_delivered,
		total_distance = EXCLUDED.total_distance,
		skipped_packages = EXCLUDED.skipped_packages,
		created_at = EXCLUDED.created_at;
	`, d.bind(1), d.bind(2), d.bind(3), d.bind(4), d.bind(5), d.bind(6), d.bind(7))

	if _, err := tx.ExecContext(ctx, reportQuery,
		sum.RunID, sum.Scenario, sum.BestAgent, sum.PackagesDelivered, sum.TotalDistance, skipped,
		now().UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert scenario_reports: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO agent_stats (
		run_id,
		scenario,
		agent_id,
		packages_delivered,
		total_distance
	)
	VALUES (%s, %s, %s, %s, %s)
	ON CONFLICT (run_id, scenario, agent_id) DO UPDATE
	SET packages_delivered = EXCLUDED.packages_delivered,
		total_distance = EXCLUDED.total_distance;
	`, d.bind(1), d.bind(2), d.bind(3), d.bind(4), d.bind(5)))
	if err != nil {
		return fmt.Errorf("prepare agent_stats insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range stats.AgentIDs() {
		st := stats[id]
		if _, err := stmt.ExecContext(ctx, sum.RunID, sum.Scenario, id, st.PackagesDelivered, st.TotalDistance); err != nil {
			return fmt.Errorf("insert agent_stats agent=%q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Return the most recent summaries, newest first.
func (s *SQLReportRepository) ListSummaries(ctx context.Context, limit int) (_ []domain.Summary, err error) {
	defer obs.Time(ctx, "reports.sql.ListSummaries")(&err)

	if s.DB == nil {
		return nil, errors.New("report repository: db is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	q := fmt.Sprintf(`
	SELECT
		run_id,
		scenario,
		best_agent,
		packages_delivered,
		total_distance,
		created_at
	FROM scenario_reports
	ORDER BY created_at DESC, run_id, scenario
	LIMIT %s;
	`, s.Dialect.bind(1))

	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list summaries: query scenario_reports table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Summary, 0, limit)
	for rows.Next() {
		var sum domain.Summary
		var created string
		if err := rows.Scan(&sum.RunID, &sum.Scenario, &sum.BestAgent, &sum.PackagesDelivered, &sum.TotalDistance, &created); err != nil {
			return nil, fmt.Errorf("list summaries: scan row: %w", err)
		}
		if t, err := time.Parse(timeLayout, created); err == nil {
			sum.CreatedAt = t
		}
		if sum.PackagesDelivered > 0 {
			eff := sum.TotalDistance / float64(sum.PackagesDelivered)
			sum.Efficiency = &eff
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list summaries: row iteration: %w", err)
	}

	return out, nil
}

// Return the stored per-agent statistics of one report.
func (s *SQLReportRepository) LoadStats(ctx context.Context, runID, scenario string) (_ domain.StatSheet, err error) {
	defer obs.Time(ctx, "reports.sql.LoadStats")(&err)

	if s.DB == nil {
		return nil, errors.New("report repository: db is nil")
	}

	q := fmt.Sprintf(`
	SELECT agent_id, packages_delivered, total_distance
	FROM agent_stats
	WHERE run_id = %s AND scenario = %s;
	`, s.Dialect.bind(1), s.Dialect.bind(2))

	rows, err := s.DB.QueryContext(ctx, q, runID, scenario)
	if err != nil {
		return nil, fmt.Errorf("load stats: query agent_stats table: %w", err)
	}
	defer rows.Close()

	out := domain.StatSheet{}
	for rows.Next() {
		var id string
		st := &domain.AgentStat{}
		if err := rows.Scan(&id, &st.PackagesDelivered, &st.TotalDistance); err != nil {
			return nil, fmt.Errorf("load stats: scan row: %w", err)
		}
		out[id] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stats: row iteration: %w", err)
	}

	return out, nil
}
