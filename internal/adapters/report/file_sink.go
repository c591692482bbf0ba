package report

import (
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/obs"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	SummaryFile      = "summary.csv"
	GlobalReportFile = "global_report.json"
)

var summaryHeader = []string{"run_id", "scenario", "best_agent", "packages_delivered", "total_distance", "efficiency"}

// FileSink writes per-scenario JSON reports, appends one row per scenario to
// the cumulative summary CSV, and writes the global JSON report.
type FileSink struct {
	Dir string

	mu sync.Mutex
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) WriteScenario(ctx context.Context, runID string, r *domain.ScenarioReport) (err error) {
	defer obs.Time(ctx, "report.file.WriteScenario")(&err)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := newDocument(r.Stats, r.BestAgent)
	doc.RunID = runID
	doc.Scenario = r.Scenario
	doc.Skipped = len(r.Skipped)

	if err := s.writeJSON(ScenarioReportFile(r.Scenario), doc); err != nil {
		return fmt.Errorf("write scenario report %q: %w", r.Scenario, err)
	}

	if err := s.appendSummary(domain.Summarize(runID, r.Scenario, r.Stats, r.BestAgent)); err != nil {
		return fmt.Errorf("write scenario report %q: %w", r.Scenario, err)
	}

	return nil
}

func (s *FileSink) WriteGlobal(ctx context.Context, runID string, g *domain.GlobalReport) (err error) {
	defer obs.Time(ctx, "report.file.WriteGlobal")(&err)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := newDocument(g.Stats, g.BestAgent)
	doc.RunID = runID
	doc.Scenarios = g.Scenarios

	if err := s.writeJSON(GlobalReportFile, doc); err != nil {
		return fmt.Errorf("write global report: %w", err)
	}
	return nil
}

// ScenarioReportFile names the report file of a scenario.
func ScenarioReportFile(scenario string) string {
	return filepath.Base(scenario) + "_report.json"
}

func (s *FileSink) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %q: %w", s.Dir, err)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// appendSummary adds one row, writing the header first when the file is new.
func (s *FileSink) appendSummary(sum domain.Summary) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %q: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, SummaryFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open summary %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat summary %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(summaryHeader); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	eff := ""
	if sum.Efficiency != nil {
		eff = strconv.FormatFloat(domain.Round2(*sum.Efficiency), 'f', 2, 64)
	}
	row := []string{
		sum.RunID,
		sum.Scenario,
		sum.BestAgent,
		strconv.Itoa(sum.PackagesDelivered),
		strconv.FormatFloat(domain.Round2(sum.TotalDistance), 'f', 2, 64),
		eff,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}
	return f.Close()
}
