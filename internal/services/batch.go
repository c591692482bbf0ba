package services

import (
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/metrics"
	"dispatch-sim/internal/platform/obs"
	"dispatch-sim/internal/ports"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

type ScenarioSource struct {
	Name string
	Path string
}

type BatchRequest struct {
	RunID     string
	Scenarios []ScenarioSource
	Loader    ports.ScenarioLoader
	// NewDelay returns a fresh delay source for the scenario at index i.
	// Sources are never shared between scenarios.
	NewDelay    func(i int, name string) ports.DelaySource
	Join        *JoinPolicy
	Recorder    ports.AssignmentRecorder
	Sink        ports.ReportSink
	Concurrency int
	Verbose     bool
}

type SkippedScenario struct {
	Name string
	Err  error
}

type BatchResult struct {
	RunID   string
	Reports []*domain.ScenarioReport
	Skipped []SkippedScenario
	Global  *domain.GlobalReport
}

// RunBatch runs independent scenarios, folds their reports and hands every
// report to the sink.
//
// Scenarios run concurrently up to req.Concurrency, each with its own fleet
// and delay source. Unreadable scenarios are skipped; reports are written in
// input order once all scenarios have finished.
func RunBatch(ctx context.Context, req BatchRequest) (_ *BatchResult, err error) {
	defer obs.Time(ctx, "batch.Run")(&err)

	if req.Loader == nil {
		return nil, errors.New("run batch: loader must be non-nil")
	}
	if req.NewDelay == nil {
		return nil, errors.New("run batch: delay factory must be non-nil")
	}

	reports := make([]*domain.ScenarioReport, len(req.Scenarios))
	skipped := make([]error, len(req.Scenarios))

	limit := req.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, src := range req.Scenarios {
		g.Go(func() error {
			sc, err := req.Loader.Load(gctx, src.Name, src.Path)
			if err != nil {
				if errors.Is(err, domain.ErrDataUnavailable) {
					skipped[i] = err
					return nil
				}
				return fmt.Errorf("run batch: load scenario %q: %w", src.Name, err)
			}

			engine := &Engine{
				Delay:    req.NewDelay(i, src.Name),
				Join:     req.Join,
				Recorder: req.Recorder,
				RunID:    req.RunID,
				Verbose:  req.Verbose,
			}
			report, err := engine.Run(gctx, sc)
			if err != nil {
				return fmt.Errorf("run batch: %w", err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &BatchResult{RunID: req.RunID}
	for i, src := range req.Scenarios {
		if skipped[i] != nil {
			log.Printf("run_id=%s scenario=%s skipped: %v", req.RunID, src.Name, skipped[i])
			metrics.Scenarios.WithLabelValues("skipped").Inc()
			res.Skipped = append(res.Skipped, SkippedScenario{Name: src.Name, Err: skipped[i]})
			continue
		}
		metrics.Scenarios.WithLabelValues("ok").Inc()
		res.Reports = append(res.Reports, reports[i])
	}

	res.Global = Fold(res.Reports)

	if req.Sink != nil {
		for _, r := range res.Reports {
			if err := req.Sink.WriteScenario(ctx, req.RunID, r); err != nil {
				return nil, fmt.Errorf("run batch: write scenario %q: %w", r.Scenario, err)
			}
		}
		if err := req.Sink.WriteGlobal(ctx, req.RunID, res.Global); err != nil {
			return nil, fmt.Errorf("run batch: write global report: %w", err)
		}
	}

	return res, nil
}
