package main

import (
	"context"
	"dispatch-sim/internal/adapters/broker"
	"dispatch-sim/internal/adapters/delay"
	"dispatch-sim/internal/adapters/loader"
	"dispatch-sim/internal/adapters/report"
	"dispatch-sim/internal/adapters/repositories"
	"dispatch-sim/internal/config"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/obs"
	"dispatch-sim/internal/ports"
	"dispatch-sim/internal/services"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// main is the batch composition root. It loads the batch config, wires the
// file, database and Redis outputs that are configured, and runs every
// scenario.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.LoadBatch(config.Get("DISPATCH_CONFIG", ""))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, stores{
		databaseURL: config.Get("DATABASE_URL", ""),
		dbPath:      config.Get("DB_PATH", ""),
		redisURL:    config.Get("REDIS_URL", ""),
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range res.Skipped {
		fmt.Printf("skipped scenario %s: %v\n", s.Name, s.Err)
	}
	if best := res.Global.BestAgent; best != "" {
		eff, _ := res.Global.Stats[best].Efficiency()
		fmt.Printf("best agent overall: %s (efficiency %.2f)\n", best, eff)
	} else {
		fmt.Println("best agent overall: none")
	}
}

type stores struct {
	databaseURL string
	dbPath      string
	redisURL    string
}

func run(ctx context.Context, cfg config.Batch, st stores) (_ *services.BatchResult, err error) {
	runID := uuid.NewString()
	ctx = obs.WithRequestID(ctx, runID)

	sinks := report.Fanout{report.NewFileSink(cfg.OutputDir)}

	repo, conn, err := repositories.Open(st.databaseURL, st.dbPath)
	switch {
	case errors.Is(err, repositories.ErrNoStore):
	case err != nil:
		return nil, err
	default:
		defer conn.Close()
		sinks = append(sinks, repo)
	}

	if st.redisURL != "" {
		pub, err := broker.NewRedisPublisher(st.redisURL)
		if err != nil {
			return nil, err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	assignments, err := report.NewAssignmentLog(filepath.Join(cfg.OutputDir, report.AssignmentLogFile))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := assignments.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var scenarioLoader ports.ScenarioLoader = loader.NewJSONFileLoader()
	if cfg.Map.Enabled {
		scenarioLoader = &report.MapWritingLoader{
			Next:   scenarioLoader,
			Dir:    cfg.OutputDir,
			Width:  cfg.Map.Width,
			Height: cfg.Map.Height,
		}
	}

	seed := delay.ResolveSeed(cfg.Seed)

	req := services.BatchRequest{
		RunID:     runID,
		Scenarios: make([]services.ScenarioSource, 0, len(cfg.Scenarios)),
		Loader:    scenarioLoader,
		NewDelay: func(i int, _ string) ports.DelaySource {
			return delay.NewUniform(delay.SeedFor(seed, i), cfg.Delay.Min, cfg.Delay.Max)
		},
		Recorder:    assignments,
		Sink:        sinks,
		Concurrency: cfg.Concurrency,
		Verbose:     cfg.Verbose,
	}
	for _, s := range cfg.Scenarios {
		req.Scenarios = append(req.Scenarios, services.ScenarioSource{Name: s.Name, Path: s.Path})
	}
	if cfg.Join.Enabled {
		req.Join = &services.JoinPolicy{
			AgentID:  cfg.Join.AgentID,
			Location: domain.Point{X: cfg.Join.Location[0], Y: cfg.Join.Location[1]},
			AtIndex:  cfg.Join.AtIndex,
		}
	}

	log.Printf("run_id=%s scenarios=%d out=%s seed=%d", runID, len(req.Scenarios), cfg.OutputDir, seed)
	return services.RunBatch(ctx, req)
}
