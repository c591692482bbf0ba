package broker

import (
	"context"
	"dispatch-sim/internal/domain"
	"dispatch-sim/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	ScenarioChannel = "dispatch:scenarios"
	BestAgentsKey   = "dispatch:best_agents"
)

// SummaryMessage is the payload published for every finished report.
type SummaryMessage struct {
	RunID             string   `json:"run_id"`
	Scenario          string   `json:"scenario"`
	BestAgent         *string  `json:"best_agent"`
	PackagesDelivered int      `json:"packages_delivered"`
	TotalDistance     float64  `json:"total_distance"`
	Efficiency        *float64 `json:"efficiency,omitempty"`
	SkippedPackages   int      `json:"skipped_packages"`
}

// RedisPublisher announces report summaries over Redis Pub/Sub and keeps the
// latest best agent per scenario in a hash.
type RedisPublisher struct {
	rdb     *redis.Client
	Timeout time.Duration
}

func NewRedisPublisher(url string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}
	return NewRedisPublisherFromClient(redis.NewClient(opt)), nil
}

func NewRedisPublisherFromClient(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, Timeout: 2 * time.Second}
}

func (p *RedisPublisher) WriteScenario(ctx context.Context, runID string, r *domain.ScenarioReport) (err error) {
	defer obs.Time(ctx, "reports.redis.WriteScenario")(&err)

	sum := domain.Summarize(runID, r.Scenario, r.Stats, r.BestAgent)
	return p.publish(ctx, sum, len(r.Skipped))
}

func (p *RedisPublisher) WriteGlobal(ctx context.Context, runID string, g *domain.GlobalReport) (err error) {
	defer obs.Time(ctx, "reports.redis.WriteGlobal")(&err)

	sum := domain.Summarize(runID, domain.GlobalScenario, g.Stats, g.BestAgent)
	return p.publish(ctx, sum, 0)
}

func (p *RedisPublisher) publish(ctx context.Context, sum domain.Summary, skipped int) error {
	if p.rdb == nil {
		return errors.New("redis publisher: client is nil")
	}

	msg := SummaryMessage{
		RunID:             sum.RunID,
		Scenario:          sum.Scenario,
		PackagesDelivered: sum.PackagesDelivered,
		TotalDistance:     domain.Round2(sum.TotalDistance),
		SkippedPackages:   skipped,
	}
	if sum.BestAgent != "" {
		best := sum.BestAgent
		msg.BestAgent = &best
	}
	if sum.Efficiency != nil {
		eff := domain.Round2(*sum.Efficiency)
		msg.Efficiency = &eff
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("redis publisher: marshal summary: %w", err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	pipe := p.rdb.Pipeline()
	pipe.Publish(ctx, ScenarioChannel, data)
	pipe.HSet(ctx, BestAgentsKey, sum.Scenario, sum.BestAgent)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publisher: scenario=%s: %w", sum.Scenario, err)
	}
	return nil
}

// BestAgents returns the last published best agent per scenario.
func (p *RedisPublisher) BestAgents(ctx context.Context) (map[string]string, error) {
	if p.rdb == nil {
		return nil, errors.New("redis publisher: client is nil")
	}
	out, err := p.rdb.HGetAll(ctx, BestAgentsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis publisher: read best agents: %w", err)
	}
	return out, nil
}

func (p *RedisPublisher) Close() error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}
