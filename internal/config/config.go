package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetInt64(key string, fallback int64) int64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("config: invalid int64 %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// Batch describes one simulation run over several scenario files.
type Batch struct {
	Scenarios   []ScenarioEntry `yaml:"scenarios"`
	DataDir     string          `yaml:"data_dir"`
	OutputDir   string          `yaml:"output_dir"`
	Seed        int64           `yaml:"seed"`
	Concurrency int             `yaml:"concurrency"`
	Verbose     bool            `yaml:"verbose"`
	Delay       DelayRange      `yaml:"delay"`
	Join        JoinSpec        `yaml:"join"`
	Map         MapSpec         `yaml:"map"`
}

type ScenarioEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type DelayRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// JoinSpec adds one agent before the package at AtIndex. A negative index
// means the middle of the package list.
type JoinSpec struct {
	Enabled  bool       `yaml:"enabled"`
	AgentID  string     `yaml:"agent_id"`
	Location [2]float64 `yaml:"location"`
	AtIndex  int        `yaml:"at_index"`
}

type MapSpec struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
}

func defaults() Batch {
	return Batch{
		DataDir:     ".",
		OutputDir:   "out",
		Concurrency: 4,
		Delay:       DelayRange{Min: 1.0, Max: 1.2},
		Join: JoinSpec{
			Enabled:  true,
			AgentID:  "AGENT_NEW",
			Location: [2]float64{50, 50},
			AtIndex:  -1,
		},
		Map: MapSpec{Width: 40, Height: 20},
	}
}

// LoadBatch reads a YAML batch file. An empty path yields the defaults,
// which run base_case.json from the data directory. Environment overrides
// are applied last.
func LoadBatch(path string) (Batch, error) {
	cfg := defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load batch config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("batch config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("batch config: %w", err)
	}
	return cfg, nil
}

func (c *Batch) applyEnv() {
	c.OutputDir = Get("DISPATCH_OUTPUT_DIR", c.OutputDir)
	c.DataDir = Get("DISPATCH_DATA_DIR", c.DataDir)
	c.Seed = GetInt64("DISPATCH_SEED", c.Seed)
	c.Concurrency = GetInt("DISPATCH_CONCURRENCY", c.Concurrency)
}

func (c *Batch) Normalize() {
	if len(c.Scenarios) == 0 {
		c.Scenarios = []ScenarioEntry{{Path: "base_case.json"}}
	}
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		s.Path = strings.TrimSpace(s.Path)
		if s.Name == "" {
			s.Name = strings.TrimSuffix(filepath.Base(s.Path), filepath.Ext(s.Path))
		}
		if s.Path != "" && !filepath.IsAbs(s.Path) && c.DataDir != "" {
			s.Path = filepath.Join(c.DataDir, s.Path)
		}
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.Delay.Min > c.Delay.Max {
		c.Delay.Min, c.Delay.Max = c.Delay.Max, c.Delay.Min
	}
	if c.Join.AgentID == "" {
		c.Join.AgentID = "AGENT_NEW"
	}
	if c.Map.Width <= 0 {
		c.Map.Width = 40
	}
	if c.Map.Height <= 0 {
		c.Map.Height = 20
	}
}

func (c Batch) Validate() error {
	// Output files are named after the base of the scenario name, so two
	// names sharing a base would overwrite each other's reports.
	seen := make(map[string]string, len(c.Scenarios))
	for _, s := range c.Scenarios {
		if s.Path == "" {
			return fmt.Errorf("scenario %q: path is required", s.Name)
		}
		base := filepath.Base(s.Name)
		if prev, ok := seen[base]; ok {
			if prev == s.Name {
				return fmt.Errorf("duplicate scenario name %q", s.Name)
			}
			return fmt.Errorf("scenario names %q and %q write the same report files", prev, s.Name)
		}
		seen[base] = s.Name
	}
	if c.Delay.Min <= 0 {
		return errors.New("delay.min must be positive")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output_dir is required")
	}
	return nil
}
