package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultName is the name reported by agents without a configured name.
const DefaultName = "C4_Killer"

// Config holds the agent settings. It can be loaded from a YAML file.
type Config struct {
	// Name identifies the agent to drivers and in recorded games.
	Name string `yaml:"name"`

	// Depth is the number of plies searched, counting the root move.
	// Zero scores the root moves with the evaluator alone.
	Depth int `yaml:"depth"`

	// Pruning enables alpha-beta cutoffs. It never changes the chosen move.
	Pruning bool `yaml:"pruning"`

	// Verbose logs one line per decision.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:    DefaultName,
		Depth:   4,
		Pruning: true,
	}
}

// Validate rejects settings the agent cannot run with.
func (c Config) Validate() error {
	if c.Depth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, c.Depth)
	}
	return nil
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read agent config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse agent config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("agent config %s: %w", path, err)
	}
	return cfg, nil
}
