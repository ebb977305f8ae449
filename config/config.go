// Package config loads routes, fallback chains, and budgets from a file
// and applies them to the router, cost tracker, and prompt manager.
//
// Routes and chains are in-memory configuration: the application loads a
// file at startup, applies it, and optionally watches for changes. TOML
// and YAML are supported, selected by file extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/flowkit-ai/flowkit/cost"
	"github.com/flowkit-ai/flowkit/prompt"
	"github.com/flowkit-ai/flowkit/router"
)

// Config is the on-disk shape of flowkit's runtime configuration.
type Config struct {
	// Routes maps task types to (provider, model) pairs.
	Routes map[string]router.Candidate `toml:"routes" yaml:"routes"`

	// Fallbacks maps task types to ordered candidate chains.
	Fallbacks map[string][]router.Candidate `toml:"fallbacks" yaml:"fallbacks"`

	// Daily and Monthly cap spend per period. Nil fields are unlimited.
	Daily   cost.Budget `toml:"daily" yaml:"daily"`
	Monthly cost.Budget `toml:"monthly" yaml:"monthly"`

	// Context bounds prompt assembly. Zero fields keep defaults.
	Context ContextConfig `toml:"context" yaml:"context"`
}

// ContextConfig overrides the prompt manager's budget.
type ContextConfig struct {
	MaxTokens      int `toml:"max_tokens" yaml:"max_tokens"`
	ReservedOutput int `toml:"reserved_output" yaml:"reserved_output"`
}

// Load reads a config file, decoding by extension: .toml as TOML,
// .yaml/.yml as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return &cfg, nil
}

// Apply pushes the configuration into the given components. Nil arguments
// are skipped, so callers apply only the parts they use.
func (c *Config) Apply(rt *router.Router, tracker *cost.Tracker, mgr *prompt.Manager) {
	if rt != nil {
		for task, candidate := range c.Routes {
			rt.SetRoute(task, candidate.Provider, candidate.Model)
		}
		for task, chain := range c.Fallbacks {
			rt.SetFallbackChain(task, chain)
		}
	}
	if tracker != nil {
		tracker.SetDailyBudget(c.Daily)
		tracker.SetMonthlyBudget(c.Monthly)
	}
	if mgr != nil {
		patch := prompt.BudgetPatch{}
		if c.Context.MaxTokens > 0 {
			patch.MaxTokens = &c.Context.MaxTokens
		}
		if c.Context.ReservedOutput > 0 {
			patch.ReservedOutput = &c.Context.ReservedOutput
		}
		mgr.SetBudget(patch)
	}
}
