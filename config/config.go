package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/candletrader/market"
)

// Config is the complete configuration one script-back-test or live-sync
// run is launched with: the bar selection, the strategy script, the
// starting position, and where state is persisted.
type Config struct {
	Selection SelectionConfig `json:"selection" yaml:"selection"`
	Script    ScriptConfig    `json:"script" yaml:"script"`
	Position  PositionConfig  `json:"position" yaml:"position"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}

// SelectionConfig is the YAML/JSON shape of a market.Selection.
type SelectionConfig struct {
	Symbol     string                         `json:"symbol" yaml:"symbol"`
	Minutes    int32                          `json:"minutes" yaml:"minutes"`
	StartTime  time.Time                      `json:"start_time" yaml:"start_time"`
	EndTime    time.Time                      `json:"end_time" yaml:"end_time"`
	HeikinAshi bool                           `json:"heikin_ashi" yaml:"heikin_ashi"`
	Tacs       map[string]TacDefinitionConfig `json:"tacs,omitempty" yaml:"tacs,omitempty"`
}

// TacDefinitionConfig is the YAML/JSON shape of a market.TacDefinition.
type TacDefinitionConfig struct {
	Name       string   `json:"name" yaml:"name"`
	Indicators []string `json:"indicators" yaml:"indicators"`
}

// Selection converts the config section into the market.Selection the
// provisioner and strategy driver consume.
func (s SelectionConfig) Selection() market.Selection {
	tacs := make(map[string]market.TacDefinition, len(s.Tacs))
	for k, v := range s.Tacs {
		tacs[k] = market.TacDefinition{Name: v.Name, Indicators: v.Indicators}
	}
	return market.Selection{
		Symbol:     s.Symbol,
		Minutes:    s.Minutes,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		HeikinAshi: s.HeikinAshi,
		Tacs:       tacs,
	}
}

// ScriptConfig names the strategy script a run evaluates bar by bar.
type ScriptConfig struct {
	File string `json:"file" yaml:"file"`
}

// PositionConfig seeds the ledger.Position a run starts trading from.
type PositionConfig struct {
	ID           string  `json:"id" yaml:"id"`
	Description  string  `json:"description" yaml:"description"`
	InitialFiat  float64 `json:"initial_fiat" yaml:"initial_fiat"`
	InitialPrice float64 `json:"initial_price" yaml:"initial_price"`
}

// StoreConfig names the SQLite file candles, flows, and run bookkeeping
// persist to.
type StoreConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LoadFromFile loads a Config from a file, trying YAML first and falling
// back to JSON, and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("config: parse %s (tried YAML and JSON): %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes c to path, choosing YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks that a Config is complete enough to launch a run.
func (c *Config) Validate() error {
	if c.Selection.Symbol == "" {
		return fmt.Errorf("selection.symbol is required")
	}
	if c.Selection.Minutes <= 0 {
		return fmt.Errorf("selection.minutes must be positive")
	}
	if !c.Selection.EndTime.After(c.Selection.StartTime) {
		return fmt.Errorf("selection.end_time must be after selection.start_time")
	}
	if c.Script.File == "" {
		return fmt.Errorf("script.file is required")
	}
	if c.Position.ID == "" {
		return fmt.Errorf("position.id is required")
	}
	if c.Position.InitialFiat <= 0 {
		return fmt.Errorf("position.initial_fiat must be positive")
	}
	if c.Position.InitialPrice <= 0 {
		return fmt.Errorf("position.initial_price must be positive")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	return nil
}

// Default returns a Config with sensible defaults for a quick smoke run
// against BTCUSDT.
func Default() *Config {
	now := time.Now().UTC()
	return &Config{
		Selection: SelectionConfig{
			Symbol:     "BTCUSDT",
			Minutes:    15,
			StartTime:  now.Add(-24 * time.Hour),
			EndTime:    now,
			HeikinAshi: false,
		},
		Script: ScriptConfig{
			File: "./strategy.lua",
		},
		Position: PositionConfig{
			ID:           "default",
			Description:  "smoke run",
			InitialFiat:  1000,
			InitialPrice: 50000,
		},
		Store: StoreConfig{
			Path: "./candletrader.db",
		},
	}
}
