package config

import (
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Config{
		Selection: SelectionConfig{
			Symbol:    "BTCUSDT",
			Minutes:   15,
			StartTime: start,
			EndTime:   start.Add(24 * time.Hour),
		},
		Script:   ScriptConfig{File: "./strategy.lua"},
		Position: PositionConfig{ID: "p1", InitialFiat: 1000, InitialPrice: 50000},
		Store:    StoreConfig{Path: "./run.db"},
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	cfg := validConfig()
	cfg.Selection.EndTime = cfg.Selection.StartTime
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a non-positive selection window")
	}
}

func TestValidateRejectsMissingScript(t *testing.T) {
	cfg := validConfig()
	cfg.Script.File = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a missing script file")
	}
}

func TestSaveAndLoadRoundTripYAML(t *testing.T) {
	cfg := validConfig()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Selection.Symbol != cfg.Selection.Symbol {
		t.Errorf("symbol = %q, want %q", got.Selection.Symbol, cfg.Selection.Symbol)
	}
	if got.Position.InitialFiat != cfg.Position.InitialFiat {
		t.Errorf("initial_fiat = %v, want %v", got.Position.InitialFiat, cfg.Position.InitialFiat)
	}
}

func TestSaveAndLoadRoundTripJSON(t *testing.T) {
	cfg := validConfig()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Store.Path != cfg.Store.Path {
		t.Errorf("store.path = %q, want %q", got.Store.Path, cfg.Store.Path)
	}
}

func TestSelectionConfigConvertsTacs(t *testing.T) {
	cfg := validConfig()
	cfg.Selection.Tacs = map[string]TacDefinitionConfig{
		"trend": {Name: "trend", Indicators: []string{"ema", "macd"}},
	}
	sel := cfg.Selection.Selection()
	tac, ok := sel.Tacs["trend"]
	if !ok {
		t.Fatal("expected tacs[\"trend\"] to be present")
	}
	if len(tac.Indicators) != 2 {
		t.Errorf("got %d indicators, want 2", len(tac.Indicators))
	}
}
