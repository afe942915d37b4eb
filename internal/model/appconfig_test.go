package model

import (
	"fmt"
	"testing"
)

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultMinDimension != defaults.MinDimension {
		t.Errorf("MinDimension mismatch: config=%f settings=%f", cfg.DefaultMinDimension, defaults.MinDimension)
	}
	if cfg.DefaultMaxDimension != defaults.MaxDimension {
		t.Errorf("MaxDimension mismatch: config=%f settings=%f", cfg.DefaultMaxDimension, defaults.MaxDimension)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
	if cfg.RecentScenarios == nil {
		t.Error("RecentScenarios should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMinDimension = 0.2
	cfg.DefaultMaxDimension = 0.4
	truck := TruckSpec()
	truck.MaxStackHeight = 2.0
	cfg.Truck = &truck

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.MinDimension != 0.2 {
		t.Errorf("expected MinDimension=0.2, got %f", s.MinDimension)
	}
	if s.MaxDimension != 0.4 {
		t.Errorf("expected MaxDimension=0.4, got %f", s.MaxDimension)
	}
	if s.Truck.MaxStackHeight != 2.0 {
		t.Errorf("expected truck MaxStackHeight=2.0, got %f", s.Truck.MaxStackHeight)
	}
	if s.Pallet.Name != "Pallet" {
		t.Errorf("pallet should be untouched, got %s", s.Pallet.Name)
	}

	// The override is copied, not aliased
	truck.Columns[0].X = 99
	if s.Truck.Columns[0].X == 99 {
		t.Error("ApplyToSettings should deep copy the truck columns")
	}
}

func TestAddRecentScenario(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentScenario("a.yaml")
	cfg.AddRecentScenario("b.yaml")
	cfg.AddRecentScenario("a.yaml")

	if len(cfg.RecentScenarios) != 2 {
		t.Fatalf("expected 2 recent scenarios, got %d", len(cfg.RecentScenarios))
	}
	if cfg.RecentScenarios[0] != "a.yaml" {
		t.Errorf("expected a.yaml first, got %s", cfg.RecentScenarios[0])
	}

	for i := 0; i < 20; i++ {
		cfg.AddRecentScenario(fmt.Sprintf("s%d.yaml", i))
	}
	if len(cfg.RecentScenarios) != maxRecentScenarios {
		t.Errorf("expected list capped at %d, got %d", maxRecentScenarios, len(cfg.RecentScenarios))
	}
}

func TestAppConfigValidate(t *testing.T) {
	if err := DefaultAppConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg := DefaultAppConfig()
	cfg.DefaultMinDimension = 0.6
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when min exceeds max")
	}

	cfg = DefaultAppConfig()
	cfg.DefaultMinDimension = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero min means default, got %v", err)
	}

	cfg = DefaultAppConfig()
	broken := TruckSpec()
	broken.Columns = nil
	cfg.Truck = &broken
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for a grid override without columns")
	}
}
