package model

import "fmt"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Generation defaults
	DefaultSeed         int64   `json:"default_seed"` // 0 = seed from the clock
	DefaultMinDimension float64 `json:"default_min_dimension"`
	DefaultMaxDimension float64 `json:"default_max_dimension"`

	// Container overrides; nil keeps the built-in container
	Pallet *ContainerSpec `json:"pallet,omitempty"`
	Truck  *ContainerSpec `json:"truck,omitempty"`

	// Application preferences
	RecentScenarios []string `json:"recent_scenarios"`
	LogLevel        string   `json:"log_level"` // "debug", "info", "warn"
}

// maxRecentScenarios caps the recent scenarios list.
const maxRecentScenarios = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultSeed:         0,
		DefaultMinDimension: defaults.MinDimension,
		DefaultMaxDimension: defaults.MaxDimension,
		RecentScenarios:     []string{},
		LogLevel:            "info",
	}
}

// ApplyToSettings copies the configured defaults into a Settings struct.
// Zero dimension values leave the existing range untouched.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultMinDimension > 0 {
		s.MinDimension = c.DefaultMinDimension
	}
	if c.DefaultMaxDimension > 0 {
		s.MaxDimension = c.DefaultMaxDimension
	}
	if c.Pallet != nil {
		s.Pallet = c.Pallet.Clone()
	}
	if c.Truck != nil {
		s.Truck = c.Truck.Clone()
	}
}

// AddRecentScenario moves path to the front of the recent list.
func (c *AppConfig) AddRecentScenario(path string) {
	recent := []string{path}
	for _, p := range c.RecentScenarios {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentScenarios {
		recent = recent[:maxRecentScenarios]
	}
	c.RecentScenarios = recent
}

// Validate checks the dimension range and any container overrides.
// Zero dimensions mean "use the built-in default".
func (c AppConfig) Validate() error {
	if c.DefaultMinDimension < 0 || c.DefaultMaxDimension < 0 {
		return fmt.Errorf("dimension range cannot be negative")
	}
	if c.DefaultMinDimension > 0 && c.DefaultMaxDimension > 0 && c.DefaultMinDimension > c.DefaultMaxDimension {
		return fmt.Errorf("min dimension %.3f exceeds max dimension %.3f", c.DefaultMinDimension, c.DefaultMaxDimension)
	}
	for _, spec := range []*ContainerSpec{c.Pallet, c.Truck} {
		if spec == nil {
			continue
		}
		if err := spec.Validate(); err != nil {
			return err
		}
	}
	return nil
}
