package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/StackLoad/internal/model"
)

// ErrUnknownFormat is returned for scenario files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown scenario format")

// Scenario operations.
const (
	OpPlaceContainer = "place_container"
	OpGenerate       = "generate"
	OpPreview        = "preview"
	OpPlace          = "place"
	OpRemove         = "remove"
	OpReposition     = "reposition"
	OpMark           = "mark"
	OpCycleColumn    = "cycle_column"
	OpSwitchMode     = "switch_mode"
	OpDiscard        = "discard"
	OpReset          = "reset"
)

// Expected step outcomes.
const (
	ExpectAny  = ""
	ExpectOK   = "ok"
	ExpectFail = "fail"
)

// Mode names accepted by scenarios.
const (
	ModePallet = "pallet"
	ModeTruck  = "truck"
)

// Scenario is a scripted loading session.
type Scenario struct {
	Name string `yaml:"name" toml:"name"`
	Mode string `yaml:"mode" toml:"mode"` // starting mode, pallet when empty
	// Seed for random boxes once Boxes runs out. 0 = seed from the clock.
	Seed int64 `yaml:"seed" toml:"seed"`
	// Random enables random boxes after the queue is exhausted.
	Random bool `yaml:"random" toml:"random"`

	Pallet *model.ContainerSpec `yaml:"pallet,omitempty" toml:"pallet,omitempty"`
	Truck  *model.ContainerSpec `yaml:"truck,omitempty" toml:"truck,omitempty"`

	Boxes []model.BoxSpec `yaml:"boxes" toml:"boxes"`
	Steps []Step          `yaml:"steps" toml:"steps"`
}

// Step is one user action in a scenario.
type Step struct {
	Op     string      `yaml:"op" toml:"op"`
	At     *model.Vec3 `yaml:"at,omitempty" toml:"at,omitempty"`     // aimed world position, nil = nothing detected
	Box    string      `yaml:"box,omitempty" toml:"box,omitempty"`   // label of a committed box
	Mode   string      `yaml:"mode,omitempty" toml:"mode,omitempty"` // switch_mode target
	Expect string      `yaml:"expect,omitempty" toml:"expect,omitempty"`
}

// String renders the step the way it is echoed during replay.
func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Op)
	if s.Box != "" {
		fmt.Fprintf(&b, " %q", s.Box)
	}
	if s.Mode != "" {
		b.WriteString(" " + s.Mode)
	}
	if s.At != nil {
		fmt.Fprintf(&b, " @(%.2f, %.2f, %.2f)", s.At.X, s.At.Y, s.At.Z)
	}
	return b.String()
}

// LoadScenario reads a scenario from a .yaml, .yml or .toml file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	sc, err := ParseScenario(data, format)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario. format is "yaml", "yml" or "toml".
func ParseScenario(data []byte, format string) (Scenario, error) {
	var sc Scenario
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &sc); err != nil {
			return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
		}
	default:
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if sc.Mode == "" {
		sc.Mode = ModePallet
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks modes, container overrides and every step.
func (sc Scenario) Validate() error {
	if !validMode(sc.Mode) {
		return fmt.Errorf("unknown mode %q", sc.Mode)
	}
	for _, c := range []*model.ContainerSpec{sc.Pallet, sc.Truck} {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for i, b := range sc.Boxes {
		if _, err := model.NewItem(b.Label, b.Width, b.Height, b.Depth); err != nil {
			return fmt.Errorf("box %d: %w", i+1, err)
		}
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpPlaceContainer, OpGenerate, OpPreview, OpPlace, OpCycleColumn, OpDiscard, OpReset:
	case OpRemove, OpReposition, OpMark:
		if s.Box == "" {
			return fmt.Errorf("%s needs a box label", s.Op)
		}
	case OpSwitchMode:
		if !validMode(s.Mode) {
			return fmt.Errorf("switch_mode needs mode pallet or truck, got %q", s.Mode)
		}
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	switch s.Expect {
	case ExpectAny, ExpectOK, ExpectFail:
	default:
		return fmt.Errorf("expect must be ok or fail, got %q", s.Expect)
	}
	return nil
}

func validMode(m string) bool {
	return m == ModePallet || m == ModeTruck
}
