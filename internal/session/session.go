// Package session switches between the pallet engine and the truck engine
// and forwards input to whichever one is active.
package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/StackLoad/internal/engine"
	"github.com/piwi3910/StackLoad/internal/model"
)

// Mode selects the active engine.
type Mode int

const (
	ModePallet Mode = iota
	ModeTruck
)

func (m Mode) String() string {
	if m == ModeTruck {
		return "truck"
	}
	return "pallet"
}

// ParseMode converts "pallet" or "truck" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pallet":
		return ModePallet, nil
	case "truck":
		return ModeTruck, nil
	default:
		return ModePallet, fmt.Errorf("unknown mode %q", s)
	}
}

// Context holds the two engines and the active mode. Only the active engine
// receives preview input.
type Context struct {
	Pallet *engine.Engine
	Truck  *engine.Engine

	mode   Mode
	logger *log.Logger
}

// New creates a context with a pallet engine and a truck engine built from
// settings. Both engines draw boxes from the same source.
func New(settings model.Settings, source engine.ItemSource, logger *log.Logger) (*Context, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Context{
		Pallet: engine.New(settings.Pallet, source, logger.WithPrefix("pallet")),
		Truck:  engine.New(settings.Truck, source, logger.WithPrefix("truck")),
		mode:   ModePallet,
		logger: logger,
	}, nil
}

// Mode returns the active mode.
func (c *Context) Mode() Mode {
	return c.mode
}

// Engine returns the engine for a mode.
func (c *Context) Engine(m Mode) *engine.Engine {
	if m == ModeTruck {
		return c.Truck
	}
	return c.Pallet
}

// Active returns the engine receiving input.
func (c *Context) Active() *engine.Engine {
	return c.Engine(c.mode)
}

// SwitchMode activates another engine. The box in hand of the engine being
// left is discarded; committed boxes stay where they are.
func (c *Context) SwitchMode(m Mode) engine.Result {
	if m == c.mode {
		return engine.Result{Success: true, Message: fmt.Sprintf("Already in %s mode", m), Count: c.Active().Count()}
	}
	left := c.Active()
	if _, ok := left.Pending(); ok {
		c.logger.Debug("mode switch drops box in hand", "mode", c.mode)
	}
	left.Discard()
	c.mode = m
	c.logger.Info("mode switched", "mode", m)
	return engine.Result{
		Success: true,
		Message: fmt.Sprintf("Switched to %s mode", m),
		Count:   c.Active().Count(),
	}
}

// Tick forwards this frame's hit-test result to the active engine. A nil hit
// means nothing was detected.
func (c *Context) Tick(hit *model.Vec3) {
	c.Active().Preview(hit)
}

// PlaceContainer places the active engine's container.
func (c *Context) PlaceContainer(anchor *model.Vec3) engine.Result {
	return c.Active().PlaceContainer(anchor)
}

// Generate puts a new box in hand on the active engine.
func (c *Context) Generate() (model.Item, engine.Result) {
	return c.Active().GenerateItem()
}

// Place commits the box in hand on the active engine.
func (c *Context) Place(anchor *model.Vec3) engine.Result {
	return c.Active().Place(anchor)
}

// Remove removes a committed box from the active engine.
func (c *Context) Remove(id string) engine.Result {
	return c.Active().Remove(id)
}

// Reposition picks a committed box back up on the active engine.
func (c *Context) Reposition(id string) engine.Result {
	return c.Active().Reposition(id)
}

// Mark targets a committed box on the active engine for removal.
func (c *Context) Mark(id string) engine.Result {
	return c.Active().MarkForRemoval(id)
}

// CycleColumn advances the lane of the active engine.
func (c *Context) CycleColumn() (int, engine.Result) {
	return c.Active().CycleColumn()
}

// Discard drops the box in hand on the active engine.
func (c *Context) Discard() {
	c.Active().Discard()
}

// Reset clears the active engine.
func (c *Context) Reset() engine.Result {
	return c.Active().Reset()
}

// Count returns the committed count of the active engine.
func (c *Context) Count() int {
	return c.Active().Count()
}

// Lookup finds a committed box on the active engine by id or label.
func (c *Context) Lookup(ref string) (model.Placement, bool) {
	e := c.Active()
	if p, ok := e.Find(ref); ok {
		return p, true
	}
	return e.FindByLabel(ref)
}
