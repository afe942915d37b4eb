package engine

import (
	"fmt"

	"github.com/piwi3910/StackLoad/internal/model"
)

// heightTolerance absorbs float error when comparing a stack top against the limit.
const heightTolerance = 1e-9

// Container is a placed pallet or truck bed. Placements live in its local
// frame, whose origin is the world position the container was placed at.
type Container struct {
	Spec   model.ContainerSpec
	Origin model.Vec3
	layout Layout
}

// NewContainer instantiates a container of the given spec at a world position.
func NewContainer(spec model.ContainerSpec, origin model.Vec3) (*Container, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	spec = spec.Clone()
	c := &Container{Spec: spec, Origin: origin}
	switch spec.Kind {
	case model.KindFixedGrid:
		c.layout = gridLayout{spec: spec}
	case model.KindOpenFootprint:
		c.layout = openLayout{spec: spec}
	default:
		return nil, fmt.Errorf("unsupported container kind %q", spec.Kind)
	}
	return c, nil
}

// Kind returns the container kind.
func (c *Container) Kind() model.ContainerKind {
	return c.Spec.Kind
}

// Layout returns the placement strategy for this container.
func (c *Container) Layout() Layout {
	return c.layout
}

// ToLocal converts a world position into the container frame.
func (c *Container) ToLocal(world model.Vec3) model.Vec3 {
	return world.Sub(c.Origin)
}

// ToWorld converts a container-frame position into world space.
func (c *Container) ToWorld(local model.Vec3) model.Vec3 {
	return local.Add(c.Origin)
}

// Floor returns the local elevation of the loading surface.
func (c *Container) Floor() float64 {
	return c.Spec.FloorHeight
}

// ColumnCount returns the number of stacking lanes (0 for open containers).
func (c *Container) ColumnCount() int {
	return len(c.Spec.Columns)
}

// ExceedsHeight reports whether a placement pokes above the stack height limit.
func (c *Container) ExceedsHeight(p model.Placement) bool {
	if c.Spec.MaxStackHeight <= 0 {
		return false
	}
	return p.Top() > c.Spec.FloorHeight+c.Spec.MaxStackHeight+heightTolerance
}

// clampFootprint moves a footprint center so the whole footprint stays inside
// the usable bounds. A box wider than the container is centered on that axis.
func clampFootprint(spec model.ContainerSpec, item model.Item, x, z float64) (float64, float64) {
	return clampAxis(x, spec.HalfWidth-item.HalfWidth()), clampAxis(z, spec.HalfDepth-item.HalfDepth())
}

func clampAxis(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
