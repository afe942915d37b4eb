package engine

import (
	"github.com/piwi3910/StackLoad/internal/model"
)

// Target is where a candidate box is aimed, in container-local coordinates.
// Open-footprint layouts read X and Z; grid layouts read Column.
type Target struct {
	X, Z   float64
	Column int
}

// Resolution is a candidate box at its computed resting position.
type Resolution struct {
	Placement model.Placement
	Support   *model.Placement // nil when the box rests on the floor
}

// SupportItem returns the supporting box, or nil for the floor.
func (r Resolution) SupportItem() *model.Item {
	if r.Support == nil {
		return nil
	}
	it := r.Support.Item
	return &it
}

// Layout is the placement strategy of a container kind. Implementations are
// pure: the same committed set and target always resolve to the same result.
type Layout interface {
	// Resolve finds where item comes to rest when aimed at target.
	Resolve(placements []model.Placement, item model.Item, target Target) Resolution
	// Blockers returns the committed boxes that rest on top of target.
	Blockers(placements []model.Placement, target model.Placement) []model.Placement
}

// openLayout lets boxes sit anywhere inside the rectangular bounds. A box
// rests on the highest committed box whose footprint overlaps its own.
type openLayout struct {
	spec model.ContainerSpec
}

func (l openLayout) Resolve(placements []model.Placement, item model.Item, target Target) Resolution {
	x, z := clampFootprint(l.spec, item, target.X, target.Z)

	var support *model.Placement
	for i := range placements {
		p := placements[i]
		if !model.FootprintsOverlap(x, z, item.HalfWidth(), item.HalfDepth(),
			p.X, p.Z, p.Item.HalfWidth(), p.Item.HalfDepth()) {
			continue
		}
		if support == nil || p.Top() > support.Top() {
			sp := p
			support = &sp
		}
	}

	base := l.spec.FloorHeight
	if support != nil {
		base = support.Top()
	}

	return Resolution{
		Placement: model.Placement{
			Item:   item,
			X:      x,
			Y:      base + item.HalfHeight(),
			Z:      z,
			Column: model.NoColumn,
		},
		Support: support,
	}
}

func (l openLayout) Blockers(placements []model.Placement, target model.Placement) []model.Placement {
	var above []model.Placement
	for _, p := range placements {
		if p.Item.ID == target.Item.ID {
			continue
		}
		if p.Y > target.Y && p.Overlaps(target) {
			above = append(above, p)
		}
	}
	return above
}

// gridLayout stacks boxes in fixed lanes. Each lane is the bottom-to-top
// sequence of committed boxes carrying its column index.
type gridLayout struct {
	spec model.ContainerSpec
}

func (l gridLayout) column(idx int) int {
	n := len(l.spec.Columns)
	return ((idx % n) + n) % n
}

// stack returns the boxes of a column, bottom first.
func (l gridLayout) stack(placements []model.Placement, col int) []model.Placement {
	var lane []model.Placement
	for _, p := range placements {
		if p.Column == col {
			lane = append(lane, p)
		}
	}
	return lane
}

func (l gridLayout) Resolve(placements []model.Placement, item model.Item, target Target) Resolution {
	col := l.column(target.Column)
	center := l.spec.Columns[col]
	lane := l.stack(placements, col)

	base := l.spec.FloorHeight
	for _, p := range lane {
		base += p.Item.Height
	}

	var support *model.Placement
	if len(lane) > 0 {
		top := lane[len(lane)-1]
		support = &top
	}

	return Resolution{
		Placement: model.Placement{
			Item:   item,
			X:      center.X,
			Y:      base + item.HalfHeight(),
			Z:      center.Z,
			Column: col,
		},
		Support: support,
	}
}

func (l gridLayout) Blockers(placements []model.Placement, target model.Placement) []model.Placement {
	var above []model.Placement
	for _, p := range l.stack(placements, target.Column) {
		if p.Item.ID != target.Item.ID && p.Y > target.Y {
			above = append(above, p)
		}
	}
	return above
}
