package engine

import (
	"math"

	"github.com/piwi3910/StackLoad/internal/model"
)

// floorTolerance decides whether a box bottom sits on the container floor.
const floorTolerance = 1e-6

// Summary holds load statistics for one engine.
type Summary struct {
	Container     string
	Count         int
	PerCategory   map[model.Category]int
	UsedVolume    float64 // m³
	FootprintArea float64 // m² covered by boxes standing on the floor
	FloorArea     float64 // m² of usable loading surface
	MaxTop        float64 // tallest stack, measured from the floor
	PerColumn     []int   // boxes per lane, grid containers only
}

// Coverage returns the share of the floor covered by boxes, in percent.
func (s Summary) Coverage() float64 {
	if s.FloorArea == 0 {
		return 0
	}
	return s.FootprintArea / s.FloorArea * 100.0
}

// Summarize computes load statistics for the committed boxes of e.
func Summarize(e *Engine) Summary {
	spec := e.Spec()
	return SummarizePlacements(spec, e.Placements())
}

// SummarizePlacements computes load statistics for a set of placements in a container.
func SummarizePlacements(spec model.ContainerSpec, placements []model.Placement) Summary {
	s := Summary{
		Container:   spec.Name,
		Count:       len(placements),
		PerCategory: make(map[model.Category]int),
		FloorArea:   spec.FloorArea(),
	}
	if spec.Kind == model.KindFixedGrid {
		s.PerColumn = make([]int, len(spec.Columns))
	}

	for _, p := range placements {
		s.PerCategory[p.Item.Category]++
		s.UsedVolume += p.Item.Volume
		if math.Abs(p.Bottom()-spec.FloorHeight) < floorTolerance {
			s.FootprintArea += p.Item.Width * p.Item.Depth
		}
		if top := p.Top() - spec.FloorHeight; top > s.MaxTop {
			s.MaxTop = top
		}
		if p.Column >= 0 && p.Column < len(s.PerColumn) {
			s.PerColumn[p.Column]++
		}
	}
	return s
}
