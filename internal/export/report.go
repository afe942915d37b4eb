// Package export writes load plans for committed boxes to PDF, QR label
// sheets, XLSX manifests and DXF drawings.
package export

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/piwi3910/StackLoad/internal/engine"
	"github.com/piwi3910/StackLoad/internal/model"
)

// ErrEmptyReport is returned when a report holds no committed boxes.
var ErrEmptyReport = errors.New("no boxes placed to export")

// Load is one container and the boxes committed to it.
type Load struct {
	Spec       model.ContainerSpec
	Placements []model.Placement
	Summary    engine.Summary
}

// Report is a snapshot of one or more loads.
type Report struct {
	Title     string
	CreatedAt time.Time
	Loads     []Load
}

// NewReport snapshots every engine that has a placed container.
func NewReport(title string, engines ...*engine.Engine) Report {
	r := Report{Title: title, CreatedAt: time.Now()}
	for _, e := range engines {
		if e == nil || e.Container() == nil {
			continue
		}
		r.Loads = append(r.Loads, NewLoad(e.Spec(), e.Placements()))
	}
	return r
}

// NewLoad builds a load from a container spec and its placements.
func NewLoad(spec model.ContainerSpec, placements []model.Placement) Load {
	return Load{
		Spec:       spec,
		Placements: placements,
		Summary:    engine.SummarizePlacements(spec, placements),
	}
}

// BoxCount returns the number of boxes across all loads.
func (r Report) BoxCount() int {
	n := 0
	for _, l := range r.Loads {
		n += len(l.Placements)
	}
	return n
}

func (r Report) validate() error {
	if r.BoxCount() == 0 {
		return ErrEmptyReport
	}
	return nil
}

// nonEmpty returns the loads that hold at least one box.
func (r Report) nonEmpty() []Load {
	var out []Load
	for _, l := range r.Loads {
		if len(l.Placements) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// bottomUp returns the placements ordered by elevation, lowest first.
func bottomUp(placements []model.Placement) []model.Placement {
	out := make([]model.Placement, len(placements))
	copy(out, placements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bottom() < out[j].Bottom()
	})
	return out
}

// columnLabel is the 1-based lane name, or "-" on open containers.
func columnLabel(p model.Placement) string {
	if p.Column == model.NoColumn {
		return "-"
	}
	return strconv.Itoa(p.Column + 1)
}

// categoriesHeavyFirst lists the categories in legend order.
var categoriesHeavyFirst = []model.Category{model.CategoryHeavy, model.CategoryMedium, model.CategoryLight}

type totals struct {
	volume      float64
	perCategory map[model.Category]int
}

func reportTotals(r Report) totals {
	t := totals{perCategory: make(map[model.Category]int)}
	for _, l := range r.Loads {
		t.volume += l.Summary.UsedVolume
		for cat, n := range l.Summary.PerCategory {
			t.perCategory[cat] += n
		}
	}
	return t
}
