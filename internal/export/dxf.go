package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/StackLoad/internal/model"
)

// DXF layer names.
const (
	layerContainer = "CONTAINER"
	layerColumns   = "COLUMNS"
	layerLabels    = "LABELS"
)

// loadGap separates consecutive loads along x, in meters.
const loadGap = 0.5

// textHeight is the label height in drawing units (meters).
const textHeight = 0.03

// categoryLayers maps categories to their DXF layer and ACI color.
var categoryLayers = map[model.Category]struct {
	name  string
	color color.ColorNumber
}{
	model.CategoryHeavy:  {"BOX_HEAVY", color.Red},
	model.CategoryMedium: {"BOX_MEDIUM", color.Yellow},
	model.CategoryLight:  {"BOX_LIGHT", color.Green},
}

// ExportDXF writes a top-down plan of every load: the container outline, the
// lane centers of grid containers and each box footprint on its category
// layer. Drawing units are meters; drawing y is the container's -z axis so the
// plan reads like the PDF top view. Loads are placed side by side.
func ExportDXF(path string, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(layerContainer, color.White, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.AddLayer(layerColumns, color.Cyan, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if _, err := d.AddLayer(layerLabels, color.White, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	for _, cat := range categoriesHeavyFirst {
		l := categoryLayers[cat]
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer: %w", err)
		}
	}

	originX := 0.0
	for _, load := range report.nonEmpty() {
		if err := drawLoadDXF(d, load, originX); err != nil {
			return fmt.Errorf("%s: %w", load.Spec.Name, err)
		}
		originX += 2*load.Spec.HalfWidth + loadGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

// drawLoadDXF draws one load with its left edge at originX.
func drawLoadDXF(d *drawing.Drawing, load Load, originX float64) error {
	spec := load.Spec
	cx := originX + spec.HalfWidth
	toDrawing := func(x, z float64) (float64, float64) {
		return cx + x, -z
	}

	if err := d.ChangeLayer(layerContainer); err != nil {
		return err
	}
	x0, y0 := toDrawing(-spec.HalfWidth, -spec.HalfDepth)
	x1, y1 := toDrawing(spec.HalfWidth, spec.HalfDepth)
	if err := rectDXF(d, x0, y0, x1, y1); err != nil {
		return err
	}

	if spec.Kind == model.KindFixedGrid {
		if err := d.ChangeLayer(layerColumns); err != nil {
			return err
		}
		for _, c := range spec.Columns {
			lx, ly0 := toDrawing(c.X, -spec.HalfDepth)
			_, ly1 := toDrawing(c.X, spec.HalfDepth)
			if _, err := d.Line(lx, ly0, 0, lx, ly1, 0); err != nil {
				return err
			}
		}
	}

	for _, p := range bottomUp(load.Placements) {
		if err := d.ChangeLayer(categoryLayers[p.Item.Category].name); err != nil {
			return err
		}
		bx0, by0 := toDrawing(p.X-p.Item.HalfWidth(), p.Z-p.Item.HalfDepth())
		bx1, by1 := toDrawing(p.X+p.Item.HalfWidth(), p.Z+p.Item.HalfDepth())
		if err := rectDXF(d, bx0, by0, bx1, by1); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(layerLabels); err != nil {
		return err
	}
	tx, ty := toDrawing(-spec.HalfWidth, -spec.HalfDepth)
	if _, err := d.Text(strings.ToUpper(spec.Name), tx, ty+2*textHeight, 0, 1.5*textHeight); err != nil {
		return err
	}
	for _, p := range load.Placements {
		lx, ly := toDrawing(p.X-p.Item.HalfWidth()+textHeight/2, p.Z)
		if _, err := d.Text(p.Item.Label, lx, ly, 0, textHeight); err != nil {
			return err
		}
	}
	return nil
}

// rectDXF draws an axis-aligned rectangle from four lines on the current layer.
func rectDXF(d *drawing.Drawing, x0, y0, x1, y1 float64) error {
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
