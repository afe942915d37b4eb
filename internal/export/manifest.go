package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/StackLoad/internal/model"
)

const (
	manifestSheet = "Manifest"
	summarySheet  = "Summary"
)

var manifestHeaders = []string{
	"Container", "Box", "ID", "Category",
	"Width (m)", "Height (m)", "Depth (m)", "Volume (m³)",
	"X (m)", "Y (m)", "Z (m)", "Column", "Top (m)",
}

var summaryHeaders = []string{
	"Container", "Kind", "Boxes", "Heavy", "Medium", "Light",
	"Volume (m³)", "Floor coverage (%)", "Tallest stack (m)", "Per column",
}

// ExportManifest writes an XLSX workbook with a "Manifest" sheet (one row per
// box, bottom-up per container) and a "Summary" sheet (one row per container).
func ExportManifest(path string, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), manifestSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	categoryStyles := make(map[model.Category]int, len(categoriesHeavyFirst))
	for _, cat := range categoriesHeavyFirst {
		col := cat.Color()
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{hexColor(col)}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create category style: %w", err)
		}
		categoryStyles[cat] = id
	}

	if err := writeRow(f, manifestSheet, 1, toCells(manifestHeaders)); err != nil {
		return err
	}
	if err := styleRow(f, manifestSheet, 1, len(manifestHeaders), headerStyle); err != nil {
		return err
	}

	row := 2
	for _, load := range report.nonEmpty() {
		for _, p := range bottomUp(load.Placements) {
			var column interface{} = ""
			if p.Column != model.NoColumn {
				column = p.Column + 1
			}
			cells := []interface{}{
				load.Spec.Name, p.Item.Label, p.Item.ID, p.Item.Category.String(),
				round(p.Item.Width), round(p.Item.Height), round(p.Item.Depth), p.Item.Volume,
				round(p.X), round(p.Y), round(p.Z), column, round(p.Top() - load.Spec.FloorHeight),
			}
			if err := writeRow(f, manifestSheet, row, cells); err != nil {
				return err
			}
			cell, _ := excelize.CoordinatesToCellName(4, row)
			if err := f.SetCellStyle(manifestSheet, cell, cell, categoryStyles[p.Item.Category]); err != nil {
				return fmt.Errorf("failed to style category cell: %w", err)
			}
			row++
		}
	}

	if err := writeRow(f, summarySheet, 1, toCells(summaryHeaders)); err != nil {
		return err
	}
	if err := styleRow(f, summarySheet, 1, len(summaryHeaders), headerStyle); err != nil {
		return err
	}
	for i, load := range report.Loads {
		s := load.Summary
		cells := []interface{}{
			load.Spec.Name, kindName(load.Spec.Kind), s.Count,
			s.PerCategory[model.CategoryHeavy], s.PerCategory[model.CategoryMedium], s.PerCategory[model.CategoryLight],
			s.UsedVolume, round(s.Coverage()), round(s.MaxTop), perColumn(s.PerColumn),
		}
		if err := writeRow(f, summarySheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, v := range cells {
		ref, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, ref, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// perColumn renders lane counts as "3 / 0 / 1".
func perColumn(counts []int) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " / ")
}

// round keeps manifest values at millimetre precision.
func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func hexColor(c model.RGB) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
