package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/StackLoad/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	paneGap      = 12.0
	drawAreaTop  = marginTop + headerHeight + 10.0
)

// palletColor is the deck/bed background.
var palletColor = model.RGB{R: 210, G: 180, B: 140}

// ExportPDF generates a PDF load plan. Each load gets a page with a top view
// and a side view, followed by a summary page.
func ExportPDF(path string, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, load := range report.nonEmpty() {
		pdf.AddPage()
		renderLoadPage(pdf, load, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report)

	return pdf.OutputFileAndClose(path)
}

// renderLoadPage draws a single load on the current PDF page.
func renderLoadPage(pdf *fpdf.Fpdf, load Load, loadNum int) {
	spec := load.Spec
	s := load.Summary

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Load %d: %s (%.2f x %.2f m, %s)", loadNum, spec.Name, 2*spec.HalfWidth, 2*spec.HalfDepth, kindName(spec.Kind))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes: %d | Volume: %.3f m3 | Floor coverage: %.1f%% | Tallest stack: %.2f m",
		s.Count, s.UsedVolume, s.Coverage(), s.MaxTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	paneW := (pageWidth - marginLeft - marginRight - paneGap) / 2
	paneH := pageHeight - drawAreaTop - marginBottom - legendHeight

	drawTopView(pdf, load, marginLeft, drawAreaTop, paneW, paneH)
	drawSideView(pdf, load, marginLeft+paneW+paneGap, drawAreaTop, paneW, paneH)

	drawCategoryLegend(pdf, s.PerCategory, pageHeight-marginBottom-legendHeight+8)
}

// drawTopView renders the footprints seen from above, x to the right and z down the page.
func drawTopView(pdf *fpdf.Fpdf, load Load, x0, y0, w, h float64) {
	spec := load.Spec
	paneCaption(pdf, "Top view", x0, y0-6)

	worldW, worldH := 2*spec.HalfWidth, 2*spec.HalfDepth
	scale := math.Min(w/worldW, h/worldH)
	canvasW, canvasH := worldW*scale, worldH*scale
	offX := x0 + (w-canvasW)/2
	offY := y0

	pdf.SetFillColor(palletColor.R, palletColor.G, palletColor.B)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offX, offY, canvasW, canvasH, "FD")

	toPage := func(x, z float64) (float64, float64) {
		return offX + (x+spec.HalfWidth)*scale, offY + (z+spec.HalfDepth)*scale
	}

	// Lane markers
	if spec.Kind == model.KindFixedGrid {
		pdf.SetDrawColor(120, 90, 60)
		pdf.SetLineWidth(0.2)
		pdf.SetDashPattern([]float64{1.5, 1.5}, 0)
		for i, c := range spec.Columns {
			px, _ := toPage(c.X, 0)
			pdf.Line(px, offY, px, offY+canvasH)
			pdf.SetFont("Helvetica", "", 7)
			pdf.SetTextColor(120, 90, 60)
			lbl := fmt.Sprintf("col %d", i+1)
			lw := pdf.GetStringWidth(lbl)
			pdf.SetXY(px-lw/2, offY+canvasH+1)
			pdf.CellFormat(lw, 3, lbl, "", 0, "C", false, 0, "")
		}
		pdf.SetDashPattern([]float64{}, 0)
	}

	// Lower boxes first so stacked boxes cover their supports
	for _, p := range bottomUp(load.Placements) {
		col := p.Item.Category.Color()
		px, py := toPage(p.X-p.Item.HalfWidth(), p.Z-p.Item.HalfDepth())
		pw, ph := p.Item.Width*scale, p.Item.Depth*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			centerText(pdf, p.Item.Label, px, py+ph/2-4, pw)
			if ph > 12 {
				centerText(pdf, fmt.Sprintf("top %.2f m", p.Top()-spec.FloorHeight), px, py+ph/2, pw)
			}
		}
	}

	drawDimensionAnnotations(pdf, worldW, worldH, offX, offY, canvasW, canvasH)
}

// drawSideView renders the load seen from the front, x to the right and y up the page.
func drawSideView(pdf *fpdf.Fpdf, load Load, x0, y0, w, h float64) {
	spec := load.Spec
	paneCaption(pdf, "Side view", x0, y0-6)

	worldW := 2 * spec.HalfWidth
	worldH := load.Summary.MaxTop
	if spec.MaxStackHeight > worldH {
		worldH = spec.MaxStackHeight
	}
	if worldH <= 0 {
		worldH = 1
	}
	scale := math.Min(w/worldW, h/worldH)
	canvasW, canvasH := worldW*scale, worldH*scale
	offX := x0 + (w-canvasW)/2
	floorY := y0 + canvasH

	toPage := func(x, y float64) (float64, float64) {
		return offX + (x+spec.HalfWidth)*scale, floorY - (y-spec.FloorHeight)*scale
	}

	// Floor line
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.8)
	pdf.Line(offX, floorY, offX+canvasW, floorY)

	if spec.MaxStackHeight > 0 {
		_, limitY := toPage(0, spec.FloorHeight+spec.MaxStackHeight)
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.3)
		pdf.SetDashPattern([]float64{2, 1.5}, 0)
		pdf.Line(offX, limitY, offX+canvasW, limitY)
		pdf.SetDashPattern([]float64{}, 0)

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(offX, limitY-4)
		pdf.CellFormat(40, 3, fmt.Sprintf("limit %.2f m", spec.MaxStackHeight), "", 0, "L", false, 0, "")
	}

	for _, p := range bottomUp(load.Placements) {
		col := p.Item.Category.Color()
		px, py := toPage(p.X-p.Item.HalfWidth(), p.Top())
		pw, ph := p.Item.Width*scale, p.Item.Height*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 5 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			centerText(pdf, p.Item.Label, px, py+ph/2-2, pw)
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

func paneCaption(pdf *fpdf.Fpdf, caption string, x, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(x, y)
	pdf.CellFormat(60, 5, caption, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// centerText writes text centered in a box of width w if it fits.
func centerText(pdf *fpdf.Fpdf, text string, x, y, w float64) {
	tw := pdf.GetStringWidth(text)
	if tw >= w-2 {
		return
	}
	pdf.SetXY(x+(w-tw)/2, y)
	pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
}

// drawDimensionAnnotations adds width and depth labels outside the container outline.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, worldW, worldH, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f m", worldW)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+4)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.2f m", worldH)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawCategoryLegend renders the category swatches with their counts.
func drawCategoryLegend(pdf *fpdf.Fpdf, counts map[model.Category]int, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(22, 4, "Categories:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	xPos := marginLeft + 24
	for _, cat := range categoriesHeavyFirst {
		col := cat.Color()
		label := fmt.Sprintf("%s (%d)", cat, counts[cat])
		labelW := pdf.GetStringWidth(label) + 6

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 4
	}
}

// renderSummaryPage draws the final summary page with overall statistics and
// a row per box.
func renderSummaryPage(pdf *fpdf.Fpdf, report Report) {
	title := report.Title
	if title == "" {
		title = "Load Plan Summary"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	total := reportTotals(report)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Containers Loaded", fmt.Sprintf("%d", len(report.nonEmpty()))},
		{"Total Boxes", fmt.Sprintf("%d", report.BoxCount())},
		{"Total Volume", fmt.Sprintf("%.3f m3", total.volume)},
		{"Heavy / Medium / Light", fmt.Sprintf("%d / %d / %d",
			total.perCategory[model.CategoryHeavy],
			total.perCategory[model.CategoryMedium],
			total.perCategory[model.CategoryLight])},
	}
	if !report.CreatedAt.IsZero() {
		summaryItems = append(summaryItems, struct {
			label string
			value string
		}{"Created", report.CreatedAt.Format("2006-01-02 15:04")})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Box List", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{35, 30, 25, 55, 30, 55, 20, 17}
	headers := []string{"Container", "Box", "Category", "W x H x D (m)", "Volume (m3)", "Position x, y, z (m)", "Column", "Top (m)"}
	drawTableHeader(pdf, colWidths, headers, y)
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	row := 0
	for _, load := range report.nonEmpty() {
		for _, p := range bottomUp(load.Placements) {
			if y > pageHeight-marginBottom-6 {
				pdf.AddPage()
				y = marginTop
				drawTableHeader(pdf, colWidths, headers, y)
				y += 6
				pdf.SetFont("Helvetica", "", 8)
			}
			cells := []string{
				load.Spec.Name,
				p.Item.Label,
				p.Item.Category.String(),
				fmt.Sprintf("%.2f x %.2f x %.2f", p.Item.Width, p.Item.Height, p.Item.Depth),
				fmt.Sprintf("%.4f", p.Item.Volume),
				fmt.Sprintf("%.2f, %.2f, %.2f", p.X, p.Y, p.Z),
				columnLabel(p),
				fmt.Sprintf("%.2f", p.Top()-load.Spec.FloorHeight),
			}
			if row%2 == 0 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			xPos := marginLeft
			for j, cell := range cells {
				pdf.SetXY(xPos, y)
				pdf.CellFormat(colWidths[j], 5, cell, "1", 0, "C", true, 0, "")
				xPos += colWidths[j]
			}
			y += 5
			row++
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StackLoad - container packing planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawTableHeader(pdf *fpdf.Fpdf, colWidths []float64, headers []string, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func kindName(k model.ContainerKind) string {
	if k == model.KindFixedGrid {
		return "fixed grid"
	}
	return "open footprint"
}
