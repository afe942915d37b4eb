package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/StackLoad/internal/model"
)

// LabelInfo holds the data encoded into each box label's QR code.
type LabelInfo struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Category  string  `json:"category"`
	Width     float64 `json:"width_m"`
	Height    float64 `json:"height_m"`
	Depth     float64 `json:"depth_m"`
	Container string  `json:"container"`
	Column    int     `json:"column,omitempty"` // 1-based lane, 0 on open containers
	X         float64 `json:"x_m"`
	Y         float64 `json:"y_m"`
	Z         float64 `json:"z_m"`

	category model.Category
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
	stripeWidth     = 1.5 // category color stripe on the left edge
)

// ExportLabels generates a PDF of QR-coded labels, one per committed box,
// bottom-up per container so labels come off the sheet in loading order.
func ExportLabels(path string, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}
	labels := CollectLabelInfos(report)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	col := info.category.Color()
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Rect(x, y, stripeWidth, labelHeight, "F")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%s", info.Container, info.ID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + stripeWidth + labelPadding
	textW := labelWidth - stripeWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	boxLabel := info.Label
	if pdf.GetStringWidth(boxLabel) > textW {
		for len(boxLabel) > 0 && pdf.GetStringWidth(boxLabel+"...") > textW {
			boxLabel = boxLabel[:len(boxLabel)-1]
		}
		boxLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, boxLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.2f x %.2f x %.2f m", info.Width, info.Height, info.Depth)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(col.R, col.G, col.B)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, info.Category, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+12.5)
	where := fmt.Sprintf("%s @ (%.2f, %.2f, %.2f)", info.Container, info.X, info.Y, info.Z)
	if info.Column > 0 {
		where = fmt.Sprintf("%s col %d @ y %.2f", info.Container, info.Column, info.Y)
	}
	pdf.CellFormat(textW, 3, where, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a report
// for use in testing or alternative export formats.
func CollectLabelInfos(report Report) []LabelInfo {
	var labels []LabelInfo
	for _, load := range report.Loads {
		for _, p := range bottomUp(load.Placements) {
			info := LabelInfo{
				ID:        p.Item.ID,
				Label:     p.Item.Label,
				Category:  p.Item.Category.String(),
				Width:     p.Item.Width,
				Height:    p.Item.Height,
				Depth:     p.Item.Depth,
				Container: load.Spec.Name,
				X:         p.X,
				Y:         p.Y,
				Z:         p.Z,
				category:  p.Item.Category,
			}
			if p.Column != model.NoColumn {
				info.Column = p.Column + 1
			}
			labels = append(labels, info)
		}
	}
	return labels
}
