package importer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Label,Width,Height,Depth\nCrate,0.3,0.2,0.3\nTote,0.4,0.3,0.2\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Label;Width;Height;Depth\nCrate;0,3;0,2;0,3\nTote;0,4;0,3;0,2\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Label\tWidth\tHeight\tDepth\nCrate\t0.3\t0.2\t0.3\nTote\t0.4\t0.3\t0.2\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Label|Width|Height|Depth\nCrate|0.3|0.2|0.3\nTote|0.4|0.3|0.2\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Width", "Height", "Depth", "Quantity", "Unit"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Label: 0, Width: 1, Height: 2, Depth: 3, Quantity: 4, Unit: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"SKU", "W", "H", "Length", "Pcs", "UOM"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	want := ColumnMapping{Label: 0, Width: 1, Height: 2, Depth: 3, Quantity: 4, Unit: 5}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_ReorderedColumns(t *testing.T) {
	row := []string{"Depth", "Qty", "Height", "Width", "Name"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Depth != 0 || mapping.Quantity != 1 || mapping.Height != 2 || mapping.Width != 3 || mapping.Label != 4 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Unit != -1 {
		t.Errorf("expected no unit column, got %d", mapping.Unit)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"Crate", "0.3", "0.2", "0.3"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header to be detected")
	}
	if mapping.Width != 1 || mapping.Depth != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Depth\nCrate,0.3,0.2,0.3\nTote,0.4,0.3,0.2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(result.Boxes))
	}
	if result.Boxes[0].Label != "Crate" {
		t.Errorf("expected label Crate, got %s", result.Boxes[0].Label)
	}
	if !approx(result.Boxes[1].Height, 0.3) {
		t.Errorf("expected height 0.3, got %f", result.Boxes[1].Height)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Crate,0.3,0.2,0.3\nTote,0.4,0.3,0.2,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(result.Boxes))
	}
}

func TestImportCSVFromReader_QuantityExpandsRows(t *testing.T) {
	data := "Label,Width,Height,Depth,Qty\nTote,0.4,0.3,0.2,3\n,0.2,0.2,0.2,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 5 {
		t.Fatalf("expected 5 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	for i, want := range []string{"Tote-1", "Tote-2", "Tote-3", "", ""} {
		if result.Boxes[i].Label != want {
			t.Errorf("box %d: expected label %q, got %q", i, want, result.Boxes[i].Label)
		}
	}
}

func TestImportCSVFromReader_Units(t *testing.T) {
	data := "Label,Width,Height,Depth,Unit\nA,300,200,300,mm\nB,20,20,20,cm\nC,0.1,0.1,0.1,\nD,1,1,1,furlong\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 4 {
		t.Fatalf("expected 4 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	if !approx(result.Boxes[0].Width, 0.3) {
		t.Errorf("expected 300 mm = 0.3 m, got %f", result.Boxes[0].Width)
	}
	if !approx(result.Boxes[1].Depth, 0.2) {
		t.Errorf("expected 20 cm = 0.2 m, got %f", result.Boxes[1].Depth)
	}
	if !approx(result.Boxes[2].Height, 0.1) {
		t.Errorf("expected meters by default, got %f", result.Boxes[2].Height)
	}
	if !approx(result.Boxes[3].Width, 1) {
		t.Errorf("unknown unit should fall back to meters, got %f", result.Boxes[3].Width)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "furlong") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning about the unknown unit, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
	if result.Err() == nil {
		t.Error("expected Err() to report the failure")
	}
}

func TestImportCSVFromReader_InvalidWidth(t *testing.T) {
	data := "Label,Width,Height,Depth\nCrate,abc,0.2,0.3\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0], "Invalid width") {
		t.Errorf("expected invalid width error, got %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_NonPositiveValues(t *testing.T) {
	for _, row := range []string{
		"Crate,-0.3,0.2,0.3",
		"Crate,0.3,0,0.3",
		"Crate,0.3,0.2,0.3,0",
	} {
		data := "Label,Width,Height,Depth,Qty\n" + row + "\n"
		result := ImportCSVFromReader(strings.NewReader(data), ',')
		if len(result.Errors) == 0 {
			t.Errorf("expected error for %q", row)
		}
		if len(result.Boxes) != 0 {
			t.Errorf("expected no boxes for %q, got %d", row, len(result.Boxes))
		}
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Width,Height,Depth\nA,0.3,0.2,0.3\nB,x,0.2,0.3\nC,0.2,0.2,0.2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 2 {
		t.Errorf("expected 2 valid boxes, got %d", len(result.Boxes))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0], "Line 3") {
		t.Errorf("expected error to name line 3, got %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	data := "Label,Width,Height,Depth\nA,0.3,0.2,0.3\n,,,\nB,0.2,0.2,0.2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 2 {
		t.Errorf("expected 2 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Label,Width,Height\nA,0.3,0.2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing depth column")
	}
	if !strings.Contains(result.Errors[0], "Depth") {
		t.Errorf("expected error to mention Depth, got %s", result.Errors[0])
	}
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	data := "Label,Width,Height,Depth\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 0 {
		t.Errorf("expected 0 boxes for header-only file, got %d", len(result.Boxes))
	}
	if result.Err() != nil {
		t.Errorf("header-only file is not an error: %v", result.Err())
	}
}

func TestImportCSVFromReader_WhitespaceInValues(t *testing.T) {
	data := "Label , Width , Height , Depth\n Crate , 0.3 , 0.2 , 0.3 \n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	if result.Boxes[0].Label != "Crate" {
		t.Errorf("expected trimmed label, got %q", result.Boxes[0].Label)
	}
}

// ─── ImportCSV File Tests ──────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.csv")
	content := "Label;Width;Height;Depth\nA;0.3;0.2;0.3\nB;0.2;0.2;0.2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result := Import(path)

	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Errors) == 0 || result.Errors[0] != "File is empty" {
		t.Errorf("expected 'File is empty' error, got %v", result.Errors)
	}
}

// ─── ImportExcel Tests ─────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "boxes.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cellRef, val); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Depth", "Qty"},
		{"Crate", 0.3, 0.2, 0.3, 2},
		{"Tote", 0.4, 0.3, 0.2, 1},
	})

	result := Import(path)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(result.Boxes))
	}
	if result.Boxes[0].Label != "Crate-1" {
		t.Errorf("expected Crate-1, got %s", result.Boxes[0].Label)
	}
	if !approx(result.Boxes[2].Width, 0.4) {
		t.Errorf("expected width 0.4, got %f", result.Boxes[2].Width)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Crate", 0.3, 0.2, 0.3},
		{"Tote", 0.4, 0.3, 0.2},
	})

	result := ImportExcel(path)

	if len(result.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d (errors: %v)", len(result.Boxes), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Height", "Depth"},
		{"Crate", "abc", 0.2, 0.3},
	})

	result := ImportExcel(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid width")
	}
}

// ─── parseUnit Tests ───────────────────────────────────────

func TestParseUnit(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"", 1, true},
		{"m", 1, true},
		{"Meters", 1, true},
		{"cm", 0.01, true},
		{" MM ", 0.001, true},
		{"in", 0.0254, true},
		{"ft", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scale, ok := parseUnit(tt.input)
			if !approx(scale, tt.expected) {
				t.Errorf("parseUnit(%q): expected %v, got %v", tt.input, tt.expected, scale)
			}
			if ok != tt.ok {
				t.Errorf("parseUnit(%q): expected ok=%v, got %v", tt.input, tt.ok, ok)
			}
		})
	}
}
