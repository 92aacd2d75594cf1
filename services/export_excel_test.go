package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleExportData(t *testing.T, title string) ExportData {
	t.Helper()
	items := []LineItem{
		mustItem(t, "Switch", "Hardware", 1, 100),
		mustItem(t, "License", "Software", 1, 50),
		mustItem(t, "Cable", "Hardware", 5, 10),
	}
	for i := range items {
		items[i].ID = string(rune('a' + i))
	}
	return BuildExportData(title, "proj-1", "2025-01-15", items)
}

func TestBuildExportData_GroupsByCategory(t *testing.T) {
	data := sampleExportData(t, "BOM")

	wantIdx := []string{"1", "1.1", "1.2", "2", "2.1"}
	if len(data.Rows) != len(wantIdx) {
		t.Fatalf("expected %d rows, got %d", len(wantIdx), len(data.Rows))
	}
	for i, r := range data.Rows {
		if r.Index != wantIdx[i] {
			t.Errorf("row %d index = %q, want %q", i, r.Index, wantIdx[i])
		}
	}
	if data.Rows[0].Level != 0 || data.Rows[0].Description != "Hardware" {
		t.Errorf("unexpected first row %+v", data.Rows[0])
	}
	if data.Rows[0].Share != 75 {
		t.Errorf("Hardware share = %v, want 75", data.Rows[0].Share)
	}
	if data.Rows[2].Description != "Cable" {
		t.Errorf("items should keep input order within a category, got %q", data.Rows[2].Description)
	}
	if data.Totals.TotalCost != 200 {
		t.Errorf("TotalCost = %v, want 200", data.Totals.TotalCost)
	}
}

func TestGenerateExcel_BasicBOM(t *testing.T) {
	result, err := GenerateExcel(sampleExportData(t, "Test BOM"))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Test BOM" || sheets[1] != "Categories" {
		t.Fatalf("expected sheets [Test BOM Categories], got %v", sheets)
	}

	title, _ := f.GetCellValue(sheets[0], "A1")
	if title != "Test BOM" {
		t.Errorf("expected title 'Test BOM', got %q", title)
	}

	cat, _ := f.GetCellValue(sheets[0], "B5")
	if cat != "Hardware" {
		t.Errorf("B5 = %q, want Hardware", cat)
	}
	item, _ := f.GetCellValue(sheets[0], "B6")
	if item != "  Switch" {
		t.Errorf("B6 = %q, want indented Switch", item)
	}

	name, _ := f.GetCellValue("Categories", "A3")
	if name != "Software" {
		t.Errorf("Categories!A3 = %q, want Software", name)
	}
	share, _ := f.GetCellValue("Categories", "E2")
	if share != "75" {
		t.Errorf("Categories!E2 = %q, want 75", share)
	}
}

func TestGenerateExcel_EmptyItems(t *testing.T) {
	result, err := GenerateExcel(BuildExportData("Empty BOM", "p", "2025-01-15", nil))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}
}

func TestGenerateExcel_SheetNames(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"long title truncated", "This Is A Very Long Title That Exceeds Thirty One Characters", "This Is A Very Long Title That "},
		{"empty title", "", "BOM"},
		{"clashes with category sheet", "Categories", "BOM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := GenerateExcel(ExportData{Title: tt.title, CreatedDate: "2025-01-15"})
			if err != nil {
				t.Fatalf("GenerateExcel() error = %v", err)
			}
			f, err := excelize.OpenReader(bytes.NewReader(result))
			if err != nil {
				t.Fatalf("result is not valid Excel: %v", err)
			}
			defer f.Close()
			if got := f.GetSheetName(0); got != tt.want {
				t.Errorf("sheet name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"normal text", "Hello", "Hello"},
		{"starts with equals", "=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"starts with plus", "+1234", "'+1234"},
		{"starts with minus", "-100", "'-100"},
		{"starts with at", "@import", "'@import"},
		{"starts with tab", "\tdata", "'\tdata"},
		{"starts with pipe", "|command", "'|command"},
		{"starts with carriage return", "\rdata", "'\rdata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeExcelCell(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThinBorders(t *testing.T) {
	borders := thinBorders()
	if len(borders) != 4 {
		t.Errorf("thinBorders() returned %d borders, want 4", len(borders))
	}

	sides := map[string]bool{"left": false, "top": false, "bottom": false, "right": false}
	for _, b := range borders {
		sides[b.Type] = true
		if b.Style != 1 {
			t.Errorf("border %s style = %d, want 1 (thin)", b.Type, b.Style)
		}
	}
	for side, found := range sides {
		if !found {
			t.Errorf("missing border side: %s", side)
		}
	}
}
