package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Categories"

// GenerateExcel creates a workbook with the BOM on the first sheet and the
// category rollup on a second sheet.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars.
	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" || sheetName == summarySheet {
		sheetName = "BOM"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 40, 16, 18, 10, 10, 14, 10, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	moneyFmt := "$#,##0.00"
	categoryStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 10},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"#EBEBEB"}, Pattern: 1},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create category style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-2) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A2", "Date: "+data.CreatedDate)
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// ── Row 4: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Description", "Part #", "Vendor", "Qty", "Unit", "Unit Price", "Margin %", "Total Cost", "Total Sell"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"4", h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	// ── Data Rows (starting row 5) ──────────────────────────────────────

	row := 5
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		desc := r.Description
		if r.Level == 1 {
			desc = "  " + desc
		}
		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(desc))
		f.SetCellValue(sheetName, "E"+rowStr, r.Qty)
		f.SetCellValue(sheetName, "I"+rowStr, RoundMoney(r.TotalCost))
		f.SetCellValue(sheetName, "J"+rowStr, RoundMoney(r.TotalSell))

		style := categoryStyle
		if r.Level == 1 {
			style = itemStyle
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.PartNumber))
			f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.Vendor))
			f.SetCellValue(sheetName, "F"+rowStr, r.Unit)
			f.SetCellValue(sheetName, "G"+rowStr, r.UnitPrice)
			f.SetCellValue(sheetName, "H"+rowStr, r.MarginPercent)
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++
	summary := []struct {
		label string
		value float64
	}{
		{"Total Cost:", data.Totals.TotalCost},
		{"Total Sell:", data.Totals.TotalSell},
		{fmt.Sprintf("Margin (%.1f%%):", data.Totals.MarginPercent), data.Totals.Margin},
	}
	for _, s := range summary {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "I"+rowStr, s.label)
		f.SetCellStyle(sheetName, "I"+rowStr, "I"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "J"+rowStr, RoundMoney(s.value))
		f.SetCellStyle(sheetName, "J"+rowStr, "J"+rowStr, summaryValueStyle)
		row++
	}

	if err := writeCategorySheet(f, data.Categories, headerStyle, itemStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// writeCategorySheet adds the per-category rollup: item count, cost, sell and
// share of total cost.
func writeCategorySheet(f *excelize.File, categories []CategorySummary, headerStyle, rowStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create category sheet: %w", err)
	}
	widths := map[string]float64{"A": 30, "B": 12, "C": 16, "D": 16, "E": 12}
	for col, w := range widths {
		if err := f.SetColWidth(summarySheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headers := []string{"Category", "Items", "Total Cost", "Total Sell", "% of Total"}
	for i, h := range headers {
		f.SetCellValue(summarySheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	f.SetCellStyle(summarySheet, "A1", "E1", headerStyle)

	for i, c := range categories {
		r := fmt.Sprintf("%d", i+2)
		f.SetCellValue(summarySheet, "A"+r, sanitizeExcelCell(c.Name))
		f.SetCellValue(summarySheet, "B"+r, c.ItemCount)
		f.SetCellValue(summarySheet, "C"+r, RoundMoney(c.TotalCost))
		f.SetCellValue(summarySheet, "D"+r, RoundMoney(c.TotalSell))
		f.SetCellValue(summarySheet, "E"+r, RoundMoney(c.PercentageOfTotal))
		f.SetCellStyle(summarySheet, "A"+r, "D"+r, rowStyle)
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
