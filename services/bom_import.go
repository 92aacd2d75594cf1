package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TemplateField describes one column in the BOM import template.
type TemplateField struct {
	Key          string // matches the line item field it fills
	Label        string // header shown in the sheet
	Description  string // shown on the Instructions sheet
	ExampleValue string
	Required     bool
}

// BOMTemplateFields returns the ordered import columns.
func BOMTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "description", Label: "Description", Description: "What is being supplied", ExampleValue: "24-port PoE switch", Required: true},
		{Key: "category", Label: "Category", Description: "BOM category; new names start a new group", ExampleValue: "Hardware", Required: true},
		{Key: "quantity", Label: "Quantity", Description: "Zero or more; decimals allowed", ExampleValue: "2"},
		{Key: "unit", Label: "Unit", Description: "Unit of measure (select from dropdown)", ExampleValue: "Each"},
		{Key: "unit_price", Label: "Unit Price", Description: "Cost per unit, no currency symbol", ExampleValue: "450.00"},
		{Key: "margin_percent", Label: "Margin %", Description: "0 to 99.99; blank uses the default", ExampleValue: "35"},
		{Key: "vendor", Label: "Vendor", Description: "Supplier name", ExampleValue: "Acme Networks"},
		{Key: "part_number", Label: "Part Number", Description: "Vendor part number", ExampleValue: "SW-24P"},
		{Key: "manufacturer", Label: "Manufacturer", Description: "Manufacturer name", ExampleValue: "Acme"},
		{Key: "model_number", Label: "Model Number", Description: "Manufacturer model", ExampleValue: "X24"},
		{Key: "notes", Label: "Notes", Description: "Free text", ExampleValue: ""},
	}
}

// RowError is a single field-level problem on one uploaded row.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded BOM file.
type ImportResult struct {
	TotalRows int        `json:"total_rows"`
	ValidRows int        `json:"valid_rows"`
	ErrorRows int        `json:"error_rows"`
	Errors    []RowError `json:"errors"`
	Items     []LineItem `json:"-"`
	FileName  string     `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns one key per column ("" when unrecognized) and the unrecognized headers.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// The template marks required columns with a trailing " *".
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseBOMFile parses an uploaded .csv or .xlsx file into priced line items.
// Rows with problems are reported in Errors and left out of Items.
func ParseBOMFile(file io.Reader, fileName string) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := BOMTemplateFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)
	for _, f := range fields {
		if f.Required && !containsString(columnKeys, f.Key) {
			return nil, fmt.Errorf("missing required column %q", f.Label)
		}
	}

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ImportResult{FileName: fileName}
	errorRowSet := make(map[int]bool)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row

		rowData := make(map[string]string)
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[colIdx])
			rowData[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		item, rowErrors := lineItemFromRow(rowNum, rowData, keyToLabel)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			errorRowSet[rowNum] = true
			continue
		}
		result.Items = append(result.Items, item)
	}

	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

func lineItemFromRow(rowNum int, data map[string]string, labels map[string]string) (LineItem, []RowError) {
	var errs []RowError
	number := func(key string, fallback float64) float64 {
		n, err := ParseOptionalNumber(data[key])
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, Field: labels[key], Message: fmt.Sprintf("%s must be a number", labels[key])})
			return 0
		}
		if !n.Valid {
			return fallback
		}
		return n.Value
	}

	unit, _ := NormalizeUnit(data["unit"])
	item := LineItem{
		Description:   data["description"],
		Category:      data["category"],
		Quantity:      number("quantity", 0),
		Unit:          unit,
		UnitPrice:     number("unit_price", 0),
		MarginPercent: number("margin_percent", DefaultMarginPercent),
		Vendor:        data["vendor"],
		PartNumber:    data["part_number"],
		Manufacturer:  data["manufacturer"],
		ModelNumber:   data["model_number"],
		Notes:         data["notes"],
	}
	if len(errs) > 0 {
		return LineItem{}, errs
	}

	if err := ValidateLineItem(item); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			label := importLabel(vErr.Field, labels)
			return LineItem{}, []RowError{{Row: rowNum, Field: label, Message: label + " " + vErr.Message}}
		}
		return LineItem{}, []RowError{{Row: rowNum, Message: err.Error()}}
	}

	priced, err := item.Priced()
	if err != nil {
		return LineItem{}, []RowError{{Row: rowNum, Message: err.Error()}}
	}
	return priced, nil
}

// importLabel maps validation field names to template column labels.
func importLabel(field string, labels map[string]string) string {
	if field == "category_name" {
		field = "category"
	}
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(rowErrors []RowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range rowErrors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateBOMTemplate creates a downloadable .xlsx import template with a unit
// dropdown and a hidden Instructions sheet.
func GenerateBOMTemplate() ([]byte, error) {
	fields := BOMTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "BOM"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"
		header := field.Label
		style := optionalHeaderStyle
		if field.Required {
			header += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)

		if field.Key == "unit" {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
			dv.SetDropList(UnitOptions)
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

func addInstructionsSheet(f *excelize.File, fields []TemplateField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Bill of Materials Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(4)
	for i, h := range []string{"Field Name", "Required?", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}
	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		req := "Optional"
		if field.Required {
			req = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, req)
		f.SetCellValue(instSheet, cols[2]+row, field.Description)
		f.SetCellValue(instSheet, cols[3]+row, field.ExampleValue)
	}
	for i, w := range []float64{20, 12, 45, 25} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
