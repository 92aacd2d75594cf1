package services

import "fmt"

// ExportRow is a single row in the BOM export: a category header or an item.
type ExportRow struct {
	Level         int    // 0 = category, 1 = line item
	Index         string // "1", "1.1" etc
	Description   string
	PartNumber    string
	Vendor        string
	Qty           float64
	Unit          string
	UnitPrice     float64
	MarginPercent float64
	TotalCost     float64
	TotalSell     float64
	Share         float64 // category share of total cost, level 0 only
}

// ExportData holds all data needed for a BOM export.
type ExportData struct {
	Title       string
	ProjectID   string
	CreatedDate string
	Rows        []ExportRow
	Categories  []CategorySummary
	Totals      BOMTotals
}

// BuildExportData lays the items out grouped by category, in the same order
// DeriveCategories produces.
func BuildExportData(title, projectID, createdDate string, items []LineItem) ExportData {
	categories := DeriveCategories(items)
	data := ExportData{
		Title:       title,
		ProjectID:   projectID,
		CreatedDate: createdDate,
		Categories:  categories,
		Totals:      CalcBOMTotals(items),
	}

	for i, c := range categories {
		data.Rows = append(data.Rows, ExportRow{
			Level:       0,
			Index:       fmt.Sprintf("%d", i+1),
			Description: c.Name,
			Qty:         c.ItemCount,
			TotalCost:   c.TotalCost,
			TotalSell:   c.TotalSell,
			Share:       c.PercentageOfTotal,
		})
		for j, it := range FilterByCategory(items, c.Name) {
			data.Rows = append(data.Rows, ExportRow{
				Level:         1,
				Index:         fmt.Sprintf("%d.%d", i+1, j+1),
				Description:   it.Description,
				PartNumber:    it.PartNumber,
				Vendor:        it.Vendor,
				Qty:           it.Quantity,
				Unit:          it.Unit,
				UnitPrice:     it.UnitPrice,
				MarginPercent: it.MarginPercent,
				TotalCost:     it.TotalCost,
				TotalSell:     it.TotalSell,
			})
		}
	}
	return data
}
