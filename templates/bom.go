package templates

import (
	"net/url"
	"strconv"

	"quotebuilder/services"
)

// BOMPageData is everything the bill-of-materials view shows for one
// project: rollups, the selected category's current page and the catalog.
type BOMPageData struct {
	ProjectID        string
	Categories       []services.CategorySummary
	Totals           services.BOMTotals
	SelectedCategory string
	Items            []services.LineItem
	Page             int
	TotalPages       int
	Catalog          []services.CategoryRecord
	ItemCount        int
}

func (d BOMPageData) base() string {
	return "/projects/" + d.ProjectID + "/bom"
}

// PageURL links to a page of a category.
func (d BOMPageData) PageURL(category string, page int) string {
	q := url.Values{}
	q.Set("category", category)
	q.Set("page", strconv.Itoa(page))
	return d.base() + "?" + q.Encode()
}

// categoryChoices merges catalog names with categories already in use,
// catalog order first.
func (d BOMPageData) categoryChoices() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range d.Catalog {
		if !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c.Name)
		}
	}
	for _, c := range d.Categories {
		if !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c.Name)
		}
	}
	return out
}

func (d BOMPageData) itemURL(it services.LineItem) string {
	return d.base() + "/" + url.PathEscape(it.ID)
}

// deleteItemURL keeps the current category and page so the swap returns to
// the same view.
func (d BOMPageData) deleteItemURL(it services.LineItem) string {
	q := url.Values{"category": {d.SelectedCategory}, "page": {strconv.Itoa(d.Page)}}
	return d.itemURL(it) + "?" + q.Encode()
}

func (d BOMPageData) categoriesURL() string {
	return "/projects/" + d.ProjectID + "/categories"
}

func (d BOMPageData) categoryURL(id string) string {
	return d.categoriesURL() + "/" + url.PathEscape(id)
}

type summaryCard struct {
	Label string
	Value string
}

func (d BOMPageData) totalCards() []summaryCard {
	t := d.Totals
	return []summaryCard{
		{"Total Cost", services.FormatMoney(t.TotalCost)},
		{"Total Sell", services.FormatMoney(t.TotalSell)},
		{"Margin", services.FormatMoney(t.Margin) + " (" + services.FormatPercent(t.MarginPercent) + ")"},
		{"Line Items", strconv.Itoa(d.ItemCount)},
	}
}

var optionalItemFields = []struct{ Name, Label string }{
	{"vendor", "Vendor"},
	{"part_number", "Part #"},
	{"manufacturer", "Manufacturer"},
	{"model_number", "Model #"},
}

func formatPercentInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
