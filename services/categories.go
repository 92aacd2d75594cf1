package services

// CategorySummary is the derived rollup of one BOM category.
//
// ItemCount sums item quantities, which is what API consumers already receive.
// Records is the number of line items in the category.
type CategorySummary struct {
	Name              string
	ItemCount         float64
	Records           int
	TotalCost         float64
	TotalSell         float64
	PercentageOfTotal float64
}

// DeriveCategories groups items by category in order of first appearance and
// computes each group's totals and share of the grand total cost.
func DeriveCategories(items []LineItem) []CategorySummary {
	if len(items) == 0 {
		return []CategorySummary{}
	}

	index := make(map[string]int)
	var out []CategorySummary
	var grandTotalCost float64

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(out)
			index[item.Category] = i
			out = append(out, CategorySummary{Name: item.Category})
		}
		out[i].ItemCount += item.Quantity
		out[i].Records++
		out[i].TotalCost += item.TotalCost
		out[i].TotalSell += item.TotalSell
		grandTotalCost += item.TotalCost
	}

	for i := range out {
		if grandTotalCost > 0 {
			out[i].PercentageOfTotal = out[i].TotalCost / grandTotalCost * 100
		}
	}
	return out
}

// FindCategory returns the summary for name, if present.
func FindCategory(summaries []CategorySummary, name string) (CategorySummary, bool) {
	for _, c := range summaries {
		if c.Name == name {
			return c, true
		}
	}
	return CategorySummary{}, false
}
