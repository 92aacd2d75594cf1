package services

import (
	"math"
	"testing"
)

func mustItem(t *testing.T, desc, category string, qty, price float64) LineItem {
	t.Helper()
	it, err := LineItem{
		Description:   desc,
		Category:      category,
		Quantity:      qty,
		UnitPrice:     price,
		MarginPercent: DefaultMarginPercent,
	}.Priced()
	if err != nil {
		t.Fatalf("pricing %s: %v", desc, err)
	}
	return it
}

func TestDeriveCategories_PercentageScenario(t *testing.T) {
	items := []LineItem{
		mustItem(t, "Switch", "Hardware", 1, 100),
		mustItem(t, "License", "Software", 1, 50),
		mustItem(t, "Cable", "Hardware", 5, 10),
	}

	got := DeriveCategories(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Name != "Hardware" || got[1].Name != "Software" {
		t.Errorf("expected first-appearance order [Hardware Software], got [%s %s]", got[0].Name, got[1].Name)
	}
	if math.Abs(got[0].PercentageOfTotal-75) > 1e-9 {
		t.Errorf("Hardware percentage = %v, want 75", got[0].PercentageOfTotal)
	}
	if math.Abs(got[1].PercentageOfTotal-25) > 1e-9 {
		t.Errorf("Software percentage = %v, want 25", got[1].PercentageOfTotal)
	}
	if got[0].ItemCount != 6 {
		t.Errorf("Hardware ItemCount = %v, want 6 (sum of quantities)", got[0].ItemCount)
	}
	if got[0].Records != 2 {
		t.Errorf("Hardware Records = %d, want 2", got[0].Records)
	}
	if got[0].TotalCost != 150 {
		t.Errorf("Hardware TotalCost = %v, want 150", got[0].TotalCost)
	}
}

func TestDeriveCategories_TotalsMatchItems(t *testing.T) {
	items := []LineItem{
		mustItem(t, "A", "One", 3, 12.5),
		mustItem(t, "B", "Two", 1, 99.99),
		mustItem(t, "C", "Three", 7, 0.33),
		mustItem(t, "D", "Two", 2, 15),
		mustItem(t, "E", "One", 0, 40),
	}

	var itemCost, itemSell float64
	for _, it := range items {
		itemCost += it.TotalCost
		itemSell += it.TotalSell
	}

	var catCost, catSell, pct float64
	for _, c := range DeriveCategories(items) {
		catCost += c.TotalCost
		catSell += c.TotalSell
		pct += c.PercentageOfTotal
	}

	if math.Abs(catCost-itemCost) > 1e-9 {
		t.Errorf("category cost %v != item cost %v", catCost, itemCost)
	}
	if math.Abs(catSell-itemSell) > 1e-9 {
		t.Errorf("category sell %v != item sell %v", catSell, itemSell)
	}
	if math.Abs(pct-100) > 1e-6 {
		t.Errorf("percentages sum to %v, want 100", pct)
	}
}

func TestDeriveCategories_ZeroGrandTotal(t *testing.T) {
	items := []LineItem{
		mustItem(t, "Free", "Promo", 3, 0),
		mustItem(t, "Nothing", "Other", 0, 10),
	}
	for _, c := range DeriveCategories(items) {
		if c.PercentageOfTotal != 0 {
			t.Errorf("%s percentage = %v, want 0", c.Name, c.PercentageOfTotal)
		}
	}
}

func TestDeriveCategories_Empty(t *testing.T) {
	got := DeriveCategories(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFindCategory(t *testing.T) {
	summaries := []CategorySummary{{Name: "Hardware"}, {Name: "Software"}}
	if _, ok := FindCategory(summaries, "Software"); !ok {
		t.Error("expected to find Software")
	}
	if _, ok := FindCategory(summaries, "software"); ok {
		t.Error("category lookup should be exact")
	}
}
