package services

import (
	"errors"
	"testing"
)

func TestItemStore_AddAssignsIDAndPrices(t *testing.T) {
	s := NewItemStore(nil)
	got, err := s.Add(LineItem{Description: "Widget", Category: "Hardware", Quantity: 2, UnitPrice: 50, MarginPercent: 35})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got.ID == "" {
		t.Error("expected a fresh id")
	}
	if got.TotalCost != 100 {
		t.Errorf("TotalCost = %v, want 100", got.TotalCost)
	}
	if RoundMoney(got.TotalSell) != 153.85 {
		t.Errorf("TotalSell = %v, want ~153.85", got.TotalSell)
	}
	if got.Unit != "Each" {
		t.Errorf("Unit = %q, want blank to default to Each", got.Unit)
	}

	other, _ := s.Add(LineItem{Description: "Widget", Category: "Hardware", Quantity: 1, UnitPrice: 1})
	if other.ID == got.ID {
		t.Error("expected distinct ids")
	}
}

func TestItemStore_AddInvalidLeavesStoreUnchanged(t *testing.T) {
	s := NewItemStore(nil)
	s.Add(LineItem{Description: "Keep", Category: "A", Quantity: 1, UnitPrice: 1})

	invalid := []LineItem{
		{Description: "", Category: "A", Quantity: 1, UnitPrice: 1},
		{Description: "No category", Quantity: 1, UnitPrice: 1},
		{Description: "Neg qty", Category: "A", Quantity: -1, UnitPrice: 1},
		{Description: "Margin 100", Category: "A", Quantity: 1, UnitPrice: 1, MarginPercent: 100},
		{Description: "Unknown unit", Category: "A", Quantity: 1, Unit: "Bushel", UnitPrice: 1},
		{Description: "Overflow", Category: "A", Quantity: 1e308, UnitPrice: 10},
	}
	for _, it := range invalid {
		_, err := s.Add(it)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Add(%q) expected ValidationError, got %v", it.Description, err)
		}
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 item after failed adds, got %d", s.Len())
	}
}

func TestItemStore_DeleteAndCategories(t *testing.T) {
	s := NewItemStore(nil)
	a, _ := s.Add(LineItem{Description: "A", Category: "Hardware", Quantity: 1, UnitPrice: 100})
	b, _ := s.Add(LineItem{Description: "B", Category: "Software", Quantity: 1, UnitPrice: 50})

	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	cats := s.Categories()
	if len(cats) != 1 || cats[0].Name != "Hardware" {
		t.Errorf("expected only Hardware to remain, got %+v", cats)
	}
	if cats[0].PercentageOfTotal != 100 {
		t.Errorf("percentage = %v, want 100", cats[0].PercentageOfTotal)
	}

	if err := s.Delete(b.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("second Delete() = %v, want ErrItemNotFound", err)
	}
	if _, ok := s.Get(a.ID); !ok {
		t.Error("expected A to remain")
	}
}

func TestItemStore_DeleteAll(t *testing.T) {
	s := NewItemStore([]LineItem{
		{ID: "1", Description: "A", Category: "X", Quantity: 1, UnitPrice: 10},
		{ID: "2", Description: "B", Category: "Y", Quantity: 1, UnitPrice: 10},
	})
	s.DeleteAll()

	if got := s.Categories(); len(got) != 0 {
		t.Errorf("expected no categories, got %d", len(got))
	}
	if got := s.Totals(); got.TotalCost != 0 || got.TotalSell != 0 {
		t.Errorf("expected zero totals, got %+v", got)
	}
}

func TestItemStore_Replace(t *testing.T) {
	s := NewItemStore([]LineItem{{ID: "1", Description: "A", Category: "X", Quantity: 1, UnitPrice: 10}})

	got, err := s.Replace("1", LineItem{ID: "ignored", Description: "A2", Category: "Z", Quantity: 3, UnitPrice: 10})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got.ID != "1" || got.TotalCost != 30 || got.Category != "Z" {
		t.Errorf("unexpected replaced item %+v", got)
	}
	if _, err := s.Replace("missing", got); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Replace(missing) = %v, want ErrItemNotFound", err)
	}
	if _, err := s.Replace("1", LineItem{Description: "", Category: "Z"}); err == nil {
		t.Error("expected validation error on replace")
	}
	if it, _ := s.Get("1"); it.Description != "A2" {
		t.Errorf("failed replace should not change item, got %q", it.Description)
	}
}

func TestNewItemStore_PricesLoadedItems(t *testing.T) {
	s := NewItemStore([]LineItem{{ID: "1", Description: "A", Category: "X", Quantity: 4, UnitPrice: 25, MarginPercent: 50}})
	items := s.Items()
	if items[0].TotalCost != 100 || items[0].TotalSell != 200 {
		t.Errorf("unexpected pricing %+v", items[0])
	}
}
