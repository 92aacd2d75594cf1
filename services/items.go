package services

import (
	"strings"

	"github.com/google/uuid"
)

// LineItem is one priced row of a project's bill of materials.
type LineItem struct {
	ID            string
	Description   string
	Category      string
	Quantity      float64
	Unit          string
	UnitPrice     float64
	Vendor        string
	PartNumber    string
	Manufacturer  string
	ModelNumber   string
	Notes         string
	MarginPercent float64

	TotalCost float64
	TotalSell float64
}

// Priced returns a copy of the item with TotalCost and TotalSell recomputed.
func (it LineItem) Priced() (LineItem, error) {
	p, err := PriceLine(it.Quantity, it.UnitPrice, it.MarginPercent)
	if err != nil {
		return it, err
	}
	it.TotalCost = p.TotalCost
	it.TotalSell = p.TotalSell
	return it, nil
}

// ValidateLineItem checks the fields required before an item is created.
func ValidateLineItem(it LineItem) error {
	if strings.TrimSpace(it.Description) == "" {
		return newValidationError("description", "is required")
	}
	if strings.TrimSpace(it.Category) == "" {
		return newValidationError("category_name", "is required")
	}
	if !IsUnitOption(it.Unit) {
		return newValidationError("unit", "must be one of "+strings.Join(UnitOptions, ", "))
	}
	_, err := PriceLine(it.Quantity, it.UnitPrice, it.MarginPercent)
	return err
}

// ItemStore is the ordered in-memory BOM for one project. Categories are
// derived from scratch after every mutation.
type ItemStore struct {
	items []LineItem
}

// NewItemStore prices the given items (already persisted remotely) and keeps
// them in order. Items that fail pricing keep zero totals.
func NewItemStore(items []LineItem) *ItemStore {
	s := &ItemStore{items: make([]LineItem, 0, len(items))}
	for _, it := range items {
		if priced, err := it.Priced(); err == nil {
			it = priced
		}
		s.items = append(s.items, it)
	}
	return s
}

// Add validates and prices the item, assigning a fresh id when it has none.
// A blank or differently cased unit is normalized first.
func (s *ItemStore) Add(it LineItem) (LineItem, error) {
	it.Unit, _ = NormalizeUnit(it.Unit)
	if err := ValidateLineItem(it); err != nil {
		return LineItem{}, err
	}
	priced, err := it.Priced()
	if err != nil {
		return LineItem{}, err
	}
	if priced.ID == "" {
		priced.ID = uuid.NewString()
	}
	s.items = append(s.items, priced)
	return priced, nil
}

// Replace swaps the item with the given id for a fully re-priced copy of it.
func (s *ItemStore) Replace(id string, it LineItem) (LineItem, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return LineItem{}, ErrItemNotFound
	}
	it.Unit, _ = NormalizeUnit(it.Unit)
	if err := ValidateLineItem(it); err != nil {
		return LineItem{}, err
	}
	priced, err := it.Priced()
	if err != nil {
		return LineItem{}, err
	}
	priced.ID = id
	s.items[idx] = priced
	return priced, nil
}

func (s *ItemStore) Delete(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

func (s *ItemStore) DeleteAll() {
	s.items = nil
}

// Get returns the item with the given id.
func (s *ItemStore) Get(id string) (LineItem, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return s.items[idx], true
}

// Items returns a copy of the items in insertion order.
func (s *ItemStore) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *ItemStore) Len() int { return len(s.items) }

func (s *ItemStore) Categories() []CategorySummary {
	return DeriveCategories(s.items)
}

func (s *ItemStore) Totals() BOMTotals {
	return CalcBOMTotals(s.items)
}

func (s *ItemStore) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
