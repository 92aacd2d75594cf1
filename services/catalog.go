package services

import "strings"

// CategoryRecord is a named entry in the project's category catalog. Catalog
// entries exist independently of whether any line item uses them.
type CategoryRecord struct {
	ID   string
	Name string
}

// CategoryCatalog enforces naming and deletion rules over the catalog.
type CategoryCatalog struct {
	records []CategoryRecord
}

func NewCategoryCatalog(records []CategoryRecord) *CategoryCatalog {
	c := &CategoryCatalog{records: make([]CategoryRecord, len(records))}
	copy(c.records, records)
	return c
}

func (c *CategoryCatalog) Records() []CategoryRecord {
	out := make([]CategoryRecord, len(c.records))
	copy(out, c.records)
	return out
}

// CheckCreate validates a new category name without changing the catalog.
// It returns the trimmed name.
func (c *CategoryCatalog) CheckCreate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("category_name", "is required")
	}
	for _, r := range c.records {
		if strings.EqualFold(r.Name, name) {
			return "", &DuplicateNameError{Name: r.Name}
		}
	}
	return name, nil
}

// Create adds a category under the given id. The id normally comes from the API.
func (c *CategoryCatalog) Create(id, name string) (CategoryRecord, error) {
	name, err := c.CheckCreate(name)
	if err != nil {
		return CategoryRecord{}, err
	}
	rec := CategoryRecord{ID: id, Name: name}
	c.records = append(c.records, rec)
	return rec, nil
}

// CheckDelete returns the record for id, or InUseError with the number of
// items that still reference it by name.
func (c *CategoryCatalog) CheckDelete(id string, items []LineItem) (CategoryRecord, error) {
	idx := c.indexOf(id)
	if idx < 0 {
		return CategoryRecord{}, ErrCategoryNotFound
	}
	rec := c.records[idx]
	if n := CountItemsInCategory(items, rec.Name); n > 0 {
		return CategoryRecord{}, &InUseError{Name: rec.Name, Count: n}
	}
	return rec, nil
}

func (c *CategoryCatalog) Delete(id string, items []LineItem) error {
	if _, err := c.CheckDelete(id, items); err != nil {
		return err
	}
	idx := c.indexOf(id)
	c.records = append(c.records[:idx], c.records[idx+1:]...)
	return nil
}

// CountItemsInCategory counts line item records whose category matches name.
func CountItemsInCategory(items []LineItem, name string) int {
	n := 0
	for _, it := range items {
		if it.Category == name {
			n++
		}
	}
	return n
}

func (c *CategoryCatalog) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
