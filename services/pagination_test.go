package services

import (
	"fmt"
	"testing"
)

func pagedItems(n int, category string) []LineItem {
	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, LineItem{ID: fmt.Sprintf("%s-%d", category, i), Category: category})
	}
	return items
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		expect   int
	}{
		{"empty is one page", 0, 10, 1},
		{"exact fit", 20, 10, 2},
		{"remainder", 21, 10, 3},
		{"single", 1, 10, 1},
		{"non-positive size uses default", 25, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := append(pagedItems(tt.count, "A"), pagedItems(7, "B")...)
			got := TotalPages(items, "A", tt.pageSize)
			if got != tt.expect {
				t.Errorf("TotalPages() = %d, want %d", got, tt.expect)
			}
		})
	}
}

func TestPaginate_ReconstructsCategory(t *testing.T) {
	var items []LineItem
	// Interleave two categories so filtering matters.
	for i := 0; i < 23; i++ {
		items = append(items, LineItem{ID: fmt.Sprintf("a%d", i), Category: "A"})
		if i%3 == 0 {
			items = append(items, LineItem{ID: fmt.Sprintf("b%d", i), Category: "B"})
		}
	}

	for _, size := range []int{1, 5, 10, 23, 50} {
		pages := TotalPages(items, "A", size)
		seen := make(map[string]bool)
		var order []string
		for p := 1; p <= pages; p++ {
			for _, it := range Paginate(items, "A", p, size) {
				if seen[it.ID] {
					t.Fatalf("size %d: duplicate %s", size, it.ID)
				}
				seen[it.ID] = true
				order = append(order, it.ID)
			}
		}
		if len(order) != 23 {
			t.Fatalf("size %d: got %d items, want 23", size, len(order))
		}
		for i, id := range order {
			if id != fmt.Sprintf("a%d", i) {
				t.Fatalf("size %d: position %d = %s, order not preserved", size, i, id)
			}
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := pagedItems(5, "A")
	if got := Paginate(items, "A", 0, 2); len(got) != 0 {
		t.Errorf("page 0 returned %d items", len(got))
	}
	if got := Paginate(items, "A", 4, 2); len(got) != 0 {
		t.Errorf("page past end returned %d items", len(got))
	}
	if got := Paginate(items, "A", 3, 2); len(got) != 1 {
		t.Errorf("last page returned %d items, want 1", len(got))
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{0, 3, 1},
		{-4, 3, 1},
		{2, 3, 2},
		{9, 3, 3},
		{1, 0, 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}
