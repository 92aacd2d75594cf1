package services

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// FilterByCategory returns the items in category, preserving order.
func FilterByCategory(items []LineItem, category string) []LineItem {
	var out []LineItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// TotalPages is ceil(filtered/pageSize), never less than 1.
func TotalPages(items []LineItem, category string, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := len(FilterByCategory(items, category))
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the 1-based page of items in category. Page indexes are not
// clamped here: out-of-range pages return an empty slice, so callers should
// run ClampPage first.
func Paginate(items []LineItem, category string, page, pageSize int) []LineItem {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return []LineItem{}
	}
	filtered := FilterByCategory(items, category)
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return []LineItem{}
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
