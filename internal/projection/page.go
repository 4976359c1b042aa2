// Package projection derives what a page shows from slice state: filters,
// sorts, pagination and dashboard figures. Nothing here talks to the API.
package projection

const (
	CatalogPageSize   = 12
	InventoryPageSize = 10
)

type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// Paginate cuts one page out of items. page is clamped to [1, TotalPages];
// an empty list still has one (empty) page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 || size > 100 {
		size = CatalogPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	from := (page - 1) * size
	to := min(from+size, total)
	out := make([]T, 0, to-from)
	out = append(out, items[from:to]...)

	return Page[T]{
		Items:      out,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: pages,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
}
