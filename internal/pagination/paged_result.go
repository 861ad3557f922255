// Package pagination provides the page envelope returned by list operations.
package pagination

// Defaults applied when a caller asks for a non-positive page or page size.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PagedResult is one page of items plus the totals needed to navigate the rest.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// New builds a PagedResult and derives TotalPages. A nil slice becomes empty so
// the JSON payload always carries an array.
func New[T any](items []T, page, pageSize int, totalCount int64) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, pageSize),
	}
}

// TotalPages returns ceil(totalCount / pageSize), or 0 when pageSize is not positive.
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((totalCount + size - 1) / size)
}

// Normalize applies the defaults to non-positive page and page size values.
func Normalize(page, pageSize int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Map converts the items of a page while keeping the totals.
func Map[T, U any](p PagedResult[T], fn func(T) U) PagedResult[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return PagedResult[U]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
	}
}
