package shared

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values.
// PageSize 0 means the whole result set is returned.
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "id",
		OrderDir: "asc",
		Filters:  make(map[string]any),
	}
}

// Paginated reports whether the filter asks for a single page
func (f Filter) Paginated() bool {
	return f.Page > 0 && f.PageSize > 0
}

// Offset returns the row offset of the requested page
func (f Filter) Offset() int {
	if !f.Paginated() {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
