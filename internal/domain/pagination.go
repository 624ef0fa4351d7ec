package domain

// PaginationParams selects one page of a newest-first admin listing.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit is the SQL LIMIT for the page.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return 0
	}
	return p.PageSize
}

// Offset is the SQL OFFSET for the page; pages start at 1.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
