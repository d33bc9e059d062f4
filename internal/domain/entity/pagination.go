package entity

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Page is a 1-based page request. A zero Page means "everything".
type Page struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"pageSize" query:"pageSize"`
}

// Normalize clamps the page into usable bounds.
func (p Page) Normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	return p
}

// IsZero reports whether no paging was requested.
func (p Page) IsZero() bool {
	return p.Page == 0 && p.PageSize == 0
}

// Offset returns the row offset of the normalized page.
func (p Page) Offset() int {
	n := p.Normalize()

	return (n.Page - 1) * n.PageSize
}

// Limit returns the row limit of the normalized page.
func (p Page) Limit() int {
	return p.Normalize().PageSize
}
