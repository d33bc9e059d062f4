package usecase

import "crm/internal/domain/entity"

// PageResult is a page of items plus the total match count.
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// NewPageResult echoes the normalized page back to the caller. A zero page reports everything as one page.
func NewPageResult[T any](items []T, total int64, page entity.Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}

	if page.IsZero() {
		return &PageResult[T]{Items: items, Total: total, Page: 1, PageSize: len(items)}
	}

	n := page.Normalize()

	return &PageResult[T]{Items: items, Total: total, Page: n.Page, PageSize: n.PageSize}
}
