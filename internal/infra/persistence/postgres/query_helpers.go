package postgres

import (
	"strings"

	"crm/internal/domain/entity"

	"gorm.io/gorm"
)

// paginate applies LIMIT/OFFSET unless the page is zero, which lists everything.
func paginate(q *gorm.DB, page entity.Page) *gorm.DB {
	if page.IsZero() {
		return q
	}

	return q.Offset(page.Offset()).Limit(page.Limit())
}

// likePattern escapes LIKE wildcards so keywords match literally.
func likePattern(keyword string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return "%" + replacer.Replace(strings.TrimSpace(keyword)) + "%"
}
