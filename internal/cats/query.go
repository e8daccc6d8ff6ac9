package cats

import (
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPage is used when the caller omits or mangles the page number.
	DefaultPage = 1
	// DefaultPageSize is used when the caller omits or mangles the page size.
	DefaultPageSize = 8
)

// ListQuery describes a filtered, paginated list request.
type ListQuery struct {
	SearchText string
	TagFilter  string
	Page       int
	PageSize   int
}

// ListResult is the paginated envelope returned by List.
type ListResult struct {
	Items      []Cat
	TotalCount int64
	TotalPages int
	Page       int
	PageSize   int
}

// normalized applies the documented defaults without otherwise validating
// the pagination values.
func (q ListQuery) normalized() ListQuery {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	q.SearchText = strings.TrimSpace(q.SearchText)
	q.TagFilter = strings.TrimSpace(q.TagFilter)
	return q
}

// apply narrows the statement to the query predicate. Search text matches
// case-insensitively as a substring of name, tag, or description; the tag
// filter is exact equality; both combine with AND.
func (q ListQuery) apply(db *gorm.DB) *gorm.DB {
	if q.SearchText != "" {
		pattern := "%" + strings.ToLower(q.SearchText) + "%"
		db = db.Where(
			"LOWER(name) LIKE ? OR LOWER(tag) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.TagFilter != "" {
		db = db.Where("tag = ?", q.TagFilter)
	}
	return db
}

func totalPages(count int64, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return int((count + int64(pageSize) - 1) / int64(pageSize))
}
