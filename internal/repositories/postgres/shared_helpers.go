package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var sortableColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"email":      "email",
}

// applyPaginationAndSort applies limit/offset and a whitelisted sort order.
func applyPaginationAndSort(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "created_at"
	}

	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	return query
}
