package service

import "strings"

var assetOrderBy = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
	"size":       "file_size",
}

var folderOrderBy = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
}

// orderClause maps a user-supplied sort key to a safe ORDER BY, falling back to newest first.
func orderClause(allowed map[string]string, orderBy string, desc bool) string {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(orderBy))]
	if !ok {
		return "created_at DESC"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
