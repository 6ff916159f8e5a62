package persistence

import (
	"strings"

	"github.com/dentalhr/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ArticleSortFields contains allowed sort fields for manual articles
var ArticleSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"status":       true,
	"version":      true,
	"published_at": true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"created_at": true,
	"last_name":  true,
	"first_name": true,
	"email":      true,
	"hire_date":  true,
	"status":     true,
}

// ChecklistSortFields contains allowed sort fields for checklists
var ChecklistSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"frequency":  true,
}

// paginate applies whitelisted ordering plus offset/limit. The filter must be normalized.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// likePattern builds a case-insensitive LIKE pattern, matched against LOWER(column).
// Wildcards typed by the user are escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
