package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the direction to ASC or DESC (the default)
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, defaultField otherwise
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

func sortFields(fields ...string) map[string]bool {
	m := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range fields {
		m[f] = true
	}
	return m
}
