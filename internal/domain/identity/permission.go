package identity

import (
	"strings"

	"github.com/repairpos/backend/internal/domain/shared"
)

// Resources guarded by RBAC. A permission code is "<resource>:<action>".
var Resources = []string{
	"branch", "role", "user",
	"product", "inventory",
	"customer", "lead",
	"sale", "repair", "kanban", "diagnostic",
	"finance", "commission", "pricing", "reimbursement",
	"message", "marketplace", "gamification", "integration",
	"dashboard", "report",
}

// Actions map to HTTP methods: read (GET), create (POST), update (PUT/PATCH), delete (DELETE)
var Actions = []string{"read", "create", "update", "delete"}

// WildcardPermission grants everything
const WildcardPermission = "*:*"

// ValidatePermissionCode accepts "*:*", "resource:*" and "resource:action" for known names
func ValidatePermissionCode(code string) error {
	if code == WildcardPermission {
		return nil
	}
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	if !contains(Resources, parts[0]) {
		return shared.NewDomainError("INVALID_PERMISSION_CODE", "Unknown resource: "+parts[0])
	}
	if parts[1] != "*" && !contains(Actions, parts[1]) {
		return shared.NewDomainError("INVALID_PERMISSION_CODE", "Unknown action: "+parts[1])
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
