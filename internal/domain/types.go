package domain

import "strings"

// Role names carried in access tokens and the users.role column.
const (
	RoleUser      = "ROLE_USER"
	RoleAdmin     = "ROLE_ADMIN"
	RoleModerator = "ROLE_MODERATOR"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// CanManageAny reports whether the caller may modify resources owned by other users.
func (rc RequestContext) CanManageAny() bool {
	role := strings.ToUpper(strings.TrimSpace(rc.Role))
	return role == RoleAdmin || role == RoleModerator
}
