package identity

import "time"

// Role enum
type Role string

const (
	RoleUser     Role = "user"
	RoleOrgAdmin Role = "org_admin"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a stored role string onto the closed enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleOrgAdmin, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User is the persisted account row behind a session.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	OrganizationID string    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Caller is the per-request identity resolved by the auth middleware.
// It is read-only input to the orchestrators and never persisted by them.
type Caller struct {
	UserID         string
	Email          string
	Role           Role
	OrganizationID string
}

// CanRunAnalysis reports whether the role may invoke analysis operations.
func (r Role) CanRunAnalysis() bool {
	return r == RoleOrgAdmin || r == RoleAdmin
}

// CanAccessOrg reports whether the caller may touch rows scoped to org.
// Admin bypasses the tenant boundary; org_admin is confined to its own org.
func (c Caller) CanAccessOrg(org string) bool {
	if c.Role == RoleAdmin {
		return true
	}
	return c.OrganizationID != "" && c.OrganizationID == org
}
