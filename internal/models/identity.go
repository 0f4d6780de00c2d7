package models

// SystemUsername is the display name of the built-in administrator identity.
const SystemUsername = "Administrator"

// Identity is the resolved caller of a request. Regular identities are backed
// by a user row; the built-in administrator is tagged with System and has no
// backing row, so it can administrate but never own content.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	System   bool   `json:"system"`
}

// SystemIdentity returns the built-in administrator identity.
func SystemIdentity() Identity {
	return Identity{Username: SystemUsername, Role: RoleAdmin, System: true}
}

// IsAdmin reports whether the identity may perform administrative operations.
func (i Identity) IsAdmin() bool {
	return i.System || i.Role == RoleAdmin
}
