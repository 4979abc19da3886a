package domain

import "github.com/google/uuid"

// Role is the access decision for a (user, workspace) pair
type Role int

const (
	// RoleNone means the user has no access to the workspace
	RoleNone Role = iota
	// RoleMember means the user can read and mutate cards
	RoleMember
	// RoleOwner means the user additionally manages membership
	RoleOwner
)

// String returns the role name for logging
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleMember:
		return "member"
	default:
		return "none"
	}
}

// AtLeastMember reports whether the role grants card read/mutate access
func (r Role) AtLeastMember() bool {
	return r == RoleMember || r == RoleOwner
}

// Authorize is the single access decision for the workspace. Every mutation
// and every channel subscription goes through it; handlers never scan the
// member set themselves.
func (w *Workspace) Authorize(userID uuid.UUID) Role {
	if w.OwnerID == userID {
		return RoleOwner
	}
	if w.HasMember(userID) {
		return RoleMember
	}
	return RoleNone
}
