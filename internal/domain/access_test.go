package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestAuthorize(t *testing.T) {
	ownerID := uuid.New()
	memberID := uuid.New()
	strangerID := uuid.New()

	workspace := &Workspace{
		ID:      1,
		OwnerID: ownerID,
		Members: []UserRef{
			{ID: ownerID},
			{ID: memberID},
		},
	}

	tests := []struct {
		name   string
		userID uuid.UUID
		want   Role
	}{
		{"owner", ownerID, RoleOwner},
		{"member", memberID, RoleMember},
		{"stranger", strangerID, RoleNone},
		{"nil user", uuid.Nil, RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workspace.Authorize(tt.userID); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeOwnerOutsideMemberSet(t *testing.T) {
	// Ownership alone grants RoleOwner even if the member rows are missing
	ownerID := uuid.New()
	workspace := &Workspace{ID: 1, OwnerID: ownerID, Members: []UserRef{}}

	if got := workspace.Authorize(ownerID); got != RoleOwner {
		t.Errorf("Authorize(owner) = %v, want RoleOwner", got)
	}
}

func TestRoleAtLeastMember(t *testing.T) {
	if RoleNone.AtLeastMember() {
		t.Error("RoleNone.AtLeastMember() = true, want false")
	}
	if !RoleMember.AtLeastMember() {
		t.Error("RoleMember.AtLeastMember() = false, want true")
	}
	if !RoleOwner.AtLeastMember() {
		t.Error("RoleOwner.AtLeastMember() = false, want true")
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleNone, "none"},
		{RoleMember, "member"},
		{RoleOwner, "owner"},
	}
	for _, tt := range tests {
		if got := tt.role.String(); got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestHasMember(t *testing.T) {
	memberID := uuid.New()
	workspace := &Workspace{Members: []UserRef{{ID: memberID}}}

	if !workspace.HasMember(memberID) {
		t.Error("HasMember(member) = false, want true")
	}
	if workspace.HasMember(uuid.New()) {
		t.Error("HasMember(stranger) = true, want false")
	}
}
