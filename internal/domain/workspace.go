package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace represents a collaboration space containing cards, a fixed owner,
// and a set of members. The owner is always part of the member set.
type Workspace struct {
	ID          int32     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Owner       UserRef   `json:"owner"`
	Members     []UserRef `json:"members"`
	CardIDs     []int32   `json:"cardIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember reports whether the given user is in the member set
func (w *Workspace) HasMember(userID uuid.UUID) bool {
	for _, m := range w.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	// Create persists the workspace and inserts the owner into the member set
	// in the same transaction.
	Create(workspace *Workspace) (*Workspace, error)
	GetByID(id int32) (*Workspace, error)
	// ListByMember returns all workspaces where the user is a member (owner
	// included), most recently updated first.
	ListByMember(userID uuid.UUID) ([]*Workspace, error)
	AddMember(workspaceID int32, userID uuid.UUID) error
	RemoveMember(workspaceID int32, userID uuid.UUID) error
}
