package domain

import (
	"time"

	"github.com/google/uuid"
)

// CardStatus is the lifecycle state of a card
type CardStatus string

const (
	CardStatusTodo  CardStatus = "todo"
	CardStatusDoing CardStatus = "doing"
	CardStatusDone  CardStatus = "done"
)

// Valid reports whether the status is one of the known states. Transitions
// between valid states are unrestricted: any member may move a card from any
// state to any other state in one operation.
func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusTodo, CardStatusDoing, CardStatusDone:
		return true
	}
	return false
}

// Card represents a unit of work belonging to exactly one workspace.
// Assignees is an explicit set of 0..N workspace members. Version increments
// on every update so clients can detect lost updates.
type Card struct {
	ID          int32      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      CardStatus `json:"status"`
	Assignees   []UserRef  `json:"assignedTo"`
	WorkspaceID int32      `json:"workspace"`
	Version     int32      `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AssigneeIDs returns the IDs of the card's assignees
func (c *Card) AssigneeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Assignees))
	for _, a := range c.Assignees {
		ids = append(ids, a.ID)
	}
	return ids
}

// CardUpdate carries a partial card update. Nil fields are left unchanged.
type CardUpdate struct {
	Title       *string
	Description *string
	Status      *CardStatus
	Assignees   *[]uuid.UUID
}

// CardRepository defines the interface for card persistence operations
type CardRepository interface {
	Create(card *Card, assignees []uuid.UUID) (*Card, error)
	GetByID(id int32) (*Card, error)
	// Update persists the card's title, description, status and assignee set,
	// bumping the version.
	Update(card *Card, assignees []uuid.UUID) (*Card, error)
	Delete(id int32) error
	ListByWorkspace(workspaceID int32) ([]*Card, error)
}
