package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a remark left on a card by a workspace member. Comments are
// append-only and referenced by the card, never embedded in it.
type Comment struct {
	ID        int32     `json:"id"`
	CardID    int32     `json:"card"`
	UserID    uuid.UUID `json:"-"`
	User      UserRef   `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentRepository defines the interface for comment persistence operations
type CommentRepository interface {
	Create(comment *Comment) (*Comment, error)
	// ListByCard returns the card's comments with author identities resolved,
	// oldest first.
	ListByCard(cardID int32) ([]*Comment, error)
}
