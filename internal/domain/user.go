package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the identity-only view of a user embedded in workspace and card
// responses. It never carries credentials.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Ref returns the identity-only view of the user
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	GetByEmail(email string) (*User, error)
}
