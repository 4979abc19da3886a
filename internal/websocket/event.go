package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeAdded   EventType = "added"
	EventTypeRemoved EventType = "removed"
	EventTypeDenied  EventType = "denied"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeCard    EntityType = "card"
	EntityTypeComment EntityType = "comment"
	EntityTypeMember  EntityType = "member"
	EntityTypeJoin    EntityType = "join"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "card.updated"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "card"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// CardCreated creates a card.created event
func CardCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCard, payload)
}

// CardUpdated creates a card.updated event
func CardUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCard, payload)
}

// CardDeleted creates a card.deleted event
func CardDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCard, payload)
}

// CommentCreated creates a comment.created event
func CommentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeComment, payload)
}

// MemberAdded creates a member.added event
func MemberAdded(payload interface{}) Event {
	return NewEvent(EventTypeAdded, EntityTypeMember, payload)
}

// MemberRemoved creates a member.removed event
func MemberRemoved(payload interface{}) Event {
	return NewEvent(EventTypeRemoved, EntityTypeMember, payload)
}

// JoinDenied creates a join.denied event answering a rejected subscription.
// It is sent to the requesting client only, never broadcast.
func JoinDenied(workspaceID int32, reason string) Event {
	return NewEvent(EventTypeDenied, EntityTypeJoin, map[string]interface{}{
		"workspaceId": workspaceID,
		"reason":      reason,
	})
}
