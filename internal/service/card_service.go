package service

import (
	"strings"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/google/uuid"
)

// CardService handles card lifecycle business logic
type CardService struct {
	cardRepo       domain.CardRepository
	workspaceRepo  domain.WorkspaceRepository
	eventPublisher websocket.EventPublisher
}

// NewCardService creates a new CardService
func NewCardService(cardRepo domain.CardRepository, workspaceRepo domain.WorkspaceRepository) *CardService {
	return &CardService{
		cardRepo:      cardRepo,
		workspaceRepo: workspaceRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CardService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CardService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreateCardInput holds the input for creating a card
type CreateCardInput struct {
	WorkspaceID int32
	Title       string
	Description string
	Status      *domain.CardStatus
	Assignees   []uuid.UUID
}

// Create creates a card in the workspace. The caller must be a member.
// Events are published only after the card is persisted.
func (s *CardService) Create(callerID uuid.UUID, input CreateCardInput) (*domain.Card, error) {
	workspace, err := s.workspaceRepo.GetByID(input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !workspace.Authorize(callerID).AtLeastMember() {
		return nil, domain.ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	status := domain.CardStatusTodo
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		status = *input.Status
	}

	assignees, err := validateAssignees(workspace, input.Assignees)
	if err != nil {
		return nil, err
	}

	card, err := s.cardRepo.Create(&domain.Card{
		WorkspaceID: input.WorkspaceID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}, assignees)
	if err != nil {
		return nil, err
	}

	s.publishEvent(card.WorkspaceID, websocket.CardCreated(card))
	return card, nil
}

// Update applies a partial update to the card. Only fields present in the
// update change; unspecified fields are left as they are. Status transitions
// are unrestricted between valid states.
func (s *CardService) Update(callerID uuid.UUID, cardID int32, update domain.CardUpdate) (*domain.Card, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	workspace, err := s.workspaceRepo.GetByID(card.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !workspace.Authorize(callerID).AtLeastMember() {
		return nil, domain.ErrForbidden
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		if len(title) > domain.MaxTitleLength {
			return nil, domain.ErrTitleTooLong
		}
		card.Title = title
	}
	if update.Description != nil {
		card.Description = strings.TrimSpace(*update.Description)
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		card.Status = *update.Status
	}

	assignees := card.AssigneeIDs()
	if update.Assignees != nil {
		assignees, err = validateAssignees(workspace, *update.Assignees)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.cardRepo.Update(card, assignees)
	if err != nil {
		return nil, err
	}

	s.publishEvent(updated.WorkspaceID, websocket.CardUpdated(updated))
	return updated, nil
}

// Delete removes the card. The caller must be a member of its workspace.
func (s *CardService) Delete(callerID uuid.UUID, cardID int32) error {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return err
	}
	workspace, err := s.workspaceRepo.GetByID(card.WorkspaceID)
	if err != nil {
		return err
	}
	if !workspace.Authorize(callerID).AtLeastMember() {
		return domain.ErrForbidden
	}

	if err := s.cardRepo.Delete(cardID); err != nil {
		return err
	}

	s.publishEvent(card.WorkspaceID, websocket.CardDeleted(map[string]interface{}{
		"id":        card.ID,
		"workspace": card.WorkspaceID,
	}))
	return nil
}

// ListByWorkspace returns all cards for the workspace with assignee
// identities resolved. The caller must be a member.
func (s *CardService) ListByWorkspace(callerID uuid.UUID, workspaceID int32) ([]*domain.Card, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if !workspace.Authorize(callerID).AtLeastMember() {
		return nil, domain.ErrForbidden
	}
	return s.cardRepo.ListByWorkspace(workspaceID)
}

// validateAssignees deduplicates the assignee set and rejects any user who is
// not a member of the card's workspace
func validateAssignees(workspace *domain.Workspace, assignees []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(assignees))
	result := make([]uuid.UUID, 0, len(assignees))
	for _, userID := range assignees {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		if !workspace.Authorize(userID).AtLeastMember() {
			return nil, domain.ErrAssigneeNotMember
		}
		result = append(result, userID)
	}
	return result, nil
}
