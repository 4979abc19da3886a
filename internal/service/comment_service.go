package service

import (
	"strings"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/google/uuid"
)

// MaxCommentLength caps a single comment's content
const MaxCommentLength = 2000

// CommentService handles card comment business logic
type CommentService struct {
	commentRepo    domain.CommentRepository
	cardRepo       domain.CardRepository
	workspaceRepo  domain.WorkspaceRepository
	eventPublisher websocket.EventPublisher
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo domain.CommentRepository, cardRepo domain.CardRepository, workspaceRepo domain.WorkspaceRepository) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		cardRepo:      cardRepo,
		workspaceRepo: workspaceRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CommentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CommentService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Create appends a comment to the card. The caller must be a member of the
// card's workspace; the event is published only after the comment is persisted.
func (s *CommentService) Create(callerID uuid.UUID, cardID int32, content string) (*domain.Comment, error) {
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

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrContentRequired
	}
	if len(content) > MaxCommentLength {
		return nil, domain.ErrContentTooLong
	}

	comment, err := s.commentRepo.Create(&domain.Comment{
		CardID:  cardID,
		UserID:  callerID,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(card.WorkspaceID, websocket.CommentCreated(comment))
	return comment, nil
}

// ListByCard returns the card's comments oldest first with author identities
// resolved. The caller must be a member of the card's workspace.
func (s *CommentService) ListByCard(callerID uuid.UUID, cardID int32) ([]*domain.Comment, error) {
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
	return s.commentRepo.ListByCard(cardID)
}
