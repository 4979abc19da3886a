package service

import (
	"strings"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/google/uuid"
)

// WorkspaceService handles workspace and membership business logic
type WorkspaceService struct {
	workspaceRepo  domain.WorkspaceRepository
	userRepo       domain.UserRepository
	eventPublisher websocket.EventPublisher
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(workspaceRepo domain.WorkspaceRepository, userRepo domain.UserRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *WorkspaceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *WorkspaceService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// Create creates a workspace owned by the caller. The caller becomes both
// owner and first member.
func (s *WorkspaceService) Create(ownerID uuid.UUID, title, description string) (*domain.Workspace, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if len(title) > domain.MaxTitleLength {
		return nil, domain.ErrTitleTooLong
	}

	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.Create(&domain.Workspace{
		Title:       title,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
	})
	if err != nil {
		return nil, err
	}

	workspace.Owner = owner.Ref()
	workspace.Members = []domain.UserRef{owner.Ref()}
	workspace.CardIDs = []int32{}
	return workspace, nil
}

// ListForUser returns all workspaces where the user is a member, newest first
func (s *WorkspaceService) ListForUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	return s.workspaceRepo.ListByMember(userID)
}

// Get retrieves a workspace with owner, members, and cards resolved.
// The caller must be a member.
func (s *WorkspaceService) Get(callerID uuid.UUID, workspaceID int32) (*domain.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if !workspace.Authorize(callerID).AtLeastMember() {
		return nil, domain.ErrForbidden
	}
	return workspace, nil
}

// AddMember resolves the target email to a user and appends them to the
// member set. Only the owner may manage membership.
func (s *WorkspaceService) AddMember(workspaceID int32, callerID uuid.UUID, targetEmail string) (*domain.UserRef, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace.Authorize(callerID) != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}

	target, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(targetEmail)))
	if err != nil {
		return nil, err
	}
	if workspace.Authorize(target.ID).AtLeastMember() {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.workspaceRepo.AddMember(workspaceID, target.ID); err != nil {
		return nil, err
	}

	ref := target.Ref()
	s.publishEvent(workspaceID, websocket.MemberAdded(map[string]interface{}{
		"workspaceId": workspaceID,
		"member":      ref,
	}))
	return &ref, nil
}

// RemoveMember removes a user from the member set and returns the remaining
// members. Only the owner may manage membership; the owner themself can
// never be removed.
func (s *WorkspaceService) RemoveMember(workspaceID int32, callerID, targetID uuid.UUID) ([]domain.UserRef, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace.Authorize(callerID) != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}
	if targetID == workspace.OwnerID {
		return nil, domain.ErrOwnerRemoval
	}
	if !workspace.HasMember(targetID) {
		return nil, domain.ErrNotAMember
	}

	if err := s.workspaceRepo.RemoveMember(workspaceID, targetID); err != nil {
		return nil, err
	}

	remaining := make([]domain.UserRef, 0, len(workspace.Members)-1)
	for _, member := range workspace.Members {
		if member.ID != targetID {
			remaining = append(remaining, member)
		}
	}

	s.publishEvent(workspaceID, websocket.MemberRemoved(map[string]interface{}{
		"workspaceId": workspaceID,
		"memberId":    targetID,
	}))
	return remaining, nil
}

// CanJoin implements websocket.Authorizer: a channel subscription runs the
// same access decision as any REST mutation.
func (s *WorkspaceService) CanJoin(userID uuid.UUID, workspaceID int32) error {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return err
	}
	if !workspace.Authorize(userID).AtLeastMember() {
		return domain.ErrForbidden
	}
	return nil
}
