package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create inserts a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
}

// ref resolves an ID to a UserRef, falling back to an ID-only ref
func (m *MockUserRepository) ref(id uuid.UUID) domain.UserRef {
	if user, ok := m.ByID[id]; ok {
		return user.Ref()
	}
	return domain.UserRef{ID: id}
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[int32]*domain.Workspace
	NextID     int32
	Users      *MockUserRepository
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository backed by
// the given user repository for member ref resolution
func NewMockWorkspaceRepository(users *MockUserRepository) *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[int32]*domain.Workspace),
		NextID:     1,
		Users:      users,
	}
}

// Create persists the workspace with the owner as its first member
func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = m.NextID
	m.NextID++
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt

	ownerRef := m.Users.ref(workspace.OwnerID)
	workspace.Owner = ownerRef
	workspace.Members = []domain.UserRef{ownerRef}
	workspace.CardIDs = []int32{}

	m.Workspaces[workspace.ID] = workspace
	return workspace, nil
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if workspace, ok := m.Workspaces[id]; ok {
		return workspace, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// ListByMember returns workspaces where the user is a member, newest first
func (m *MockWorkspaceRepository) ListByMember(userID uuid.UUID) ([]*domain.Workspace, error) {
	result := []*domain.Workspace{}
	for _, workspace := range m.Workspaces {
		if workspace.HasMember(userID) {
			result = append(result, workspace)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// AddMember appends a user to the workspace member set
func (m *MockWorkspaceRepository) AddMember(workspaceID int32, userID uuid.UUID) error {
	workspace, ok := m.Workspaces[workspaceID]
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	if workspace.HasMember(userID) {
		return domain.ErrAlreadyMember
	}
	workspace.Members = append(workspace.Members, m.Users.ref(userID))
	workspace.UpdatedAt = time.Now()
	return nil
}

// RemoveMember removes a user from the workspace member set
func (m *MockWorkspaceRepository) RemoveMember(workspaceID int32, userID uuid.UUID) error {
	workspace, ok := m.Workspaces[workspaceID]
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	if !workspace.HasMember(userID) {
		return domain.ErrNotAMember
	}
	members := make([]domain.UserRef, 0, len(workspace.Members)-1)
	for _, member := range workspace.Members {
		if member.ID != userID {
			members = append(members, member)
		}
	}
	workspace.Members = members
	workspace.UpdatedAt = time.Now()
	return nil
}

// MockCardRepository is a mock implementation of domain.CardRepository
type MockCardRepository struct {
	Cards  map[int32]*domain.Card
	NextID int32
	Users  *MockUserRepository
}

// NewMockCardRepository creates a new MockCardRepository backed by the given
// user repository for assignee ref resolution
func NewMockCardRepository(users *MockUserRepository) *MockCardRepository {
	return &MockCardRepository{
		Cards:  make(map[int32]*domain.Card),
		NextID: 1,
		Users:  users,
	}
}

// Create inserts a card with its assignee set
func (m *MockCardRepository) Create(card *domain.Card, assignees []uuid.UUID) (*domain.Card, error) {
	card.ID = m.NextID
	m.NextID++
	card.Version = 1
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	card.Assignees = m.resolveRefs(assignees)
	m.Cards[card.ID] = card
	return card, nil
}

// GetByID retrieves a card by ID
func (m *MockCardRepository) GetByID(id int32) (*domain.Card, error) {
	if card, ok := m.Cards[id]; ok {
		return card, nil
	}
	return nil, domain.ErrCardNotFound
}

// Update persists the card's fields and replaces the assignee set
func (m *MockCardRepository) Update(card *domain.Card, assignees []uuid.UUID) (*domain.Card, error) {
	stored, ok := m.Cards[card.ID]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	stored.Title = card.Title
	stored.Description = card.Description
	stored.Status = card.Status
	stored.Assignees = m.resolveRefs(assignees)
	stored.Version++
	stored.UpdatedAt = time.Now()
	return stored, nil
}

// Delete removes a card
func (m *MockCardRepository) Delete(id int32) error {
	if _, ok := m.Cards[id]; !ok {
		return domain.ErrCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

// ListByWorkspace returns all cards for a workspace in creation order
func (m *MockCardRepository) ListByWorkspace(workspaceID int32) ([]*domain.Card, error) {
	cards := []*domain.Card{}
	for _, card := range m.Cards {
		if card.WorkspaceID == workspaceID {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (m *MockCardRepository) resolveRefs(ids []uuid.UUID) []domain.UserRef {
	refs := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, m.Users.ref(id))
	}
	return refs
}

// MockCommentRepository is a mock implementation of domain.CommentRepository
type MockCommentRepository struct {
	Comments map[int32]*domain.Comment
	NextID   int32
	Users    *MockUserRepository
}

// NewMockCommentRepository creates a new MockCommentRepository backed by the
// given user repository for author ref resolution
func NewMockCommentRepository(users *MockUserRepository) *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int32]*domain.Comment),
		NextID:   1,
		Users:    users,
	}
}

// Create inserts a comment with its author resolved
func (m *MockCommentRepository) Create(comment *domain.Comment) (*domain.Comment, error) {
	comment.ID = m.NextID
	m.NextID++
	comment.CreatedAt = time.Now()
	comment.User = m.Users.ref(comment.UserID)
	m.Comments[comment.ID] = comment
	return comment, nil
}

// ListByCard returns the card's comments oldest first
func (m *MockCommentRepository) ListByCard(cardID int32) ([]*domain.Comment, error) {
	comments := []*domain.Comment{}
	for _, comment := range m.Comments {
		if comment.CardID == cardID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

// PublishedEvent records a single Publish call
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// MockEventPublisher captures published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: []PublishedEvent{}}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Published returns a copy of the recorded events
func (m *MockEventPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]PublishedEvent, len(m.Events))
	copy(events, m.Events)
	return events
}
