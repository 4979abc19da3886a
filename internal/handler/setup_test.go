package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/middleware"
	"github.com/collabboard/collabboard-backend/internal/service"
	"github.com/collabboard/collabboard-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// fixture wires the handlers against in-memory repositories
type fixture struct {
	e         *echo.Echo
	userRepo    *testutil.MockUserRepository
	wsRepo      *testutil.MockWorkspaceRepository
	cardRepo    *testutil.MockCardRepository
	commentRepo *testutil.MockCommentRepository
	publisher   *testutil.MockEventPublisher

	authHandler      *AuthHandler
	workspaceHandler *WorkspaceHandler
	cardHandler      *CardHandler
	commentHandler   *CommentHandler

	owner    *domain.User
	member   *domain.User
	outsider *domain.User
}

func newFixture() *fixture {
	userRepo := testutil.NewMockUserRepository()
	wsRepo := testutil.NewMockWorkspaceRepository(userRepo)
	cardRepo := testutil.NewMockCardRepository(userRepo)
	commentRepo := testutil.NewMockCommentRepository(userRepo)
	publisher := testutil.NewMockEventPublisher()

	authService := service.NewAuthService(userRepo, "test-secret")
	workspaceService := service.NewWorkspaceService(wsRepo, userRepo)
	workspaceService.SetEventPublisher(publisher)
	cardService := service.NewCardService(cardRepo, wsRepo)
	cardService.SetEventPublisher(publisher)
	commentService := service.NewCommentService(commentRepo, cardRepo, wsRepo)
	commentService.SetEventPublisher(publisher)

	owner := &domain.User{Name: "Owner", Email: "owner@example.com"}
	member := &domain.User{Name: "Member", Email: "member@example.com"}
	outsider := &domain.User{Name: "Outsider", Email: "outsider@example.com"}
	userRepo.AddUser(owner)
	userRepo.AddUser(member)
	userRepo.AddUser(outsider)

	return &fixture{
		e:                echo.New(),
		userRepo:         userRepo,
		wsRepo:           wsRepo,
		cardRepo:         cardRepo,
		commentRepo:      commentRepo,
		publisher:        publisher,
		authHandler:      NewAuthHandler(authService),
		workspaceHandler: NewWorkspaceHandler(workspaceService),
		cardHandler:      NewCardHandler(cardService),
		commentHandler:   NewCommentHandler(commentService),
		owner:            owner,
		member:           member,
		outsider:         outsider,
	}
}

// workspace creates a workspace owned by f.owner with f.member in the member set
func (f *fixture) workspace(t *testing.T) *domain.Workspace {
	t.Helper()
	workspace, err := f.wsRepo.Create(&domain.Workspace{Title: "Sprint board", OwnerID: f.owner.ID})
	if err != nil {
		t.Fatalf("workspace Create() error = %v", err)
	}
	if err := f.wsRepo.AddMember(workspace.ID, f.member.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	return workspace
}

// request builds an authenticated echo context carrying a JSON body
func (f *fixture) request(method, path, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if userID != uuid.Nil {
		middleware.SetUserID(c, userID)
	}
	return c, rec
}

// decode unmarshals a recorded JSON response body
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// assertProblem checks the recorded status and the Problem Details type URL
func assertProblem(t *testing.T, rec *httptest.ResponseRecorder, status int, errorType string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var problem ProblemDetails
	decode(t, rec, &problem)
	if problem.Type != errorType {
		t.Errorf("problem type = %q, want %q", problem.Type, errorType)
	}
}
