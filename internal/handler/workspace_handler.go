package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/middleware"
	"github.com/collabboard/collabboard-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// CreateWorkspaceRequest is the request body for POST /workspaces
type CreateWorkspaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AddMemberRequest is the request body for PUT /workspaces/:id/members
type AddMemberRequest struct {
	Email string `json:"email"`
}

// CreateWorkspace handles POST /workspaces
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	workspace, err := h.workspaceService.Create(userID, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "title", Message: err.Error()},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create workspace")
		return NewInternalError(c, "Failed to create workspace")
	}

	log.Info().Int32("workspace_id", workspace.ID).Str("user_id", userID.String()).Msg("Workspace created")

	return c.JSON(http.StatusCreated, workspace)
}

// GetWorkspaces handles GET /workspaces
func (h *WorkspaceHandler) GetWorkspaces(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaces, err := h.workspaceService.ListForUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list workspaces")
		return NewInternalError(c, "Failed to list workspaces")
	}

	return c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace handles GET /workspaces/:id
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := parseWorkspaceID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Workspace not found")
	}

	workspace, err := h.workspaceService.Get(userID, workspaceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkspaceNotFound):
			return NewNotFoundError(c, "Workspace not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "You are not a member of this workspace")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to fetch workspace")
		return NewInternalError(c, "Failed to fetch workspace")
	}

	return c.JSON(http.StatusOK, workspace)
}

// AddMember handles PUT /workspaces/:id/members
func (h *WorkspaceHandler) AddMember(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := parseWorkspaceID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Workspace not found")
	}

	var req AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Email == "" {
		return NewValidationError(c, "Email is required", []ValidationError{
			{Field: "email", Message: "email is required"},
		})
	}

	member, err := h.workspaceService.AddMember(workspaceID, userID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkspaceNotFound):
			return NewNotFoundError(c, "Workspace not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Only the owner can manage members")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "No user with that email")
		case errors.Is(err, domain.ErrAlreadyMember):
			return NewConflictError(c, "User is already a member")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to add member")
		return NewInternalError(c, "Failed to add member")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("member_id", member.ID.String()).
		Msg("Member added")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Member added",
		"member":  member,
	})
}

// RemoveMember handles DELETE /workspaces/:id/members/:memberId
func (h *WorkspaceHandler) RemoveMember(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := parseWorkspaceID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Workspace not found")
	}

	targetID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return NewNotFoundError(c, "Member not found")
	}

	members, err := h.workspaceService.RemoveMember(workspaceID, userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWorkspaceNotFound):
			return NewNotFoundError(c, "Workspace not found")
		case errors.Is(err, domain.ErrForbidden):
			return NewForbiddenError(c, "Only the owner can manage members")
		case errors.Is(err, domain.ErrOwnerRemoval):
			return NewValidationError(c, "The owner cannot be removed", nil)
		case errors.Is(err, domain.ErrNotAMember):
			return NewNotFoundError(c, "User is not a member")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to remove member")
		return NewInternalError(c, "Failed to remove member")
	}

	log.Info().
		Int32("workspace_id", workspaceID).
		Str("member_id", targetID.String()).
		Msg("Member removed")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Member removed",
		"members": members,
	})
}

// parseWorkspaceID parses a workspace path parameter
func parseWorkspaceID(param string) (int32, error) {
	id, err := strconv.ParseInt(param, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
