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

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService *service.CardService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CreateCardRequest is the request body for POST /cards
type CreateCardRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      *string     `json:"status"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	Workspace   int32       `json:"workspace"`
}

// UpdateCardRequest is the request body for PUT /cards/:id. Absent fields are
// left unchanged; an explicit empty assignedTo array clears the assignee set.
type UpdateCardRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	AssignedTo  *[]uuid.UUID `json:"assignedTo"`
}

// CreateCard handles POST /cards
func (h *CardHandler) CreateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.CreateCardInput{
		WorkspaceID: req.Workspace,
		Title:       req.Title,
		Description: req.Description,
		Assignees:   req.AssignedTo,
	}
	if req.Status != nil {
		status := domain.CardStatus(*req.Status)
		input.Status = &status
	}

	card, err := h.cardService.Create(userID, input)
	if err != nil {
		if mapped := mapCardError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("workspace_id", req.Workspace).Msg("Failed to create card")
		return NewInternalError(c, "Failed to create card")
	}

	log.Info().
		Int32("card_id", card.ID).
		Int32("workspace_id", card.WorkspaceID).
		Msg("Card created")

	return c.JSON(http.StatusCreated, card)
}

// UpdateCard handles PUT /cards/:id
func (h *CardHandler) UpdateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)

	cardID, err := parseCardID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	var req UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	update := domain.CardUpdate{
		Title:       req.Title,
		Description: req.Description,
		Assignees:   req.AssignedTo,
	}
	if req.Status != nil {
		status := domain.CardStatus(*req.Status)
		update.Status = &status
	}

	card, err := h.cardService.Update(userID, cardID, update)
	if err != nil {
		if mapped := mapCardError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("card_id", cardID).Msg("Failed to update card")
		return NewInternalError(c, "Failed to update card")
	}

	return c.JSON(http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/:id
func (h *CardHandler) DeleteCard(c echo.Context) error {
	userID := middleware.GetUserID(c)

	cardID, err := parseCardID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	if err := h.cardService.Delete(userID, cardID); err != nil {
		if mapped := mapCardError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("card_id", cardID).Msg("Failed to delete card")
		return NewInternalError(c, "Failed to delete card")
	}

	log.Info().Int32("card_id", cardID).Msg("Card deleted")

	return c.JSON(http.StatusOK, map[string]string{"message": "Card deleted"})
}

// GetCardsByWorkspace handles GET /cards/workspaces/:workspaceId
func (h *CardHandler) GetCardsByWorkspace(c echo.Context) error {
	userID := middleware.GetUserID(c)

	workspaceID, err := parseWorkspaceID(c.Param("workspaceId"))
	if err != nil {
		return NewNotFoundError(c, "Workspace not found")
	}

	cards, err := h.cardService.ListByWorkspace(userID, workspaceID)
	if err != nil {
		if mapped := mapCardError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to list cards")
		return NewInternalError(c, "Failed to list cards")
	}

	return c.JSON(http.StatusOK, cards)
}

// mapCardError maps known domain errors to Problem Details responses.
// Returns nil for unrecognized errors so callers can log and 500.
func mapCardError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrCardNotFound):
		return NewNotFoundError(c, "Card not found")
	case errors.Is(err, domain.ErrWorkspaceNotFound):
		return NewNotFoundError(c, "Workspace not found")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "You are not a member of this workspace")
	case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
		return NewValidationError(c, err.Error(), []ValidationError{
			{Field: "title", Message: err.Error()},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Status must be one of: todo, doing, done", []ValidationError{
			{Field: "status", Message: "invalid status"},
		})
	case errors.Is(err, domain.ErrAssigneeNotMember):
		return NewValidationError(c, "All assignees must be workspace members", []ValidationError{
			{Field: "assignedTo", Message: "assignee is not a workspace member"},
		})
	}
	return nil
}

// parseCardID parses a card path parameter
func parseCardID(param string) (int32, error) {
	id, err := strconv.ParseInt(param, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
