package handler

import (
	"errors"
	"net/http"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/middleware"
	"github.com/collabboard/collabboard-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles card comment HTTP requests
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest is the request body for POST /cards/:id/comments
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /cards/:id/comments
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := middleware.GetUserID(c)

	cardID, err := parseCardID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	comment, err := h.commentService.Create(userID, cardID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrContentRequired), errors.Is(err, domain.ErrContentTooLong):
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "content", Message: err.Error()},
			})
		}
		if mapped := mapCardError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("card_id", cardID).Msg("Failed to create comment")
		return NewInternalError(c, "Failed to create comment")
	}

	log.Info().
		Int32("comment_id", comment.ID).
		Int32("card_id", cardID).
		Msg("Comment created")

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByCard handles GET /cards/:id/comments
func (h *CommentHandler) GetCommentsByCard(c echo.Context) error {
	userID := middleware.GetUserID(c)

	cardID, err := parseCardID(c.Param("id"))
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	comments, err := h.commentService.ListByCard(userID, cardID)
	if err != nil {
		if mapped := mapCardError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("card_id", cardID).Msg("Failed to list comments")
		return NewInternalError(c, "Failed to list comments")
	}

	return c.JSON(http.StatusOK, comments)
}
