package handler

import (
	"errors"
	"net/http"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/middleware"
	"github.com/collabboard/collabboard-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the authenticated user and their bearer token
type AuthResponse struct {
	User  domain.UserRef `json:"user"`
	Token string         `json:"token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, token, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrNameRequired),
			errors.Is(err, domain.ErrEmailRequired),
			errors.Is(err, domain.ErrPasswordTooShort):
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to register user")
		return NewInternalError(c, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, AuthResponse{User: user.Ref(), Token: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Email == "" || req.Password == "" {
		return NewValidationError(c, "Email and password are required", nil)
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Failed to log in user")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user.Ref(), Token: token})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewUnauthorizedError(c, "User no longer exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to fetch user")
		return NewInternalError(c, "Failed to fetch user")
	}

	return c.JSON(http.StatusOK, user.Ref())
}
