package handler

import (
	"net/http"

	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TokenValidator validates bearer tokens and resolves them to a user ID
type TokenValidator interface {
	ValidateToken(token string) (userID uuid.UUID, err error)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	validator      TokenValidator
	authorizer     websocket.Authorizer
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, validator TokenValidator, authorizer websocket.Authorizer, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		validator:      validator,
		authorizer:     authorizer,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. The connection
// is authenticated up front; channel subscriptions happen via joinWorkspace
// frames, each re-authorized against the workspace's member set.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	// Get token from query parameter
	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	// Validate token and resolve the user
	userID, err := h.validator.ValidateToken(token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, userID, h.hub, h.authorizer)

	log.Info().
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
