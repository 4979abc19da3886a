package handler

import (
	"github.com/collabboard/collabboard-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, workspaceHandler *WorkspaceHandler, cardHandler *CardHandler, commentHandler *CommentHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate())

	// Workspace routes (protected)
	workspaces := api.Group("/workspaces")
	workspaces.Use(authMiddleware.Authenticate())
	workspaces.Use(middleware.RateLimitMiddleware(rateLimiter))
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("", workspaceHandler.GetWorkspaces)
	workspaces.GET("/:id", workspaceHandler.GetWorkspace)
	workspaces.PUT("/:id/members", workspaceHandler.AddMember)
	workspaces.DELETE("/:id/members/:memberId", workspaceHandler.RemoveMember)

	// Card routes (protected)
	cards := api.Group("/cards")
	cards.Use(authMiddleware.Authenticate())
	cards.Use(middleware.RateLimitMiddleware(rateLimiter))
	cards.POST("", cardHandler.CreateCard)
	cards.GET("/workspaces/:workspaceId", cardHandler.GetCardsByWorkspace)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.GET("/:id/comments", commentHandler.GetCommentsByCard)
	cards.POST("/:id/comments", commentHandler.CreateComment)

	// Real-time sync (token authenticated via query param)
	e.GET("/ws", wsHandler.HandleWS)
}
