package app

import (
	"github.com/gin-gonic/gin"

	"github.com/daftaros/daftar-backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		UserHandler:         handlers.User,
		SSEHandler:          handlers.SSE,
		WorkspaceHandler:    handlers.Workspace,
		ApprovalHandler:     handlers.Approval,
		OfferHandler:        handlers.Offer,
		NotificationHandler: handlers.Notification,
	})
}
