package app

import (
	"github.com/daftaros/daftar-backend/internal/handlers"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/realtime"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	SSE          *handlers.SSEHandler
	Workspace    *handlers.WorkspaceHandler
	Approval     *handlers.ApprovalHandler
	Offer        *handlers.OfferHandler
	Notification *handlers.NotificationHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(services.Auth),
		User:         handlers.NewUserHandler(services.User),
		SSE:          handlers.NewSSEHandler(log, hub),
		Workspace:    handlers.NewWorkspaceHandler(services.Workspace),
		Approval:     handlers.NewApprovalHandler(services.Approval),
		Offer:        handlers.NewOfferHandler(services.Offer),
		Notification: handlers.NewNotificationHandler(services.Notification),
	}
}
