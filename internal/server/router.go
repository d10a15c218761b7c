package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/daftaros/daftar-backend/internal/handlers"
	"github.com/daftaros/daftar-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	UserHandler         *handlers.UserHandler
	SSEHandler          *handlers.SSEHandler
	WorkspaceHandler    *handlers.WorkspaceHandler
	ApprovalHandler     *handlers.ApprovalHandler
	OfferHandler        *handlers.OfferHandler
	NotificationHandler *handlers.NotificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Daftars
	protected.POST("/daftars", cfg.WorkspaceHandler.CreateDaftar)
	protected.POST("/daftars/:id/members", cfg.WorkspaceHandler.AddDaftarMember)
	// Scouts
	protected.POST("/scouts", cfg.WorkspaceHandler.CreateScout)
	protected.POST("/scouts/:id/collaborations", cfg.WorkspaceHandler.AddScoutCollaboration)
	protected.POST("/scouts/:id/launch", cfg.WorkspaceHandler.LaunchScout)
	protected.DELETE("/scouts/:id", cfg.WorkspaceHandler.DeleteScout)
	protected.POST("/scouts/:id/approval-votes", cfg.ApprovalHandler.VoteScoutApproval)
	// Pitches
	protected.POST("/pitches", cfg.WorkspaceHandler.CreatePitch)
	protected.POST("/pitches/:id/team", cfg.WorkspaceHandler.AddPitchTeamMember)
	protected.POST("/pitches/:id/delete-votes", cfg.ApprovalHandler.VotePitchDelete)
	// Offers
	protected.POST("/pitches/:id/offers", cfg.OfferHandler.Create)
	protected.GET("/pitches/:id/offers", cfg.OfferHandler.ListByPitch)
	protected.GET("/offers/:id", cfg.OfferHandler.Get)
	protected.PATCH("/offers/:id/status", cfg.OfferHandler.UpdateStatus)
	// Notifications
	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	return router
}
