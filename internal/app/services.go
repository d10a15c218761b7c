package app

import (
	"os"

	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/platform/sendgrid"
	"github.com/daftaros/daftar-backend/internal/realtime"
	"github.com/daftaros/daftar-backend/internal/realtime/bus"
	"github.com/daftaros/daftar-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Workspace    services.WorkspaceService
	Approval     services.ApprovalService
	Offer        services.OfferService
	Notification services.NotificationService
	Audience     services.AudienceResolver
	Catalog      *services.EventCatalog
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, hub *realtime.SSEHub, sseBus bus.Bus) (Services, error) {
	log.Info("Wiring services...")

	audience := services.NewAudienceService(log, repos.Pitch, repos.Daftar, repos.Scout)

	// The catalog is validated here so a bad event definition kills the
	// process at boot instead of surfacing as silently dropped emits.
	catalog, err := services.LoadEventCatalog(audience)
	if err != nil {
		return Services{}, err
	}
	log.Info("Event catalog loaded", "events", catalog.Len())

	var emitter services.SSEEmitter
	if sseBus != nil {
		emitter = &services.RedisEmitter{Bus: sseBus}
	} else {
		emitter = &services.HubEmitter{Hub: hub}
	}

	var mailer services.Mailer
	if os.Getenv("SENDGRID_API_KEY") != "" {
		sg, err := sendgrid.NewFromEnv(log)
		if err != nil {
			log.Warn("Could not init sendgrid client, mail channel disabled", "error", err)
		} else {
			mailer = services.NewSendgridMailer(log, sg)
		}
	} else {
		log.Info("SENDGRID_API_KEY not set, mail channel disabled")
	}

	notification := services.NewNotificationService(log, catalog, audience, repos.Notification, emitter, mailer)
	auth := services.NewAuthService(log, cfg.Auth, repos.User, repos.UserToken)
	user := services.NewUserService(log, repos.User)
	workspace := services.NewWorkspaceService(log, repos.Daftar, repos.Scout, repos.Pitch, notification)
	approval := services.NewApprovalService(log, repos.ApprovalVote, audience, repos.Pitch, repos.Scout, notification)
	offer := services.NewOfferService(log, repos.Offer, repos.Pitch, notification)

	return Services{
		Auth:         auth,
		User:         user,
		Workspace:    workspace,
		Approval:     approval,
		Offer:        offer,
		Notification: notification,
		Audience:     audience,
		Catalog:      catalog,
	}, nil
}
