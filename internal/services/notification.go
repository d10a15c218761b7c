package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	notificationrepo "github.com/daftaros/daftar-backend/internal/data/repos/notification"
	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/pkg/ctxutil"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/realtime"
)

// NotificationService is the fan-out dispatcher plus the read surface for the
// in-app feed. Emit is fire-and-forget: it never returns an error because
// notification failure must not unwind the business transaction that
// triggered it.
type NotificationService interface {
	Emit(ctx context.Context, eventKey string, refs EntityRefs, payload map[string]any)
	List(ctx context.Context, userID uuid.UUID, role string) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
	ReadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type notificationService struct {
	log      *logger.Logger
	catalog  *EventCatalog
	audience AudienceResolver
	repo     notificationrepo.NotificationRepo
	emitter  SSEEmitter
	mailer   Mailer
}

func NewNotificationService(log *logger.Logger, catalog *EventCatalog, audience AudienceResolver, repo notificationrepo.NotificationRepo, emitter SSEEmitter, mailer Mailer) NotificationService {
	return &notificationService{
		log:      log.With("service", "NotificationService"),
		catalog:  catalog,
		audience: audience,
		repo:     repo,
		emitter:  emitter,
		mailer:   mailer,
	}
}

func (s *notificationService) Emit(ctx context.Context, eventKey string, refs EntityRefs, payload map[string]any) {
	ctx = ctxutil.Default(ctx)

	def, ok := s.catalog.Get(eventKey)
	if !ok {
		s.log.Warn("Dropping notification for unknown event key", "event", eventKey)
		return
	}

	audience, err := s.audience.Resolve(ctx, AudienceRule(def.AudienceRule), refs)
	if err != nil {
		s.log.Warn("Audience resolution failed; notification dropped",
			"event", eventKey, "rule", def.AudienceRule, "error", err)
		return
	}

	targeted := make([]uuid.UUID, 0, len(audience))
	for _, sh := range audience {
		targeted = append(targeted, sh.UserID)
	}

	record := &types.Notification{
		ID:            uuid.New(),
		Description:   def.Description,
		Type:          def.Key,
		Category:      def.Category,
		Role:          def.Role(),
		TargetedUsers: datatypes.NewJSONSlice(targeted),
		Payload:       datatypes.JSONMap(payload),
	}
	if err := s.repo.Create(ctx, nil, record); err != nil {
		s.log.Error("Failed to persist notification", "event", eventKey, "error", err)
		return
	}

	// Channel pushes are best-effort and concurrent; a dead channel only
	// costs a log line.
	var g errgroup.Group
	if def.HasChannel(types.ChannelLive) {
		g.Go(func() error {
			s.pushLive(ctx, record)
			return nil
		})
	}
	if def.HasChannel(types.ChannelMail) {
		g.Go(func() error {
			s.pushMail(ctx, record, audience)
			return nil
		})
	}
	_ = g.Wait()
}

// pushLive sends the record to each targeted user's channel, or to the role
// broadcast channels when the target list is empty.
func (s *notificationService) pushLive(ctx context.Context, record *types.Notification) {
	if s.emitter == nil {
		return
	}
	channels := make([]string, 0, len(record.TargetedUsers))
	if len(record.TargetedUsers) == 0 {
		switch record.Role {
		case types.RoleBoth:
			channels = append(channels, realtime.RoleChannel(types.RoleFounder), realtime.RoleChannel(types.RoleInvestor))
		default:
			channels = append(channels, realtime.RoleChannel(record.Role))
		}
	} else {
		for _, id := range record.TargetedUsers {
			channels = append(channels, id.String())
		}
	}
	for _, ch := range channels {
		s.emitter.Emit(ctx, realtime.SSEMessage{
			Channel: ch,
			Event:   realtime.SSEEventNotification,
			Data:    record,
		})
	}
}

func (s *notificationService) pushMail(ctx context.Context, record *types.Notification, audience []types.Stakeholder) {
	if s.mailer == nil {
		return
	}
	if len(record.TargetedUsers) == 0 {
		// Broadcast records have no enumerable recipient list to mail.
		s.log.Debug("Skipping mail for broadcast notification", "event", record.Type)
		return
	}
	if err := s.mailer.Notify(ctx, record, audience); err != nil {
		s.log.Warn("Mail delivery failed", "event", record.Type, "error", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, role string) ([]*types.Notification, error) {
	return s.repo.ListVisible(ctx, nil, userID, role)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, nil, notificationID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, nil, notificationID, userID)
}

func (s *notificationService) ReadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ReadIDs(ctx, nil, userID)
}
