package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/realtime"
)

const testCatalogYAML = `
events:
  - key: offer_received
    roles: [founder]
    channels: [live, mail]
    category: request
    audience_rule: pitch_team
    description: A new offer arrived on your pitch.
  - key: scout_launched
    roles: [founder, investor]
    channels: [live]
    category: news
    audience_rule: scout_audience
    description: A scout has gone live.
  - key: daftar_member_added
    roles: [investor]
    channels: [live]
    category: updates
    audience_rule: daftar_investors
    description: A new member joined your daftar.
`

type notificationFixture struct {
	svc      NotificationService
	audience *fakeAudience
	repo     *fakeNotificationRepo
	emitter  *fakeEmitter
	mailer   *fakeMailer
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	f := &notificationFixture{
		audience: newFakeAudience(),
		repo:     newFakeNotificationRepo(),
		emitter:  &fakeEmitter{},
		mailer:   &fakeMailer{},
	}
	catalog, err := loadEventCatalog([]byte(testCatalogYAML), f.audience)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	f.svc = NewNotificationService(newTestLogger(t), catalog, f.audience, f.repo, f.emitter, f.mailer)
	return f
}

func TestEmit_TargetedFanout(t *testing.T) {
	f := newNotificationFixture(t)
	a, b := stakeholder(types.RoleFounder), stakeholder(types.RoleFounder)
	f.audience.set(RulePitchTeam, a, b)

	f.svc.Emit(context.Background(), "offer_received", EntityRefs{PitchID: uuid.New()}, map[string]any{"k": "v"})

	if len(f.repo.created) != 1 {
		t.Fatalf("expected 1 record, got %d", len(f.repo.created))
	}
	rec := f.repo.created[0]
	if rec.Type != "offer_received" || rec.Category != types.NotificationCategoryRequest {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Role != types.RoleFounder {
		t.Fatalf("expected role founder, got %q", rec.Role)
	}
	if len(rec.TargetedUsers) != 2 {
		t.Fatalf("expected 2 targeted users, got %d", len(rec.TargetedUsers))
	}

	channels := f.emitter.channels()
	if len(channels) != 2 {
		t.Fatalf("expected 2 live pushes, got %v", channels)
	}
	want := map[string]bool{a.UserID.String(): true, b.UserID.String(): true}
	for _, ch := range channels {
		if !want[ch] {
			t.Fatalf("unexpected channel %q", ch)
		}
	}
	if f.mailer.callCount() != 1 {
		t.Fatalf("expected 1 mail dispatch, got %d", f.mailer.callCount())
	}
}

func TestEmit_EmptyAudienceBroadcastsToRoleChannels(t *testing.T) {
	f := newNotificationFixture(t)
	// scout_audience resolves to nobody: the record becomes a broadcast.

	f.svc.Emit(context.Background(), "scout_launched", EntityRefs{ScoutID: uuid.New()}, nil)

	if len(f.repo.created) != 1 {
		t.Fatalf("expected 1 record, got %d", len(f.repo.created))
	}
	rec := f.repo.created[0]
	if len(rec.TargetedUsers) != 0 {
		t.Fatalf("expected broadcast record, got targets %v", rec.TargetedUsers)
	}
	if rec.Role != types.RoleBoth {
		t.Fatalf("expected role both, got %q", rec.Role)
	}

	channels := f.emitter.channels()
	want := map[string]bool{
		realtime.RoleChannel(types.RoleFounder):  true,
		realtime.RoleChannel(types.RoleInvestor): true,
	}
	if len(channels) != 2 {
		t.Fatalf("expected both role channels, got %v", channels)
	}
	for _, ch := range channels {
		if !want[ch] {
			t.Fatalf("unexpected channel %q", ch)
		}
	}
}

func TestEmit_SingleRoleBroadcast(t *testing.T) {
	f := newNotificationFixture(t)

	f.svc.Emit(context.Background(), "daftar_member_added", EntityRefs{DaftarID: uuid.New()}, nil)

	channels := f.emitter.channels()
	if len(channels) != 1 || channels[0] != realtime.RoleChannel(types.RoleInvestor) {
		t.Fatalf("expected single investor role channel, got %v", channels)
	}
}

func TestEmit_BroadcastSkipsMail(t *testing.T) {
	f := newNotificationFixture(t)
	// offer_received carries the mail channel, but with nobody resolved
	// there is no recipient list to mail.
	f.svc.Emit(context.Background(), "offer_received", EntityRefs{PitchID: uuid.New()}, nil)

	if f.mailer.callCount() != 0 {
		t.Fatalf("broadcast must not mail, got %d dispatches", f.mailer.callCount())
	}
}

func TestEmit_UnknownEventDropped(t *testing.T) {
	f := newNotificationFixture(t)
	f.svc.Emit(context.Background(), "mystery_event", EntityRefs{}, nil)
	if len(f.repo.created) != 0 {
		t.Fatalf("unknown event must not persist")
	}
	if len(f.emitter.channels()) != 0 {
		t.Fatalf("unknown event must not push")
	}
}

func TestEmit_AudienceFailureDropped(t *testing.T) {
	f := newNotificationFixture(t)
	f.audience.err = errors.New("graph unavailable")

	f.svc.Emit(context.Background(), "offer_received", EntityRefs{PitchID: uuid.New()}, nil)

	if len(f.repo.created) != 0 {
		t.Fatalf("failed resolution must not persist")
	}
}

func TestEmit_PersistFailureSkipsChannels(t *testing.T) {
	f := newNotificationFixture(t)
	f.audience.set(RulePitchTeam, stakeholder(types.RoleFounder))
	f.repo.createErr = errors.New("connection reset")

	f.svc.Emit(context.Background(), "offer_received", EntityRefs{PitchID: uuid.New()}, nil)

	if len(f.emitter.channels()) != 0 {
		t.Fatalf("unpersisted record must not push")
	}
	if f.mailer.callCount() != 0 {
		t.Fatalf("unpersisted record must not mail")
	}
}

func TestEmit_MailFailureAbsorbed(t *testing.T) {
	f := newNotificationFixture(t)
	f.audience.set(RulePitchTeam, stakeholder(types.RoleFounder))
	f.mailer.err = errors.New("sendgrid 503")

	// Emit has no error return; a dead mail channel must not panic and the
	// live push must still go out.
	f.svc.Emit(context.Background(), "offer_received", EntityRefs{PitchID: uuid.New()}, nil)

	if len(f.repo.created) != 1 {
		t.Fatalf("expected record persisted despite mail failure")
	}
	if len(f.emitter.channels()) != 1 {
		t.Fatalf("expected live push despite mail failure")
	}
}

func TestMarkRead_UnknownNotification(t *testing.T) {
	f := newNotificationFixture(t)
	err := f.svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatalf("expected error for unknown notification")
	}
}
