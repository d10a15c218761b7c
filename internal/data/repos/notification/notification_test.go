package notification

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

func testRepo(t *testing.T) NotificationRepo {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)
	if err := db.AutoMigrate(&types.Notification{}, &types.NotificationRead{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	db.Exec("TRUNCATE notification, notification_read")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewNotificationRepo(db, log)
}

func TestListVisible_AppliesVisibilityRule(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	forAlice := &types.Notification{
		ID: uuid.New(), Type: "offer_received", Category: types.NotificationCategoryRequest,
		Role:          types.RoleFounder,
		TargetedUsers: datatypes.NewJSONSlice([]uuid.UUID{alice}),
	}
	investorBroadcast := &types.Notification{
		ID: uuid.New(), Type: "scout_launched", Category: types.NotificationCategoryNews,
		Role:          types.RoleInvestor,
		TargetedUsers: datatypes.NewJSONSlice([]uuid.UUID{}),
	}
	forBobBothRoles := &types.Notification{
		ID: uuid.New(), Type: "pitch_team_invite", Category: types.NotificationCategoryRequest,
		Role:          types.RoleBoth,
		TargetedUsers: datatypes.NewJSONSlice([]uuid.UUID{bob}),
	}
	for _, n := range []*types.Notification{forAlice, investorBroadcast, forBobBothRoles} {
		if err := repo.Create(ctx, nil, n); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListVisible(ctx, nil, alice, types.RoleFounder)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(got) != 1 || got[0].ID != forAlice.ID {
		t.Fatalf("alice/founder should see exactly her targeted record, got %d rows", len(got))
	}

	got, err = repo.ListVisible(ctx, nil, bob, types.RoleInvestor)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	seen := map[uuid.UUID]bool{}
	for _, n := range got {
		seen[n.ID] = true
	}
	if len(got) != 2 || !seen[investorBroadcast.ID] || !seen[forBobBothRoles.ID] {
		t.Fatalf("bob/investor should see broadcast plus his targeted record, got %d rows", len(got))
	}

	got, err = repo.ListVisible(ctx, nil, bob, types.RoleFounder)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(got) != 1 || got[0].ID != forBobBothRoles.ID {
		t.Fatalf("bob/founder should see only the both-roles record, got %d rows", len(got))
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	user := uuid.New()
	rec := &types.Notification{
		ID: uuid.New(), Type: "scout_deleted", Category: types.NotificationCategoryAlert,
		Role:          types.RoleInvestor,
		TargetedUsers: datatypes.NewJSONSlice([]uuid.UUID{user}),
	}
	if err := repo.Create(ctx, nil, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.MarkRead(ctx, nil, rec.ID, user); err != nil {
		t.Fatalf("first MarkRead: %v", err)
	}
	if err := repo.MarkRead(ctx, nil, rec.ID, user); err != nil {
		t.Fatalf("repeat MarkRead must be a no-op: %v", err)
	}

	ids, err := repo.ReadIDs(ctx, nil, user)
	if err != nil {
		t.Fatalf("ReadIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != rec.ID {
		t.Fatalf("expected single read id, got %v", ids)
	}
}

func TestCreate_TargetsAndPayloadSurviveReRead(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	row := &types.Notification{
		ID:            uuid.New(),
		Title:         "Offer received",
		Type:          "offer_received",
		Category:      "request",
		Role:          types.RoleFounder,
		TargetedUsers: datatypes.JSONSlice[uuid.UUID]{second, first},
		Payload: datatypes.JSONMap{
			"offer_id": first.String(),
			"pitch_id": second.String(),
			"amount":   "250000",
		},
	}
	if err := repo.Create(ctx, nil, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, row.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	// Target membership is what matters, not storage order.
	want := map[uuid.UUID]bool{first: true, second: true}
	if len(got.TargetedUsers) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(got.TargetedUsers))
	}
	for _, id := range got.TargetedUsers {
		if !want[id] {
			t.Fatalf("unexpected target %s", id)
		}
	}

	if len(got.Payload) != len(row.Payload) {
		t.Fatalf("expected %d payload keys, got %d", len(row.Payload), len(got.Payload))
	}
	for k, v := range row.Payload {
		rv, ok := got.Payload[k]
		if !ok {
			t.Fatalf("payload key %q lost in round trip", k)
		}
		if rv != v {
			t.Fatalf("payload key %q changed: want %v, got %v", k, v, rv)
		}
	}
}
