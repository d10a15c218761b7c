package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
)

type workspaceFixture struct {
	svc      WorkspaceService
	daftars  *fakeDaftarRepo
	scouts   *fakeScoutRepo
	pitches  *fakePitchRepo
	notifier *fakeNotifier
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	f := &workspaceFixture{
		daftars:  newFakeDaftarRepo(),
		scouts:   newFakeScoutRepo(),
		pitches:  newFakePitchRepo(),
		notifier: &fakeNotifier{},
	}
	f.svc = NewWorkspaceService(newTestLogger(t), f.daftars, f.scouts, f.pitches, f.notifier)
	return f
}

func TestLaunchScout_RequiresApprovedStatus(t *testing.T) {
	f := newWorkspaceFixture(t)
	scoutID := uuid.New()
	f.scouts.scouts[scoutID] = &types.Scout{ID: scoutID, Status: types.ScoutStatusPlanning}

	_, err := f.svc.LaunchScout(context.Background(), scoutID)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unapproved scout, got %v", err)
	}
	if len(f.notifier.calls()) != 0 {
		t.Fatalf("failed launch must not emit")
	}
}

func TestLaunchScout_ApprovedGoesLiveAndAnnounces(t *testing.T) {
	f := newWorkspaceFixture(t)
	scoutID := uuid.New()
	f.scouts.scouts[scoutID] = &types.Scout{ID: scoutID, Status: types.ScoutStatusApproved}

	scout, err := f.svc.LaunchScout(context.Background(), scoutID)
	if err != nil {
		t.Fatalf("LaunchScout: %v", err)
	}
	if scout.Status != types.ScoutStatusLive {
		t.Fatalf("expected live, got %q", scout.Status)
	}
	emits := f.notifier.calls()
	if len(emits) != 1 || emits[0].eventKey != "scout_launched" {
		t.Fatalf("expected scout_launched emit, got %+v", emits)
	}
}

func TestDeleteScout_EmitsOnceAndRepeatIsSilent(t *testing.T) {
	f := newWorkspaceFixture(t)
	scoutID := uuid.New()
	f.scouts.scouts[scoutID] = &types.Scout{ID: scoutID, Status: types.ScoutStatusLive}

	ctx := context.Background()
	if err := f.svc.DeleteScout(ctx, scoutID); err != nil {
		t.Fatalf("DeleteScout: %v", err)
	}
	// A repeat delete finds the scout already terminal: no second announce.
	if err := f.svc.DeleteScout(ctx, scoutID); err != nil {
		t.Fatalf("repeat DeleteScout: %v", err)
	}

	emits := f.notifier.calls()
	if len(emits) != 1 || emits[0].eventKey != "scout_deleted" {
		t.Fatalf("expected one scout_deleted emit, got %+v", emits)
	}
	got, _ := f.scouts.GetByID(ctx, nil, scoutID)
	if got.Status != types.ScoutStatusDeleted {
		t.Fatalf("expected deleted, got %q", got.Status)
	}
}

func TestCreatePitch_LinkedToScoutAnnouncesSubmission(t *testing.T) {
	f := newWorkspaceFixture(t)
	daftarID := uuid.New()
	f.daftars.daftars[daftarID] = &types.Daftar{ID: daftarID}
	scoutID := uuid.New()
	f.scouts.scouts[scoutID] = &types.Scout{ID: scoutID, DaftarID: daftarID, Status: types.ScoutStatusLive}

	pitch, err := f.svc.CreatePitch(context.Background(), scoutID, uuid.New(), "acme", "seed")
	if err != nil {
		t.Fatalf("CreatePitch: %v", err)
	}
	if pitch.ScoutID == nil || *pitch.ScoutID != scoutID {
		t.Fatalf("expected pitch linked to scout")
	}
	emits := f.notifier.calls()
	if len(emits) != 1 || emits[0].eventKey != "pitch_submitted" {
		t.Fatalf("expected pitch_submitted emit, got %+v", emits)
	}
}

func TestCreatePitch_UnlinkedIsSilent(t *testing.T) {
	f := newWorkspaceFixture(t)
	pitch, err := f.svc.CreatePitch(context.Background(), uuid.Nil, uuid.New(), "acme", "seed")
	if err != nil {
		t.Fatalf("CreatePitch: %v", err)
	}
	if pitch.ScoutID != nil {
		t.Fatalf("expected no scout link")
	}
	if len(f.notifier.calls()) != 0 {
		t.Fatalf("unlinked pitch must not announce")
	}
}

func TestAddDaftarMember_Announces(t *testing.T) {
	f := newWorkspaceFixture(t)
	daftarID := uuid.New()
	f.daftars.daftars[daftarID] = &types.Daftar{ID: daftarID}

	if err := f.svc.AddDaftarMember(context.Background(), daftarID, uuid.New(), "partner"); err != nil {
		t.Fatalf("AddDaftarMember: %v", err)
	}
	emits := f.notifier.calls()
	if len(emits) != 1 || emits[0].eventKey != "daftar_member_added" {
		t.Fatalf("expected daftar_member_added emit, got %+v", emits)
	}
}

func TestCreateDaftar_RequiresName(t *testing.T) {
	f := newWorkspaceFixture(t)
	_, err := f.svc.CreateDaftar(context.Background(), "   ", "", "", uuid.New())
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
