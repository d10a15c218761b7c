package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	daftarrepo "github.com/daftaros/daftar-backend/internal/data/repos/daftar"
	pitchrepo "github.com/daftaros/daftar-backend/internal/data/repos/pitch"
	scoutrepo "github.com/daftaros/daftar-backend/internal/data/repos/scout"
	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

// WorkspaceService covers the daftar/scout/pitch surface the approval and
// fan-out engines sit on: creating workspaces, wiring memberships and
// collaborations, and the scout lifecycle outside the approval vote.
type WorkspaceService interface {
	CreateDaftar(ctx context.Context, name, structure, website string, createdBy uuid.UUID) (*types.Daftar, error)
	AddDaftarMember(ctx context.Context, daftarID, userID uuid.UUID, designation string) error

	CreateScout(ctx context.Context, daftarID uuid.UUID, name, vision string) (*types.Scout, error)
	AddScoutCollaboration(ctx context.Context, scoutID, daftarID uuid.UUID) error
	LaunchScout(ctx context.Context, scoutID uuid.UUID) (*types.Scout, error)
	DeleteScout(ctx context.Context, scoutID uuid.UUID) error

	CreatePitch(ctx context.Context, scoutID, createdBy uuid.UUID, name, stage string) (*types.Pitch, error)
	AddPitchTeamMember(ctx context.Context, pitchID, userID uuid.UUID, designation string) error
}

type workspaceService struct {
	log      *logger.Logger
	daftars  daftarrepo.DaftarRepo
	scouts   scoutrepo.ScoutRepo
	pitches  pitchrepo.PitchRepo
	notifier NotificationService
}

func NewWorkspaceService(log *logger.Logger, daftars daftarrepo.DaftarRepo, scouts scoutrepo.ScoutRepo, pitches pitchrepo.PitchRepo, notifier NotificationService) WorkspaceService {
	return &workspaceService{
		log:      log.With("service", "WorkspaceService"),
		daftars:  daftars,
		scouts:   scouts,
		pitches:  pitches,
		notifier: notifier,
	}
}

func (s *workspaceService) CreateDaftar(ctx context.Context, name, structure, website string, createdBy uuid.UUID) (*types.Daftar, error) {
	name = strings.TrimSpace(name)
	if name == "" || createdBy == uuid.Nil {
		return nil, fmt.Errorf("%w: daftar name and creator required", pkgerrors.ErrInvalidArgument)
	}
	row := &types.Daftar{
		ID:        uuid.New(),
		Name:      name,
		Structure: structure,
		Website:   website,
		CreatedBy: createdBy,
	}
	if err := s.daftars.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	// The creator is the first member.
	if err := s.daftars.AddMember(ctx, nil, &types.DaftarMember{
		ID:       uuid.New(),
		DaftarID: row.ID,
		UserID:   createdBy,
	}); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *workspaceService) AddDaftarMember(ctx context.Context, daftarID, userID uuid.UUID, designation string) error {
	if _, err := s.daftars.GetByID(ctx, nil, daftarID); err != nil {
		return err
	}
	if userID == uuid.Nil {
		return fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	if err := s.daftars.AddMember(ctx, nil, &types.DaftarMember{
		ID:          uuid.New(),
		DaftarID:    daftarID,
		UserID:      userID,
		Designation: designation,
	}); err != nil {
		return err
	}
	s.notifier.Emit(ctx, "daftar_member_added", EntityRefs{DaftarID: daftarID}, map[string]any{
		"daftar_id": daftarID.String(),
		"user_id":   userID.String(),
	})
	return nil
}

func (s *workspaceService) CreateScout(ctx context.Context, daftarID uuid.UUID, name, vision string) (*types.Scout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: scout name required", pkgerrors.ErrInvalidArgument)
	}
	if _, err := s.daftars.GetByID(ctx, nil, daftarID); err != nil {
		return nil, err
	}
	row := &types.Scout{
		ID:       uuid.New(),
		DaftarID: daftarID,
		Name:     name,
		Vision:   vision,
		Status:   types.ScoutStatusPlanning,
	}
	if err := s.scouts.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *workspaceService) AddScoutCollaboration(ctx context.Context, scoutID, daftarID uuid.UUID) error {
	if _, err := s.scouts.GetByID(ctx, nil, scoutID); err != nil {
		return err
	}
	if _, err := s.daftars.GetByID(ctx, nil, daftarID); err != nil {
		return err
	}
	return s.scouts.AddCollaboration(ctx, nil, &types.ScoutCollaboration{
		ID:       uuid.New(),
		ScoutID:  scoutID,
		DaftarID: daftarID,
	})
}

// LaunchScout moves an approved scout live. Launch does not require a vote;
// approval does (see ApprovalService).
func (s *workspaceService) LaunchScout(ctx context.Context, scoutID uuid.UUID) (*types.Scout, error) {
	scout, err := s.scouts.GetByID(ctx, nil, scoutID)
	if err != nil {
		return nil, err
	}
	if scout.Status != types.ScoutStatusApproved {
		return nil, fmt.Errorf("%w: scout must be approved before launch, currently %q", pkgerrors.ErrInvalidArgument, scout.Status)
	}
	won, err := s.scouts.TransitionStatus(ctx, nil, scoutID, []string{types.ScoutStatusApproved}, types.ScoutStatusLive)
	if err != nil {
		return nil, err
	}
	if won {
		s.notifier.Emit(ctx, "scout_launched", EntityRefs{ScoutID: scoutID}, map[string]any{
			"scout_id": scoutID.String(),
		})
	}
	return s.scouts.GetByID(ctx, nil, scoutID)
}

func (s *workspaceService) DeleteScout(ctx context.Context, scoutID uuid.UUID) error {
	if _, err := s.scouts.GetByID(ctx, nil, scoutID); err != nil {
		return err
	}
	// Deletion is a status flip, not a row delete, so the collaboration
	// graph survives and the emit below can still resolve who cared.
	won, err := s.scouts.TransitionStatus(ctx, nil, scoutID, types.ScoutActiveStatuses(), types.ScoutStatusDeleted)
	if err != nil {
		return err
	}
	if won {
		s.notifier.Emit(ctx, "scout_deleted", EntityRefs{ScoutID: scoutID}, map[string]any{
			"scout_id": scoutID.String(),
		})
	}
	return nil
}

func (s *workspaceService) CreatePitch(ctx context.Context, scoutID, createdBy uuid.UUID, name, stage string) (*types.Pitch, error) {
	name = strings.TrimSpace(name)
	if name == "" || createdBy == uuid.Nil {
		return nil, fmt.Errorf("%w: pitch name and creator required", pkgerrors.ErrInvalidArgument)
	}
	row := &types.Pitch{
		ID:        uuid.New(),
		Name:      name,
		Stage:     stage,
		Status:    types.PitchStatusInbox,
		CreatedBy: createdBy,
	}
	if scoutID != uuid.Nil {
		if _, err := s.scouts.GetByID(ctx, nil, scoutID); err != nil {
			return nil, err
		}
		row.ScoutID = &scoutID
	}
	if err := s.pitches.Create(ctx, nil, row); err != nil {
		return nil, err
	}
	if err := s.pitches.AddTeamMember(ctx, nil, &types.PitchTeamMember{
		ID:      uuid.New(),
		PitchID: row.ID,
		UserID:  createdBy,
	}); err != nil {
		return nil, err
	}
	if scoutID != uuid.Nil {
		s.notifier.Emit(ctx, "pitch_submitted", EntityRefs{ScoutID: scoutID}, map[string]any{
			"pitch_id": row.ID.String(),
			"scout_id": scoutID.String(),
		})
	}
	return row, nil
}

func (s *workspaceService) AddPitchTeamMember(ctx context.Context, pitchID, userID uuid.UUID, designation string) error {
	if _, err := s.pitches.GetByID(ctx, nil, pitchID); err != nil {
		return err
	}
	if userID == uuid.Nil {
		return fmt.Errorf("%w: user id required", pkgerrors.ErrInvalidArgument)
	}
	if err := s.pitches.AddTeamMember(ctx, nil, &types.PitchTeamMember{
		ID:          uuid.New(),
		PitchID:     pitchID,
		UserID:      userID,
		Designation: designation,
	}); err != nil {
		return err
	}
	s.notifier.Emit(ctx, "pitch_team_invite", EntityRefs{PitchID: pitchID}, map[string]any{
		"pitch_id": pitchID.String(),
		"user_id":  userID.String(),
	})
	return nil
}
