package pitch

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type PitchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Pitch) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pitch, error)
	ListByScout(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]*types.Pitch, error)
	AddTeamMember(ctx context.Context, tx *gorm.DB, row *types.PitchTeamMember) error
	// TeamStakeholders joins the pitch team against the user table.
	TeamStakeholders(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID) ([]types.Stakeholder, error)
	// TeamStakeholdersForScout returns the union of team members across
	// every pitch attached to the scout.
	TeamStakeholdersForScout(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]types.Stakeholder, error)
	// TransitionStatus moves the pitch to a new status only when its
	// current status is one of from. Reports whether this caller performed
	// the transition.
	TransitionStatus(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID, from []string, to string) (bool, error)
}

type pitchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPitchRepo(db *gorm.DB, baseLog *logger.Logger) PitchRepo {
	return &pitchRepo{db: db, log: baseLog.With("repo", "PitchRepo")}
}

func (r *pitchRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *pitchRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Pitch) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *pitchRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pitch, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var row types.Pitch
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *pitchRepo) ListByScout(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]*types.Pitch, error) {
	if scoutID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Pitch
	if err := r.conn(tx).WithContext(ctx).Where("scout_id = ?", scoutID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pitchRepo) AddTeamMember(ctx context.Context, tx *gorm.DB, row *types.PitchTeamMember) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *pitchRepo) TeamStakeholders(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID) ([]types.Stakeholder, error) {
	if pitchID == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var rows []types.Stakeholder
	err := r.conn(tx).WithContext(ctx).
		Table("pitch_team_member").
		Select(`"user".id AS user_id, "user".email AS email, "user".role AS role, 'pitch_team' AS relation`).
		Joins(`JOIN "user" ON "user".id = pitch_team_member.user_id AND "user".deleted_at IS NULL`).
		Where("pitch_team_member.pitch_id = ? AND pitch_team_member.deleted_at IS NULL", pitchID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pitchRepo) TeamStakeholdersForScout(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]types.Stakeholder, error) {
	if scoutID == uuid.Nil {
		return nil, nil
	}
	var rows []types.Stakeholder
	err := r.conn(tx).WithContext(ctx).
		Table("pitch_team_member").
		Select(`DISTINCT "user".id AS user_id, "user".email AS email, "user".role AS role, 'pitch_team' AS relation`).
		Joins(`JOIN pitch ON pitch.id = pitch_team_member.pitch_id AND pitch.deleted_at IS NULL`).
		Joins(`JOIN "user" ON "user".id = pitch_team_member.user_id AND "user".deleted_at IS NULL`).
		Where("pitch.scout_id = ? AND pitch_team_member.deleted_at IS NULL", scoutID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pitchRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID, from []string, to string) (bool, error) {
	if pitchID == uuid.Nil {
		return false, pkgerrors.ErrNotFound
	}
	if len(from) == 0 {
		return false, pkgerrors.ErrInvalidArgument
	}
	res := r.conn(tx).WithContext(ctx).
		Model(&types.Pitch{}).
		Where("id = ? AND status IN ?", pitchID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
