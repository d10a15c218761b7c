package scout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type ScoutRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Scout) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Scout, error)
	AddCollaboration(ctx context.Context, tx *gorm.DB, row *types.ScoutCollaboration) error
	// CollaboratingDaftarIDs returns the owning daftar plus every
	// collaborator, deduplicated.
	CollaboratingDaftarIDs(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]uuid.UUID, error)
	// TransitionStatus moves the scout to a new status only when its
	// current status is one of from. Reports whether this caller performed
	// the transition.
	TransitionStatus(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID, from []string, to string) (bool, error)
}

type scoutRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoutRepo(db *gorm.DB, baseLog *logger.Logger) ScoutRepo {
	return &scoutRepo{db: db, log: baseLog.With("repo", "ScoutRepo")}
}

func (r *scoutRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *scoutRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Scout) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *scoutRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Scout, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var row types.Scout
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *scoutRepo) AddCollaboration(ctx context.Context, tx *gorm.DB, row *types.ScoutCollaboration) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *scoutRepo) CollaboratingDaftarIDs(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID) ([]uuid.UUID, error) {
	if scoutID == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	scout, err := r.GetByID(ctx, tx, scoutID)
	if err != nil {
		return nil, err
	}

	var collabIDs []uuid.UUID
	err = r.conn(tx).WithContext(ctx).
		Model(&types.ScoutCollaboration{}).
		Where("scout_id = ?", scoutID).
		Pluck("daftar_id", &collabIDs).Error
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	out := make([]uuid.UUID, 0, len(collabIDs)+1)
	if scout.DaftarID != uuid.Nil {
		seen[scout.DaftarID] = true
		out = append(out, scout.DaftarID)
	}
	for _, id := range collabIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func (r *scoutRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, scoutID uuid.UUID, from []string, to string) (bool, error) {
	if scoutID == uuid.Nil {
		return false, pkgerrors.ErrNotFound
	}
	if len(from) == 0 {
		return false, pkgerrors.ErrInvalidArgument
	}
	res := r.conn(tx).WithContext(ctx).
		Model(&types.Scout{}).
		Where("id = ? AND status IN ?", scoutID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
