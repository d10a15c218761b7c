package daftar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type DaftarRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Daftar) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Daftar, error)
	AddMember(ctx context.Context, tx *gorm.DB, row *types.DaftarMember) error
	RemoveMember(ctx context.Context, tx *gorm.DB, daftarID, userID uuid.UUID) error
	// InvestorStakeholders joins members against the user table for every
	// daftar in daftarIDs and returns them as investor stakeholders.
	InvestorStakeholders(ctx context.Context, tx *gorm.DB, daftarIDs []uuid.UUID) ([]types.Stakeholder, error)
	MemberDaftarIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type daftarRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDaftarRepo(db *gorm.DB, baseLog *logger.Logger) DaftarRepo {
	return &daftarRepo{db: db, log: baseLog.With("repo", "DaftarRepo")}
}

func (r *daftarRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *daftarRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Daftar) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *daftarRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Daftar, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var row types.Daftar
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *daftarRepo) AddMember(ctx context.Context, tx *gorm.DB, row *types.DaftarMember) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *daftarRepo) RemoveMember(ctx context.Context, tx *gorm.DB, daftarID, userID uuid.UUID) error {
	if daftarID == uuid.Nil || userID == uuid.Nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Where("daftar_id = ? AND user_id = ?", daftarID, userID).
		Delete(&types.DaftarMember{}).Error
}

func (r *daftarRepo) InvestorStakeholders(ctx context.Context, tx *gorm.DB, daftarIDs []uuid.UUID) ([]types.Stakeholder, error) {
	if len(daftarIDs) == 0 {
		return nil, nil
	}
	var rows []types.Stakeholder
	err := r.conn(tx).WithContext(ctx).
		Table("daftar_member").
		Select(`"user".id AS user_id, "user".email AS email, "user".role AS role, 'daftar_investor' AS relation`).
		Joins(`JOIN "user" ON "user".id = daftar_member.user_id AND "user".deleted_at IS NULL`).
		Where("daftar_member.daftar_id IN ? AND daftar_member.deleted_at IS NULL", daftarIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *daftarRepo) MemberDaftarIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.conn(tx).WithContext(ctx).
		Model(&types.DaftarMember{}).
		Where("user_id = ?", userID).
		Pluck("daftar_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
