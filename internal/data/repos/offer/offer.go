package offer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type OfferRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Offer) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Offer, error)
	ListByPitch(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID) ([]*types.Offer, error)
	// Transition appends one audit action row and flips the status in a
	// single transaction, guarded on the expected current status so
	// concurrent callers converge to one outcome.
	Transition(ctx context.Context, tx *gorm.DB, offerID uuid.UUID, from string, action *types.OfferAction) (bool, error)
}

type offerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferRepo(db *gorm.DB, baseLog *logger.Logger) OfferRepo {
	return &offerRepo{db: db, log: baseLog.With("repo", "OfferRepo")}
}

func (r *offerRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *offerRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Offer) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *offerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Offer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var row types.Offer
	err := r.conn(tx).WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("offer_action.created_at ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *offerRepo) ListByPitch(ctx context.Context, tx *gorm.DB, pitchID uuid.UUID) ([]*types.Offer, error) {
	if pitchID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Offer
	err := r.conn(tx).WithContext(ctx).
		Where("pitch_id = ?", pitchID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *offerRepo) Transition(ctx context.Context, tx *gorm.DB, offerID uuid.UUID, from string, action *types.OfferAction) (bool, error) {
	if offerID == uuid.Nil || action == nil {
		return false, pkgerrors.ErrInvalidArgument
	}

	won := false
	err := r.conn(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		res := txn.Model(&types.Offer{}).
			Where("id = ? AND status = ?", offerID, from).
			Update("status", action.Action)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		won = true
		action.OfferID = offerID
		return txn.Create(action).Error
	})
	if err != nil {
		return false, err
	}
	return won, nil
}
