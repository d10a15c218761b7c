package notification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Notification, error)
	// ListVisible applies the visibility rule in SQL: a record is visible to
	// (userID, role) when its role matches or is "both", and its targeted
	// list is empty (broadcast) or contains the user.
	ListVisible(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error
	ReadIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error {
	if row == nil {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(row).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Notification, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var row types.Notification
	err := r.conn(tx).WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *notificationRepo) ListVisible(ctx context.Context, tx *gorm.DB, userID uuid.UUID, role string) ([]*types.Notification, error) {
	if userID == uuid.Nil || role == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	target, err := json.Marshal([]uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	var rows []*types.Notification
	err = r.conn(tx).WithContext(ctx).
		Where("(role = ? OR role = ?)", role, types.RoleBoth).
		Where("(jsonb_array_length(targeted_users) = 0 OR targeted_users @> ?)", string(target)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error {
	if notificationID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.ErrInvalidArgument
	}
	// Idempotent: re-reading an already-read record is a no-op.
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&types.NotificationRead{
			ID:             uuid.New(),
			NotificationID: notificationID,
			UserID:         userID,
		}).Error
}

func (r *notificationRepo) ReadIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.conn(tx).WithContext(ctx).
		Model(&types.NotificationRead{}).
		Where("user_id = ?", userID).
		Pluck("notification_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
