package approval

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/daftaros/daftar-backend/internal/domain"
	pkgerrors "github.com/daftaros/daftar-backend/internal/pkg/errors"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
)

type ApprovalVoteRepo interface {
	// Upsert records a vote; a repeat vote by the same voter overwrites the
	// previous one (last write wins).
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ApprovalVote) error
	// ListForSubject returns every vote recorded for (actionType, subjectID).
	ListForSubject(ctx context.Context, tx *gorm.DB, actionType string, subjectID uuid.UUID) ([]*types.ApprovalVote, error)
}

type approvalVoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApprovalVoteRepo(db *gorm.DB, baseLog *logger.Logger) ApprovalVoteRepo {
	return &approvalVoteRepo{db: db, log: baseLog.With("repo", "ApprovalVoteRepo")}
}

func (r *approvalVoteRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *approvalVoteRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ApprovalVote) error {
	if row == nil {
		return nil
	}
	if row.ActionType == "" || row.SubjectID == uuid.Nil || row.VoterID == uuid.Nil {
		return pkgerrors.ErrInvalidArgument
	}
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "action_type"}, {Name: "subject_id"}, {Name: "voter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"approved", "updated_at"}),
		}).
		Create(row).Error
}

func (r *approvalVoteRepo) ListForSubject(ctx context.Context, tx *gorm.DB, actionType string, subjectID uuid.UUID) ([]*types.ApprovalVote, error) {
	if actionType == "" || subjectID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var rows []*types.ApprovalVote
	err := r.conn(tx).WithContext(ctx).
		Where("action_type = ? AND subject_id = ?", actionType, subjectID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
