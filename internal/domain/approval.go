package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApprovalActionPitchDelete   = "pitch_delete"
	ApprovalActionScoutApproval = "scout_approval"
)

// ApprovalVote is one stakeholder's consent for a named action on a subject
// entity. The required-voter set is never stored here; it is re-resolved from
// the ownership graph every time a vote is evaluated, so membership changes
// mid-vote change the requirement.
type ApprovalVote struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActionType string    `gorm:"not null;uniqueIndex:idx_approval_vote;column:action_type" json:"action_type"`
	SubjectID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_approval_vote;index;column:subject_id" json:"subject_id"`
	VoterID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_approval_vote;column:voter_id" json:"voter_id"`
	Approved   bool      `gorm:"not null;column:approved" json:"approved"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ApprovalVote) TableName() string { return "approval_vote" }

// VoteTally is what a vote submission returns to the caller.
type VoteTally struct {
	ApprovedCount int  `json:"approved_count"`
	TotalRequired int  `json:"total_required"`
	Resolved      bool `json:"resolved"`
}
