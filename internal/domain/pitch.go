package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PitchStatusInbox    = "inbox"
	PitchStatusInReview = "in_review"
	PitchStatusAccepted = "accepted"
	PitchStatusDeleted  = "deleted"
)

// PitchActiveStatuses are the statuses a pitch can be deleted from. Deleted
// is terminal.
func PitchActiveStatuses() []string {
	return []string{PitchStatusInbox, PitchStatusInReview, PitchStatusAccepted}
}

// Pitch is a founder submission into a scout. The founder team votes on
// destructive actions like deletion.
type Pitch struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScoutID   *uuid.UUID `gorm:"type:uuid;index;column:scout_id" json:"scout_id,omitempty"`
	Name      string     `gorm:"not null;column:name" json:"name"`
	Stage     string     `gorm:"column:stage" json:"stage"`
	Status    string     `gorm:"not null;default:inbox;column:status;index" json:"status"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null;column:created_by" json:"created_by"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Pitch) TableName() string { return "pitch" }

type PitchTeamMember struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PitchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pitch_team;column:pitch_id" json:"pitch_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pitch_team;index;column:user_id" json:"user_id"`
	Designation string    `gorm:"column:designation" json:"designation"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PitchTeamMember) TableName() string { return "pitch_team_member" }
