package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ScoutStatusPlanning  = "planning"
	ScoutStatusScheduled = "scheduled"
	ScoutStatusApproved  = "approved"
	ScoutStatusLive      = "live"
	ScoutStatusDeleted   = "deleted"
)

// ScoutApprovableStatuses are the statuses a scout can be approved from. A
// scout that already launched or was deleted is past the approval gate and a
// late vote must not move it.
func ScoutApprovableStatuses() []string {
	return []string{ScoutStatusPlanning, ScoutStatusScheduled}
}

// ScoutActiveStatuses are the statuses a scout can be deleted from.
func ScoutActiveStatuses() []string {
	return []string{ScoutStatusPlanning, ScoutStatusScheduled, ScoutStatusApproved, ScoutStatusLive}
}

// Scout is an intake program owned by one daftar. Other daftars join as
// collaborators and their investors become stakeholders of the scout.
type Scout struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DaftarID uuid.UUID `gorm:"type:uuid;not null;index;column:daftar_id" json:"daftar_id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Vision   string    `gorm:"column:vision" json:"vision"`
	Status   string    `gorm:"not null;default:planning;column:status;index" json:"status"`

	LaunchDate *time.Time `gorm:"column:launch_date" json:"launch_date,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Scout) TableName() string { return "scout" }

type ScoutCollaboration struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScoutID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_scout_collab;column:scout_id" json:"scout_id"`
	DaftarID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_scout_collab;index;column:daftar_id" json:"daftar_id"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScoutCollaboration) TableName() string { return "scout_collaboration" }
