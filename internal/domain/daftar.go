package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Daftar is an investor workspace. Investors join as members; daftars
// collaborate on scouts to source pitches.
type Daftar struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Structure string    `gorm:"column:structure" json:"structure"`
	Website   string    `gorm:"column:website" json:"website"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;column:created_by" json:"created_by"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Daftar) TableName() string { return "daftar" }

type DaftarMember struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DaftarID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daftar_member;column:daftar_id" json:"daftar_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daftar_member;index;column:user_id" json:"user_id"`
	Designation string    `gorm:"column:designation" json:"designation"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (DaftarMember) TableName() string { return "daftar_member" }
