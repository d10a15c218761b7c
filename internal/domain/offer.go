package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusWithdrawn = "withdrawn"
)

// Offer is an investment offer on a pitch. Status always equals the action of
// the most recent OfferAction row; the action log is append-only.
type Offer struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PitchID     uuid.UUID `gorm:"type:uuid;not null;index;column:pitch_id" json:"pitch_id"`
	Description string    `gorm:"column:description" json:"description"`
	Status      string    `gorm:"not null;default:pending;column:status;index" json:"status"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;column:created_by" json:"created_by"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Actions []OfferAction `gorm:"foreignKey:OfferID" json:"actions,omitempty"`
}

func (Offer) TableName() string { return "offer" }

type OfferAction struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OfferID uuid.UUID `gorm:"type:uuid;not null;index;column:offer_id" json:"offer_id"`
	Action  string    `gorm:"not null;column:action" json:"action"`
	ActorID uuid.UUID `gorm:"type:uuid;not null;column:actor_id" json:"actor_id"`
	Reason  string    `gorm:"column:reason" json:"reason"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (OfferAction) TableName() string { return "offer_action" }

// OfferTransitionAllowed reports whether an offer may move from one status to
// another. Pending forks to accepted or rejected; withdrawn is reachable only
// from accepted.
func OfferTransitionAllowed(from, to string) bool {
	switch from {
	case OfferStatusPending:
		return to == OfferStatusAccepted || to == OfferStatusRejected
	case OfferStatusAccepted:
		return to == OfferStatusWithdrawn
	default:
		return false
	}
}
