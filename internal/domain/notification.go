package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationCategoryUpdates = "updates"
	NotificationCategoryAlert   = "alert"
	NotificationCategoryNews    = "news"
	NotificationCategoryRequest = "request"
	NotificationCategoryLink    = "link"
	NotificationCategoryNone    = "none"
)

const (
	ChannelLive = "live"
	ChannelMail = "mail"
)

// Stakeholder is an identity with a legitimate interest in an entity's
// outcome. Resolved fresh from the ownership graph on every use; never stored.
type Stakeholder struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Relation string    `json:"relation"`
}

// Notification is one persisted fan-out record. An empty TargetedUsers list
// means broadcast: visible to every user matching Role.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"column:title" json:"title,omitempty"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	Type        string    `gorm:"not null;column:type;index" json:"type"`
	Category    string    `gorm:"not null;default:none;column:category" json:"category"`
	Role        string    `gorm:"not null;column:role;index" json:"role"`

	TargetedUsers datatypes.JSONSlice[uuid.UUID] `gorm:"column:targeted_users;type:jsonb;not null;default:'[]'" json:"targeted_users"`
	Payload       datatypes.JSONMap              `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

// VisibleTo reports whether the record is visible to user u acting under role
// r: (targeted empty or u targeted) and (record role is both or matches r).
func (n *Notification) VisibleTo(u uuid.UUID, r string) bool {
	if n == nil {
		return false
	}
	if n.Role != RoleBoth && n.Role != r {
		return false
	}
	if len(n.TargetedUsers) == 0 {
		return true
	}
	for _, id := range n.TargetedUsers {
		if id == u {
			return true
		}
	}
	return false
}

// NotificationRead is per-recipient read state, one row per (notification,
// user) pair once read.
type NotificationRead struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notification_read;column:notification_id" json:"notification_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notification_read;index;column:user_id" json:"user_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (NotificationRead) TableName() string { return "notification_read" }
