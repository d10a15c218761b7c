package realtime

type SSEEvent string

const (
	SSEEventNotification SSEEvent = "Notification"
)

// RoleChannel returns the broadcast channel for a role. Per-user channels are
// the user id string; role channels catch broadcast notifications whose
// targeted user list is empty.
func RoleChannel(role string) string {
	return "role:" + role
}

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
