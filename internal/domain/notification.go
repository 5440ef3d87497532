package domain

import "time"

// NotificationKind categorizes portal notifications.
type NotificationKind string

const (
	NotificationIncidentCreated  NotificationKind = "incident_created"
	NotificationIncidentUpdated  NotificationKind = "incident_updated"
	NotificationIncidentAssigned NotificationKind = "incident_assigned"
	NotificationSessionRequested NotificationKind = "session_requested"
	NotificationSessionDecided   NotificationKind = "session_decided"
	NotificationSessionMessage   NotificationKind = "session_message"
	NotificationSLAChanged       NotificationKind = "sla_changed"
)

// Notification is a per-user portal notification row.
type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	ReferenceID *string          `json:"reference_id,omitempty"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
