package events

import (
	"time"

	"github.com/nexdesk/portal-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIncidentCreated       EventType = "incident_created"
	EventIncidentStatusChanged EventType = "incident_status_changed"
	EventIncidentAssigned      EventType = "incident_assigned"
	EventSessionRequested      EventType = "session_requested"
	EventSessionDecided        EventType = "session_decided"
	EventSessionStarted        EventType = "session_started"
	EventSessionCompleted      EventType = "session_completed"
	EventSessionEventRecorded  EventType = "session_event_recorded"
	EventSessionMessageAdded   EventType = "session_message_added"
	EventSessionSLAChanged     EventType = "session_sla_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	StaffID *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserActor builds an Actor for an end-user.
func UserActor(userID string) Actor {
	return Actor{Type: domain.SubjectTypeUser, UserID: &userID}
}

// StaffActor builds an Actor for a staff member.
func StaffActor(staffID string) Actor {
	return Actor{Type: domain.SubjectTypeStaff, StaffID: &staffID}
}

// IncidentCreatedPayload payload.
type IncidentCreatedPayload struct {
	OwnerID  string                  `json:"owner_id"`
	Title    string                  `json:"title"`
	Category string                  `json:"category"`
	Priority domain.IncidentPriority `json:"priority"`
}

// IncidentStatusChangedPayload payload.
type IncidentStatusChangedPayload struct {
	OwnerID   string                `json:"owner_id"`
	OldStatus domain.IncidentStatus `json:"old_status"`
	NewStatus domain.IncidentStatus `json:"new_status"`
}

// IncidentAssignedPayload payload.
type IncidentAssignedPayload struct {
	OwnerID    string  `json:"owner_id"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// SessionRequestedPayload payload.
type SessionRequestedPayload struct {
	SessionCode  string `json:"session_code"`
	RequesterID  string `json:"requester_id"`
	TargetUserID string `json:"target_user_id"`
	Purpose      string `json:"purpose"`
}

// SessionDecidedPayload payload.
type SessionDecidedPayload struct {
	RequesterID  string               `json:"requester_id"`
	TargetUserID string               `json:"target_user_id"`
	NewStatus    domain.SessionStatus `json:"new_status"`
}

// SessionEventRecordedPayload payload.
type SessionEventRecordedPayload struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
}

// SessionMessageAddedPayload payload.
type SessionMessageAddedPayload struct {
	MessageID   string `json:"message_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

// SessionSLAChangedPayload payload.
type SessionSLAChangedPayload struct {
	TargetUserID string                `json:"target_user_id"`
	OldRisk      domain.EscalationRisk `json:"old_risk"`
	NewRisk      domain.EscalationRisk `json:"new_risk"`
	Metrics      domain.SessionMetrics `json:"metrics"`
}
