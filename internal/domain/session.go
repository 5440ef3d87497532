package domain

import "time"

// SessionStatus enumerates remote-desktop session states.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusApproved  SessionStatus = "APPROVED"
	SessionStatusDenied    SessionStatus = "DENIED"
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// RemoteSession models a brokered remote-desktop session between a
// requesting technician and a target user.
type RemoteSession struct {
	ID              string
	SessionCode     string
	RequesterID     string
	TargetUserID    string
	Status          SessionStatus
	Purpose         string
	RequestedAt     time.Time
	StartedAt       *time.Time
	DurationMinutes *int
}

// TimingEvent is an append-only timestamped record attached to a session.
// Rows are never mutated or deleted after insert.
type TimingEvent struct {
	ID                  string
	SessionID           string
	EventType           string
	EventTimestamp      time.Time
	ResponseTimeSeconds *float64
	Notes               string
}

// SessionMessage is a chat line exchanged between the two participants of a
// session while it is open.
type SessionMessage struct {
	ID        string
	SessionID string
	SenderID  string
	Body      string
	CreatedAt time.Time
}

// EscalationRisk classifies session health.
type EscalationRisk string

const (
	RiskLow    EscalationRisk = "low"
	RiskMedium EscalationRisk = "medium"
	RiskHigh   EscalationRisk = "high"
)

// SLAStatus mirrors EscalationRisk on the SLA axis.
type SLAStatus string

const (
	SLAOnTrack  SLAStatus = "on_track"
	SLAAtRisk   SLAStatus = "at_risk"
	SLAViolated SLAStatus = "violated"
)

// SessionMetrics is derived from timing events; it is never persisted.
type SessionMetrics struct {
	AvgResponseSeconds   float64        `json:"avg_response_seconds"`
	TotalDurationSeconds int64          `json:"total_duration_seconds"`
	EscalationRisk       EscalationRisk `json:"escalation_risk"`
	SLAStatus            SLAStatus      `json:"sla_status"`
	DurationProgress     float64        `json:"duration_progress"`
	ResponseProgress     float64        `json:"response_progress"`
}
