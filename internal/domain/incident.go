package domain

import "time"

// IncidentStatus enumerates lifecycle states for incidents.
type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "OPEN"
	IncidentStatusInProgress IncidentStatus = "IN_PROGRESS"
	IncidentStatusResolved   IncidentStatus = "RESOLVED"
	IncidentStatusClosed     IncidentStatus = "CLOSED"
)

// IncidentPriority enumerates urgency levels.
type IncidentPriority string

const (
	IncidentPriorityLow      IncidentPriority = "LOW"
	IncidentPriorityMedium   IncidentPriority = "MEDIUM"
	IncidentPriorityHigh     IncidentPriority = "HIGH"
	IncidentPriorityCritical IncidentPriority = "CRITICAL"
)

// Incident is the aggregate for self-service trouble reports.
type Incident struct {
	ID          string
	OwnerID     string
	AssigneeID  *string
	Title       string
	Description string
	Category    string
	Status      IncidentStatus
	Priority    IncidentPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IncidentStats aggregates per-user counts for the dashboard.
type IncidentStats struct {
	Total         int `json:"total"`
	Open          int `json:"open"`
	InProgress    int `json:"in_progress"`
	Resolved      int `json:"resolved"`
	Critical      int `json:"critical"`
	ResolvedToday int `json:"resolved_today"`
}
