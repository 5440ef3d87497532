package dto

import (
	"time"

	"github.com/nexdesk/portal-service/internal/domain"
)

// CreateIncidentRequest payload.
type CreateIncidentRequest struct {
	Title       string                  `json:"title" validate:"required"`
	Description string                  `json:"description" validate:"required"`
	Category    string                  `json:"category"`
	Priority    domain.IncidentPriority `json:"priority" validate:"required"`
}

// UpdateIncidentStatusRequest payload.
type UpdateIncidentStatusRequest struct {
	Status domain.IncidentStatus `json:"status" validate:"required"`
}

// AssignIncidentRequest payload; a nil assignee clears the assignment.
type AssignIncidentRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// IncidentResponse serializes an incident.
type IncidentResponse struct {
	ID          string                  `json:"id"`
	OwnerID     string                  `json:"owner_id"`
	AssigneeID  *string                 `json:"assignee_id,omitempty"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Status      domain.IncidentStatus   `json:"status"`
	Priority    domain.IncidentPriority `json:"priority"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewIncidentResponse maps the domain model.
func NewIncidentResponse(incident *domain.Incident) IncidentResponse {
	return IncidentResponse{
		ID:          incident.ID,
		OwnerID:     incident.OwnerID,
		AssigneeID:  incident.AssigneeID,
		Title:       incident.Title,
		Description: incident.Description,
		Category:    incident.Category,
		Status:      incident.Status,
		Priority:    incident.Priority,
		CreatedAt:   incident.CreatedAt,
		UpdatedAt:   incident.UpdatedAt,
	}
}

// IncidentListResponse maps a slice of incidents.
func IncidentListResponse(incidents []domain.Incident) []IncidentResponse {
	items := make([]IncidentResponse, 0, len(incidents))
	for i := range incidents {
		items = append(items, NewIncidentResponse(&incidents[i]))
	}
	return items
}
