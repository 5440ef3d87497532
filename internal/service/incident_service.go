package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
	"github.com/nexdesk/portal-service/internal/repository"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// IncidentService coordinates incident workflows.
type IncidentService struct {
	incidents  repository.IncidentRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// IncidentDependencies bundles repositories for the incident service.
type IncidentDependencies struct {
	IncidentRepo repository.IncidentRepository
	StaffRepo    repository.StaffRepository
	Dispatcher   events.Dispatcher
}

// IncidentCreateInput describes incident creation payload.
type IncidentCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.IncidentPriority
	AssigneeID  *string
}

// IncidentStaffFilter describes staff listing filters.
type IncidentStaffFilter struct {
	OwnerID     *string
	AssigneeID  *string
	Category    *string
	Statuses    []domain.IncidentStatus
	Priorities  []domain.IncidentPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewIncidentService constructs the service.
func NewIncidentService(deps IncidentDependencies) *IncidentService {
	return &IncidentService{
		incidents:  deps.IncidentRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

var incidentTransitions = map[domain.IncidentStatus][]domain.IncidentStatus{
	domain.IncidentStatusOpen:       {domain.IncidentStatusInProgress, domain.IncidentStatusResolved, domain.IncidentStatusClosed},
	domain.IncidentStatusInProgress: {domain.IncidentStatusOpen, domain.IncidentStatusResolved, domain.IncidentStatusClosed},
	domain.IncidentStatusResolved:   {domain.IncidentStatusInProgress, domain.IncidentStatusClosed},
	domain.IncidentStatusClosed:     {},
}

func isValidIncidentTransition(current, next domain.IncidentStatus) bool {
	for _, candidate := range incidentTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create validates and persists a new incident owned by the user. Required
// fields are checked before any store call is attempted.
func (s *IncidentService) Create(ctx context.Context, ownerID string, input IncidentCreateInput) (*domain.Incident, error) {
	missing := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		missing["description"] = "required"
	}
	if input.Priority == "" {
		missing["priority"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", missing)
	}
	if !isKnownPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	incident := &domain.Incident{
		OwnerID:     ownerID,
		AssigneeID:  input.AssigneeID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Status:      domain.IncidentStatusOpen,
		Priority:    input.Priority,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventIncidentCreated,
		SubjectID: incident.ID,
		Actor:     events.UserActor(ownerID),
		Payload: events.IncidentCreatedPayload{
			OwnerID:  incident.OwnerID,
			Title:    incident.Title,
			Category: incident.Category,
			Priority: incident.Priority,
		},
	})
	return incident, nil
}

// UpdateStatus moves an incident along the transition relation. Illegal
// transitions are rejected at this boundary; otherwise the write is
// last-write-wins with no version check.
func (s *IncidentService) UpdateStatus(ctx context.Context, actor events.Actor, incidentID string, newStatus domain.IncidentStatus) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if actor.Type == domain.SubjectTypeUser && (actor.UserID == nil || incident.OwnerID != *actor.UserID) {
		return nil, apperrors.NewForbidden("not the incident owner")
	}
	if !isValidIncidentTransition(incident.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": incident.Status,
			"to":   newStatus,
		})
	}

	oldStatus := incident.Status
	incident.Status = newStatus
	if err := s.incidents.Update(ctx, incident); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventIncidentStatusChanged,
		SubjectID: incident.ID,
		Actor:     actor,
		Payload: events.IncidentStatusChangedPayload{
			OwnerID:   incident.OwnerID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return incident, nil
}

// Assign sets or clears the staff assignee.
func (s *IncidentService) Assign(ctx context.Context, staffID, incidentID string, assigneeID *string) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if assigneeID != nil {
		if _, err := s.staff.GetByID(ctx, *assigneeID); err != nil {
			return nil, apperrors.NewValidationError("unknown assignee", map[string]any{"assignee_id": *assigneeID})
		}
	}

	incident.AssigneeID = assigneeID
	if err := s.incidents.Update(ctx, incident); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventIncidentAssigned,
		SubjectID: incident.ID,
		Actor:     events.StaffActor(staffID),
		Payload: events.IncidentAssignedPayload{
			OwnerID:    incident.OwnerID,
			AssigneeID: assigneeID,
		},
	})
	return incident, nil
}

// GetForUser fetches an incident ensuring ownership.
func (s *IncidentService) GetForUser(ctx context.Context, userID, incidentID string) (*domain.Incident, error) {
	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if incident.OwnerID != userID {
		return nil, apperrors.NewForbidden("not the incident owner")
	}
	return incident, nil
}

// GetForStaff fetches an incident without an ownership check.
func (s *IncidentService) GetForStaff(ctx context.Context, incidentID string) (*domain.Incident, error) {
	return s.incidents.GetByID(ctx, incidentID)
}

// ListForUser returns incidents owned by the user, newest first.
func (s *IncidentService) ListForUser(ctx context.Context, userID string) ([]domain.Incident, error) {
	return s.incidents.ListByOwner(ctx, userID)
}

// ListForStaff returns incidents matching staff filters.
func (s *IncidentService) ListForStaff(ctx context.Context, filter IncidentStaffFilter) ([]domain.Incident, error) {
	return s.incidents.ListWithFilter(ctx, repository.IncidentFilter{
		OwnerID:     filter.OwnerID,
		AssigneeID:  filter.AssigneeID,
		Category:    filter.Category,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

// Stats fetches all incidents owned by the user and counts client-side.
//
// ResolvedToday intentionally matches the portal's historical behavior: a
// resolved incident counts when its created_at calendar date is today, not
// when it was resolved today.
func (s *IncidentService) Stats(ctx context.Context, userID string) (*domain.IncidentStats, error) {
	incidents, err := s.incidents.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	stats := &domain.IncidentStats{Total: len(incidents)}
	for i := range incidents {
		switch incidents[i].Status {
		case domain.IncidentStatusOpen:
			stats.Open++
		case domain.IncidentStatusInProgress:
			stats.InProgress++
		case domain.IncidentStatusResolved:
			stats.Resolved++
			if sameCalendarDay(incidents[i].CreatedAt, today) {
				stats.ResolvedToday++
			}
		}
		if incidents[i].Priority == domain.IncidentPriorityCritical {
			stats.Critical++
		}
	}
	return stats, nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isKnownPriority(p domain.IncidentPriority) bool {
	switch p {
	case domain.IncidentPriorityLow, domain.IncidentPriorityMedium, domain.IncidentPriorityHigh, domain.IncidentPriorityCritical:
		return true
	}
	return false
}

func (s *IncidentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
