package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
	"github.com/nexdesk/portal-service/internal/repository"
	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

// SessionService brokers remote-desktop sessions.
type SessionService struct {
	sessions   repository.SessionRepository
	timing     repository.TimingEventRepository
	messages   repository.SessionMessageRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// SessionDependencies bundles repositories for the session service.
type SessionDependencies struct {
	SessionRepo repository.SessionRepository
	TimingRepo  repository.TimingEventRepository
	MessageRepo repository.SessionMessageRepository
	Dispatcher  events.Dispatcher
}

// TimingEventInput describes an appended timing event.
type TimingEventInput struct {
	EventType           string
	EventTimestamp      *time.Time
	ResponseTimeSeconds *float64
	Notes               string
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	return &SessionService{
		sessions:   deps.SessionRepo,
		timing:     deps.TimingRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Only one of approve/deny terminates the pending state; denied, cancelled
// and completed are terminal.
var sessionTransitions = map[domain.SessionStatus][]domain.SessionStatus{
	domain.SessionStatusPending:   {domain.SessionStatusApproved, domain.SessionStatusDenied, domain.SessionStatusCancelled},
	domain.SessionStatusApproved:  {domain.SessionStatusActive, domain.SessionStatusCancelled},
	domain.SessionStatusActive:    {domain.SessionStatusCompleted},
	domain.SessionStatusDenied:    {},
	domain.SessionStatusCompleted: {},
	domain.SessionStatusCancelled: {},
}

func isValidSessionTransition(current, next domain.SessionStatus) bool {
	for _, candidate := range sessionTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Request creates a pending session with a shareable code.
func (s *SessionService) Request(ctx context.Context, requesterID, targetUserID, purpose string) (*domain.RemoteSession, error) {
	if strings.TrimSpace(purpose) == "" {
		return nil, apperrors.NewValidationError("purpose required", nil)
	}
	if targetUserID == "" || targetUserID == requesterID {
		return nil, apperrors.NewValidationError("target user required", nil)
	}

	session := &domain.RemoteSession{
		SessionCode:  generateSessionCode(),
		RequesterID:  requesterID,
		TargetUserID: targetUserID,
		Status:       domain.SessionStatusPending,
		Purpose:      strings.TrimSpace(purpose),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventSessionRequested,
		SubjectID: session.ID,
		Actor:     events.UserActor(requesterID),
		Payload: events.SessionRequestedPayload{
			SessionCode:  session.SessionCode,
			RequesterID:  session.RequesterID,
			TargetUserID: session.TargetUserID,
			Purpose:      session.Purpose,
		},
	})
	return session, nil
}

// Approve is the target user accepting a pending request.
func (s *SessionService) Approve(ctx context.Context, targetUserID, sessionID string) (*domain.RemoteSession, error) {
	return s.decide(ctx, targetUserID, sessionID, domain.SessionStatusApproved)
}

// Deny is the target user rejecting a pending request.
func (s *SessionService) Deny(ctx context.Context, targetUserID, sessionID string) (*domain.RemoteSession, error) {
	return s.decide(ctx, targetUserID, sessionID, domain.SessionStatusDenied)
}

func (s *SessionService) decide(ctx context.Context, targetUserID, sessionID string, outcome domain.SessionStatus) (*domain.RemoteSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TargetUserID != targetUserID {
		return nil, apperrors.NewForbidden("only the target user may decide")
	}
	return s.transition(ctx, session, outcome, events.UserActor(targetUserID))
}

// Cancel may be invoked by either party before the session goes active.
func (s *SessionService) Cancel(ctx context.Context, userID, sessionID string) (*domain.RemoteSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RequesterID != userID && session.TargetUserID != userID {
		return nil, apperrors.NewForbidden("not a session participant")
	}
	return s.transition(ctx, session, domain.SessionStatusCancelled, events.UserActor(userID))
}

// Start moves an approved session to active and stamps the start time.
func (s *SessionService) Start(ctx context.Context, requesterID, sessionID string) (*domain.RemoteSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RequesterID != requesterID {
		return nil, apperrors.NewForbidden("only the requester may start")
	}
	if !isValidSessionTransition(session.Status, domain.SessionStatusActive) {
		return nil, transitionConflict(session.Status, domain.SessionStatusActive)
	}

	started := s.now()
	session.Status = domain.SessionStatusActive
	session.StartedAt = &started
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventSessionStarted,
		SubjectID: session.ID,
		Actor:     events.UserActor(requesterID),
	})
	return session, nil
}

// Complete closes an active session, recording its duration in minutes.
func (s *SessionService) Complete(ctx context.Context, requesterID, sessionID string) (*domain.RemoteSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RequesterID != requesterID {
		return nil, apperrors.NewForbidden("only the requester may complete")
	}
	if !isValidSessionTransition(session.Status, domain.SessionStatusCompleted) {
		return nil, transitionConflict(session.Status, domain.SessionStatusCompleted)
	}

	session.Status = domain.SessionStatusCompleted
	if session.StartedAt != nil {
		minutes := int(math.Round(s.now().Sub(*session.StartedAt).Minutes()))
		session.DurationMinutes = &minutes
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventSessionCompleted,
		SubjectID: session.ID,
		Actor:     events.UserActor(requesterID),
	})
	return session, nil
}

// AppendEvent records a timing event against an active session. Events are
// append-only; nothing ever updates or deletes them.
func (s *SessionService) AppendEvent(ctx context.Context, userID, sessionID string, input TimingEventInput) (*domain.TimingEvent, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RequesterID != userID && session.TargetUserID != userID {
		return nil, apperrors.NewForbidden("not a session participant")
	}
	if session.Status != domain.SessionStatusActive {
		return nil, apperrors.NewConflict("session not active", map[string]any{"status": session.Status})
	}
	if strings.TrimSpace(input.EventType) == "" {
		return nil, apperrors.NewValidationError("event_type required", nil)
	}

	timestamp := s.now()
	if input.EventTimestamp != nil {
		timestamp = *input.EventTimestamp
	}
	event := &domain.TimingEvent{
		SessionID:           session.ID,
		EventType:           strings.TrimSpace(input.EventType),
		EventTimestamp:      timestamp,
		ResponseTimeSeconds: input.ResponseTimeSeconds,
		Notes:               input.Notes,
	}
	if err := s.timing.Append(ctx, event); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventSessionEventRecorded,
		SubjectID: session.ID,
		Actor:     events.UserActor(userID),
		Payload: events.SessionEventRecordedPayload{
			EventID:   event.ID,
			EventType: event.EventType,
		},
	})
	return event, nil
}

// SendMessage posts a chat line between the two participants. Messaging is
// open from request until the session reaches a terminal state.
func (s *SessionService) SendMessage(ctx context.Context, userID, sessionID, body string) (*domain.SessionMessage, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RequesterID != userID && session.TargetUserID != userID {
		return nil, apperrors.NewForbidden("not a session participant")
	}
	switch session.Status {
	case domain.SessionStatusPending, domain.SessionStatusApproved, domain.SessionStatusActive:
	default:
		return nil, apperrors.NewConflict("session closed", map[string]any{"status": session.Status})
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("message body required", nil)
	}

	message := &domain.SessionMessage{
		SessionID: session.ID,
		SenderID:  userID,
		Body:      strings.TrimSpace(body),
		CreatedAt: s.now(),
	}
	if err := s.messages.Append(ctx, message); err != nil {
		return nil, err
	}

	recipient := session.RequesterID
	if userID == session.RequesterID {
		recipient = session.TargetUserID
	}
	s.publish(ctx, events.Event{
		Type:      events.EventSessionMessageAdded,
		SubjectID: session.ID,
		Actor:     events.UserActor(userID),
		Payload: events.SessionMessageAddedPayload{
			MessageID:   message.ID,
			SenderID:    userID,
			RecipientID: recipient,
			Body:        message.Body,
		},
	})
	return message, nil
}

// Messages lists the chat history visible to a participant.
func (s *SessionService) Messages(ctx context.Context, userID, sessionID string) ([]domain.SessionMessage, error) {
	if _, err := s.GetForUser(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID)
}

// GetForUser fetches a session visible to either participant.
func (s *SessionService) GetForUser(ctx context.Context, userID, sessionID string) (*domain.RemoteSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RequesterID != userID && session.TargetUserID != userID {
		return nil, apperrors.NewForbidden("not a session participant")
	}
	return session, nil
}

// ListForUser lists sessions where the user participates.
func (s *SessionService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.RemoteSession, error) {
	return s.sessions.ListByUser(ctx, userID, limit, offset)
}

// Events lists the timing events of a session visible to a participant.
func (s *SessionService) Events(ctx context.Context, userID, sessionID string) ([]domain.TimingEvent, error) {
	if _, err := s.GetForUser(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.timing.ListBySession(ctx, sessionID)
}

func (s *SessionService) transition(ctx context.Context, session *domain.RemoteSession, next domain.SessionStatus, actor events.Actor) (*domain.RemoteSession, error) {
	if !isValidSessionTransition(session.Status, next) {
		return nil, transitionConflict(session.Status, next)
	}
	session.Status = next
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventSessionDecided,
		SubjectID: session.ID,
		Actor:     actor,
		Payload: events.SessionDecidedPayload{
			RequesterID:  session.RequesterID,
			TargetUserID: session.TargetUserID,
			NewStatus:    session.Status,
		},
	})
	return session, nil
}

func transitionConflict(from, to domain.SessionStatus) error {
	return apperrors.NewConflict("invalid session transition", map[string]any{
		"from": from,
		"to":   to,
	})
}

func generateSessionCode() string {
	return "RS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *SessionService) publish(ctx context.Context, event events.Event) {
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
