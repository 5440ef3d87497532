package dto

import (
	"time"

	"github.com/nexdesk/portal-service/internal/domain"
)

// CreateSessionRequest payload.
type CreateSessionRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required"`
	Purpose      string `json:"purpose" validate:"required"`
}

// TimingEventRequest payload for appending session timing events.
type TimingEventRequest struct {
	EventType           string     `json:"event_type" validate:"required"`
	EventTimestamp      *time.Time `json:"event_timestamp"`
	ResponseTimeSeconds *float64   `json:"response_time_seconds"`
	Notes               string     `json:"notes"`
}

// SessionResponse serializes a remote session.
type SessionResponse struct {
	ID              string               `json:"id"`
	SessionCode     string               `json:"session_code"`
	RequesterID     string               `json:"requester_id"`
	TargetUserID    string               `json:"target_user_id"`
	Status          domain.SessionStatus `json:"status"`
	Purpose         string               `json:"purpose"`
	RequestedAt     time.Time            `json:"requested_at"`
	StartedAt       *time.Time           `json:"started_at,omitempty"`
	DurationMinutes *int                 `json:"duration_minutes,omitempty"`
}

// NewSessionResponse maps the domain model.
func NewSessionResponse(session *domain.RemoteSession) SessionResponse {
	return SessionResponse{
		ID:              session.ID,
		SessionCode:     session.SessionCode,
		RequesterID:     session.RequesterID,
		TargetUserID:    session.TargetUserID,
		Status:          session.Status,
		Purpose:         session.Purpose,
		RequestedAt:     session.RequestedAt,
		StartedAt:       session.StartedAt,
		DurationMinutes: session.DurationMinutes,
	}
}

// SessionListResponse maps a slice of sessions.
func SessionListResponse(sessions []domain.RemoteSession) []SessionResponse {
	items := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, NewSessionResponse(&sessions[i]))
	}
	return items
}

// TimingEventResponse serializes a timing event.
type TimingEventResponse struct {
	ID                  string     `json:"id"`
	EventType           string     `json:"event_type"`
	EventTimestamp      time.Time  `json:"event_timestamp"`
	ResponseTimeSeconds *float64   `json:"response_time_seconds,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

// NewTimingEventResponse maps a single timing event.
func NewTimingEventResponse(ev *domain.TimingEvent) TimingEventResponse {
	return TimingEventResponse{
		ID:                  ev.ID,
		EventType:           ev.EventType,
		EventTimestamp:      ev.EventTimestamp,
		ResponseTimeSeconds: ev.ResponseTimeSeconds,
		Notes:               ev.Notes,
	}
}

// SessionMessageRequest payload for posting a chat message.
type SessionMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// SessionMessageResponse serializes a chat message.
type SessionMessageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionMessageResponse maps a single message.
func NewSessionMessageResponse(message *domain.SessionMessage) SessionMessageResponse {
	return SessionMessageResponse{
		ID:        message.ID,
		SessionID: message.SessionID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
}

// SessionMessageListResponse maps a slice of messages.
func SessionMessageListResponse(messages []domain.SessionMessage) []SessionMessageResponse {
	items := make([]SessionMessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, NewSessionMessageResponse(&messages[i]))
	}
	return items
}

// TimingEventListResponse maps a slice of timing events.
func TimingEventListResponse(events []domain.TimingEvent) []TimingEventResponse {
	items := make([]TimingEventResponse, 0, len(events))
	for i := range events {
		items = append(items, NewTimingEventResponse(&events[i]))
	}
	return items
}
