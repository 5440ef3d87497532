package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
	"github.com/nexdesk/portal-service/internal/repository"
)

// Classification thresholds are fixed product behavior, not configuration.
// Note the progress bars scale against 1800s/180s while the classification
// bands use 1800/1200 for duration and 300/180 for response time.
const (
	responseHighSeconds   = 300.0
	responseMediumSeconds = 180.0
	durationHighSeconds   = 1800
	durationMediumSeconds = 1200

	durationProgressScale = 1800.0
	responseProgressScale = 180.0
)

// ComputeSessionMetrics derives session health from its timing events.
// Events with a missing or non-positive response time are excluded from the
// average; a session without a start timestamp has zero duration.
func ComputeSessionMetrics(timingEvents []domain.TimingEvent, startedAt *time.Time, now time.Time) domain.SessionMetrics {
	var sum float64
	var count int
	for _, ev := range timingEvents {
		if ev.ResponseTimeSeconds != nil && *ev.ResponseTimeSeconds > 0 {
			sum += *ev.ResponseTimeSeconds
			count++
		}
	}

	var avg float64
	if count > 0 {
		avg = sum / float64(count)
	}

	var duration int64
	if startedAt != nil {
		duration = int64(now.Sub(*startedAt).Seconds())
		if duration < 0 {
			duration = 0
		}
	}

	metrics := domain.SessionMetrics{
		AvgResponseSeconds:   avg,
		TotalDurationSeconds: duration,
		DurationProgress:     progress(float64(duration), durationProgressScale),
		ResponseProgress:     progress(avg, responseProgressScale),
	}

	switch {
	case avg > responseHighSeconds || duration > durationHighSeconds:
		metrics.EscalationRisk = domain.RiskHigh
		metrics.SLAStatus = domain.SLAViolated
	case avg > responseMediumSeconds || duration > durationMediumSeconds:
		metrics.EscalationRisk = domain.RiskMedium
		metrics.SLAStatus = domain.SLAAtRisk
	default:
		metrics.EscalationRisk = domain.RiskLow
		metrics.SLAStatus = domain.SLAOnTrack
	}

	return metrics
}

func progress(value, scale float64) float64 {
	p := value / scale * 100
	if p > 100 {
		return 100
	}
	return p
}

// SLATracker recomputes session metrics on new-event arrival and on a fixed
// poll, retaining the last good value per session so a failed refresh leaves
// stale-but-visible metrics instead of clearing them.
type SLATracker struct {
	sessions   repository.SessionRepository
	timing     repository.TimingEventRepository
	messages   repository.SessionMessageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time

	mu     sync.RWMutex
	latest map[string]domain.SessionMetrics
}

// SLATrackerDependencies bundles tracker requirements.
type SLATrackerDependencies struct {
	SessionRepo repository.SessionRepository
	TimingRepo  repository.TimingEventRepository
	MessageRepo repository.SessionMessageRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewSLATracker constructs the tracker.
func NewSLATracker(deps SLATrackerDependencies) *SLATracker {
	return &SLATracker{
		sessions:   deps.SessionRepo,
		timing:     deps.TimingRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
		latest:     make(map[string]domain.SessionMetrics),
	}
}

// RegisterHandlers subscribes the tracker to event-driven refreshes.
func (t *SLATracker) RegisterHandlers() {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Subscribe(events.EventSessionEventRecorded, func(ctx context.Context, event events.Event) error {
		_, err := t.Refresh(ctx, event.SubjectID)
		return err
	})
}

// Refresh recomputes metrics for one session. On a fetch failure the last
// known metrics are returned alongside the error.
func (t *SLATracker) Refresh(ctx context.Context, sessionID string) (domain.SessionMetrics, error) {
	session, err := t.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return t.lastKnown(sessionID), err
	}
	timingEvents, err := t.timing.ListBySession(ctx, sessionID)
	if err != nil {
		return t.lastKnown(sessionID), err
	}
	if t.messages != nil {
		// Part of the session snapshot; the computation itself only reads
		// timing events.
		if _, err := t.messages.ListBySession(ctx, sessionID); err != nil {
			return t.lastKnown(sessionID), err
		}
	}

	metrics := ComputeSessionMetrics(timingEvents, session.StartedAt, t.now())

	t.mu.Lock()
	previous, seen := t.latest[sessionID]
	t.latest[sessionID] = metrics
	t.mu.Unlock()

	if seen && previous.EscalationRisk != metrics.EscalationRisk {
		t.publishRiskChange(ctx, session, previous.EscalationRisk, metrics)
	}
	return metrics, nil
}

// Latest returns the last computed metrics for a session, if any.
func (t *SLATracker) Latest(sessionID string) (domain.SessionMetrics, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	metrics, ok := t.latest[sessionID]
	return metrics, ok
}

// RecomputeActive refreshes every active session; called from the poll loop.
func (t *SLATracker) RecomputeActive(ctx context.Context) {
	active, err := t.sessions.ListByStatus(ctx, domain.SessionStatusActive)
	if err != nil {
		t.logger.Warn("sla poll: listing active sessions failed", zap.Error(err))
		return
	}
	for i := range active {
		metrics, err := t.Refresh(ctx, active[i].ID)
		if err != nil {
			t.logger.Warn("sla poll: refresh failed",
				zap.String("session_id", active[i].ID), zap.Error(err))
			continue
		}
		t.logger.Debug("sla poll",
			zap.String("session_id", active[i].ID),
			zap.String("risk", string(metrics.EscalationRisk)),
			zap.Int64("duration_seconds", metrics.TotalDurationSeconds),
			zap.Float64("avg_response_seconds", metrics.AvgResponseSeconds),
		)
	}
}

// Forget drops cached metrics once a session reaches a terminal state.
func (t *SLATracker) Forget(sessionID string) {
	t.mu.Lock()
	delete(t.latest, sessionID)
	t.mu.Unlock()
}

func (t *SLATracker) lastKnown(sessionID string) domain.SessionMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest[sessionID]
}

func (t *SLATracker) publishRiskChange(ctx context.Context, session *domain.RemoteSession, oldRisk domain.EscalationRisk, metrics domain.SessionMetrics) {
	if t.dispatcher == nil {
		return
	}
	_ = t.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionSLAChanged,
		SubjectID: session.ID,
		Timestamp: t.now(),
		Payload: events.SessionSLAChangedPayload{
			TargetUserID: session.TargetUserID,
			OldRisk:      oldRisk,
			NewRisk:      metrics.EscalationRisk,
			Metrics:      metrics,
		},
	})
}
