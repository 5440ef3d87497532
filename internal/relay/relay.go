package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
	"github.com/nexdesk/portal-service/internal/repository"
)

const channelPrefix = "notify:"

// envelope is the wire shape on the Redis channel. Origin lets an instance
// skip its own messages, since local subscribers are fed directly.
type envelope struct {
	Origin       string              `json:"origin"`
	Notification domain.Notification `json:"notification"`
}

// subscriber is one bounded in-process queue.
type subscriber struct {
	id int
	ch chan domain.Notification
}

// Relay persists notifications for domain events and fans them out to
// per-user subscribers. It is constructed once at startup and passed by
// reference; subscriber registration returns an unsubscribe handle.
type Relay struct {
	repo       repository.NotificationRepository
	rdb        *redis.Client
	logger     *zap.Logger
	instanceID string
	buffer     int

	mu     sync.RWMutex
	subs   map[string][]*subscriber
	nextID int
}

// New builds the relay. A nil Redis client limits fanout to this process.
func New(repo repository.NotificationRepository, rdb *redis.Client, logger *zap.Logger, buffer int) *Relay {
	if buffer <= 0 {
		buffer = 16
	}
	return &Relay{
		repo:       repo,
		rdb:        rdb,
		logger:     logger,
		instanceID: uuid.NewString(),
		buffer:     buffer,
		subs:       make(map[string][]*subscriber),
	}
}

// RegisterHandlers subscribes the relay to the domain events it turns into
// user notifications.
func (r *Relay) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventIncidentCreated, r.handleIncidentCreated)
	dispatcher.Subscribe(events.EventIncidentStatusChanged, r.handleIncidentStatusChanged)
	dispatcher.Subscribe(events.EventIncidentAssigned, r.handleIncidentAssigned)
	dispatcher.Subscribe(events.EventSessionRequested, r.handleSessionRequested)
	dispatcher.Subscribe(events.EventSessionDecided, r.handleSessionDecided)
	dispatcher.Subscribe(events.EventSessionMessageAdded, r.handleSessionMessage)
	dispatcher.Subscribe(events.EventSessionSLAChanged, r.handleSLAChanged)
}

// Run consumes the Redis channel pattern and feeds foreign-instance
// notifications to local subscribers. It returns when ctx is cancelled.
// There is no reconnect logic; a dropped channel ends delivery for this
// process until restart.
func (r *Relay) Run(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	pubsub := r.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				r.logger.Warn("notification channel closed")
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Warn("bad notification payload", zap.Error(err))
				continue
			}
			if env.Origin == r.instanceID {
				continue
			}
			r.fanout(env.Notification)
		}
	}
}

// Notify persists the row, feeds local subscribers, and publishes to Redis
// for other instances. Persist and publish are not atomic with each other.
func (r *Relay) Notify(ctx context.Context, n *domain.Notification) error {
	if err := r.repo.Create(ctx, n); err != nil {
		return err
	}
	r.fanout(*n)

	if r.rdb != nil {
		payload, err := json.Marshal(envelope{Origin: r.instanceID, Notification: *n})
		if err != nil {
			return err
		}
		if err := r.rdb.Publish(ctx, channelPrefix+n.UserID, payload).Err(); err != nil {
			r.logger.Warn("notification publish failed", zap.Error(err))
		}
	}
	return nil
}

// Subscribe registers a bounded queue for the user's notifications and
// returns the receive channel plus an unsubscribe handle. When the queue is
// full the oldest pending notification is dropped in favor of the newest.
func (r *Relay) Subscribe(userID string) (<-chan domain.Notification, func()) {
	sub := &subscriber{ch: make(chan domain.Notification, r.buffer)}

	r.mu.Lock()
	r.nextID++
	sub.id = r.nextID
	r.subs[userID] = append(r.subs[userID], sub)
	r.mu.Unlock()

	unsubscribe := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.subs[userID]
		for i, candidate := range list {
			if candidate.id == sub.id {
				r.subs[userID] = append(list[:i], list[i+1:]...)
				close(sub.ch)
				break
			}
		}
		if len(r.subs[userID]) == 0 {
			delete(r.subs, userID)
		}
	}
	return sub.ch, unsubscribe
}

// Unread lists the user's unread notifications, newest first.
func (r *Relay) Unread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return r.repo.ListUnread(ctx, userID)
}

// MarkRead acknowledges one notification.
func (r *Relay) MarkRead(ctx context.Context, userID, id string) error {
	return r.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead acknowledges everything unread.
func (r *Relay) MarkAllRead(ctx context.Context, userID string) error {
	return r.repo.MarkAllRead(ctx, userID)
}

func (r *Relay) fanout(n domain.Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.subs[n.UserID] {
		select {
		case sub.ch <- n:
		default:
			// Queue full: drop the oldest pending item, then retry once.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- n:
			default:
			}
		}
	}
}

func (r *Relay) handleIncidentCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentCreatedPayload)
	if !ok {
		return nil
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.OwnerID,
		Kind:        domain.NotificationIncidentCreated,
		Title:       "Incident created",
		Body:        payload.Title,
		ReferenceID: &event.SubjectID,
	})
}

func (r *Relay) handleIncidentStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentStatusChangedPayload)
	if !ok {
		return nil
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.OwnerID,
		Kind:        domain.NotificationIncidentUpdated,
		Title:       "Incident status changed",
		Body:        fmt.Sprintf("%s -> %s", payload.OldStatus, payload.NewStatus),
		ReferenceID: &event.SubjectID,
	})
}

func (r *Relay) handleIncidentAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentAssignedPayload)
	if !ok {
		return nil
	}
	body := "Unassigned"
	if payload.AssigneeID != nil {
		body = "Assigned to an agent"
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.OwnerID,
		Kind:        domain.NotificationIncidentAssigned,
		Title:       "Incident assignment changed",
		Body:        body,
		ReferenceID: &event.SubjectID,
	})
}

func (r *Relay) handleSessionRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionRequestedPayload)
	if !ok {
		return nil
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.TargetUserID,
		Kind:        domain.NotificationSessionRequested,
		Title:       "Remote session requested",
		Body:        payload.Purpose,
		ReferenceID: &event.SubjectID,
	})
}

func (r *Relay) handleSessionDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionDecidedPayload)
	if !ok {
		return nil
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.RequesterID,
		Kind:        domain.NotificationSessionDecided,
		Title:       "Remote session " + strings.ToLower(string(payload.NewStatus)),
		ReferenceID: &event.SubjectID,
	})
}

func (r *Relay) handleSessionMessage(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionMessageAddedPayload)
	if !ok {
		return nil
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.RecipientID,
		Kind:        domain.NotificationSessionMessage,
		Title:       "New session message",
		Body:        payload.Body,
		ReferenceID: &event.SubjectID,
	})
}

func (r *Relay) handleSLAChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionSLAChangedPayload)
	if !ok {
		return nil
	}
	return r.Notify(ctx, &domain.Notification{
		UserID:      payload.TargetUserID,
		Kind:        domain.NotificationSLAChanged,
		Title:       "Session escalation risk changed",
		Body:        fmt.Sprintf("%s -> %s", payload.OldRisk, payload.NewRisk),
		ReferenceID: &event.SubjectID,
	})
}
