package relay

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
)

type fakeNotificationRepo struct {
	rows []domain.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.rows = append(r.rows, *n)
	return nil
}

func (r *fakeNotificationRepo) ListUnread(_ context.Context, userID string) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, n := range r.rows {
		if n.UserID == userID && !n.IsRead {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id string) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
		}
	}
	return nil
}

func newRelayForTest(buffer int) (*Relay, *fakeNotificationRepo) {
	repo := &fakeNotificationRepo{}
	return New(repo, nil, zap.NewNop(), buffer), repo
}

func TestRelayNotifyDeliversToSubscriber(t *testing.T) {
	r, repo := newRelayForTest(4)

	ch, unsubscribe := r.Subscribe("user-1")
	defer unsubscribe()

	ref := "incident-1"
	err := r.Notify(context.Background(), &domain.Notification{
		UserID:      "user-1",
		Kind:        domain.NotificationIncidentCreated,
		Title:       "Incident created",
		ReferenceID: &ref,
	})
	require.NoError(t, err)

	// Persisted and fanned out.
	require.Len(t, repo.rows, 1)
	select {
	case got := <-ch:
		assert.Equal(t, domain.NotificationIncidentCreated, got.Kind)
		assert.NotEmpty(t, got.ID)
	default:
		t.Fatal("expected a queued notification")
	}
}

func TestRelayNotifyDoesNotCrossUsers(t *testing.T) {
	r, _ := newRelayForTest(4)

	ch, unsubscribe := r.Subscribe("user-2")
	defer unsubscribe()

	require.NoError(t, r.Notify(context.Background(), &domain.Notification{
		UserID: "user-1",
		Kind:   domain.NotificationIncidentCreated,
	}))

	select {
	case <-ch:
		t.Fatal("notification leaked to the wrong subscriber")
	default:
	}
}

func TestRelayBoundedQueueDropsOldest(t *testing.T) {
	r, _ := newRelayForTest(2)

	ch, unsubscribe := r.Subscribe("user-1")
	defer unsubscribe()

	for i := 0; i < 4; i++ {
		require.NoError(t, r.Notify(context.Background(), &domain.Notification{
			UserID: "user-1",
			Kind:   domain.NotificationIncidentUpdated,
			Title:  fmt.Sprintf("n%d", i),
		}))
	}

	// The queue holds the newest two; n0 and n1 were dropped.
	first := <-ch
	second := <-ch
	assert.Equal(t, "n2", first.Title)
	assert.Equal(t, "n3", second.Title)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra notification %q", extra.Title)
	default:
	}
}

func TestRelayUnsubscribeClosesChannel(t *testing.T) {
	r, _ := newRelayForTest(4)

	ch, unsubscribe := r.Subscribe("user-1")
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Notify after unsubscribe must not panic or deliver.
	require.NoError(t, r.Notify(context.Background(), &domain.Notification{
		UserID: "user-1",
		Kind:   domain.NotificationIncidentCreated,
	}))
}

func TestRelayMultipleSubscribersEachReceive(t *testing.T) {
	r, _ := newRelayForTest(4)

	ch1, unsub1 := r.Subscribe("user-1")
	defer unsub1()
	ch2, unsub2 := r.Subscribe("user-1")
	defer unsub2()

	require.NoError(t, r.Notify(context.Background(), &domain.Notification{
		UserID: "user-1",
		Kind:   domain.NotificationSessionRequested,
	}))

	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)
}

func TestRelayEventHandlers(t *testing.T) {
	r, repo := newRelayForTest(8)
	dispatcher := events.NewInMemoryDispatcher()
	r.RegisterHandlers(dispatcher)

	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventIncidentCreated,
		SubjectID: "incident-1",
		Payload: events.IncidentCreatedPayload{
			OwnerID: "user-1",
			Title:   "VPN down",
		},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionRequested,
		SubjectID: "session-1",
		Payload: events.SessionRequestedPayload{
			RequesterID:  "tech-1",
			TargetUserID: "user-2",
			Purpose:      "screen share",
		},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionDecided,
		SubjectID: "session-1",
		Payload: events.SessionDecidedPayload{
			RequesterID:  "tech-1",
			TargetUserID: "user-2",
			NewStatus:    domain.SessionStatusApproved,
		},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionSLAChanged,
		SubjectID: "session-1",
		Payload: events.SessionSLAChangedPayload{
			TargetUserID: "user-2",
			OldRisk:      domain.RiskLow,
			NewRisk:      domain.RiskHigh,
		},
	}))

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionMessageAdded,
		SubjectID: "session-1",
		Payload: events.SessionMessageAddedPayload{
			SenderID:    "tech-1",
			RecipientID: "user-2",
			Body:        "starting in a minute",
		},
	}))

	require.Len(t, repo.rows, 5)

	ownerRows, err := r.Unread(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, ownerRows, 1)
	assert.Equal(t, domain.NotificationIncidentCreated, ownerRows[0].Kind)
	require.NotNil(t, ownerRows[0].ReferenceID)
	assert.Equal(t, "incident-1", *ownerRows[0].ReferenceID)

	targetRows, err := r.Unread(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, targetRows, 3)

	// Session decisions notify the requester.
	requesterRows, err := r.Unread(ctx, "tech-1")
	require.NoError(t, err)
	require.Len(t, requesterRows, 1)
	assert.Equal(t, "Remote session approved", requesterRows[0].Title)
}

func TestRelayMarkRead(t *testing.T) {
	r, _ := newRelayForTest(4)
	ctx := context.Background()

	require.NoError(t, r.Notify(ctx, &domain.Notification{UserID: "user-1", Kind: domain.NotificationIncidentCreated}))
	require.NoError(t, r.Notify(ctx, &domain.Notification{UserID: "user-1", Kind: domain.NotificationIncidentUpdated}))

	unread, err := r.Unread(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 2)

	// Scoped to the owning user.
	require.Error(t, r.MarkRead(ctx, "user-2", unread[0].ID))

	require.NoError(t, r.MarkRead(ctx, "user-1", unread[0].ID))
	unread, err = r.Unread(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, r.MarkAllRead(ctx, "user-1"))
	unread, err = r.Unread(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, unread)
}
