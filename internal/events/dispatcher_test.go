package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventIncidentCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIncidentCreated, SubjectID: "i-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "i-1", got[0].SubjectID)

	// Other event types are not delivered.
	err = d.Publish(context.Background(), Event{Type: EventSessionRequested, SubjectID: "s-1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var secondRan bool
	d.Subscribe(EventIncidentCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventIncidentCreated, func(context.Context, Event) error {
		secondRan = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventIncidentCreated}))
	assert.True(t, secondRan)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionCompleted}))
}
