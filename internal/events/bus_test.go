package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToTopicAndWildcard(t *testing.T) {
	bus := NewBus(4, nil)
	defer bus.Close()

	created, err := bus.Subscribe(TopicTaskCreated)
	require.NoError(t, err)
	deleted, err := bus.Subscribe(TopicTaskDeleted)
	require.NoError(t, err)
	all, err := bus.Subscribe(TopicWildcard)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(NewEvent(TopicTaskCreated, map[string]interface{}{"taskId": "1"})))

	// Delivery happens inside Publish, so the buffers are settled here.
	ev := <-created.Events()
	assert.Equal(t, TopicTaskCreated, ev.Topic)
	assert.Equal(t, "1", ev.Payload["taskId"])
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.At.IsZero())

	ev = <-all.Events()
	assert.Equal(t, TopicTaskCreated, ev.Topic)

	select {
	case ev := <-deleted.Events():
		t.Fatalf("unrelated topic received %v", ev.Topic)
	default:
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus(1, nil)
	defer bus.Close()

	sub, err := bus.Subscribe(TopicTaskUpdated)
	require.NoError(t, err)

	// Publishing past the buffer must not block or error.
	require.NoError(t, bus.Publish(NewEvent(TopicTaskUpdated, map[string]interface{}{"seq": 1})))
	require.NoError(t, bus.Publish(NewEvent(TopicTaskUpdated, map[string]interface{}{"seq": 2})))

	ev := <-sub.Events()
	assert.EqualValues(t, 1, ev.Payload["seq"])

	select {
	case ev := <-sub.Events():
		t.Fatalf("second event should have been dropped, got %v", ev.Payload)
	default:
	}
}

func TestBusClose(t *testing.T) {
	bus := NewBus(0, nil)
	sub, err := bus.Subscribe(TopicWildcard)
	require.NoError(t, err)

	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(NewEvent(TopicError, nil)), ErrClosed)
	_, err = bus.Subscribe(TopicTaskCreated)
	assert.ErrorIs(t, err, ErrClosed)

	_, open := <-sub.Events()
	assert.False(t, open, "subscription channel should be closed")

	// Idempotent.
	assert.NoError(t, bus.Close())
	assert.NoError(t, sub.Unsubscribe())
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(4, nil)
	defer bus.Close()

	sub, err := bus.Subscribe(TopicStatusChanged)
	require.NoError(t, err)
	require.NoError(t, sub.Unsubscribe())

	require.NoError(t, bus.Publish(NewEvent(TopicStatusChanged, nil)))

	_, open := <-sub.Events()
	assert.False(t, open, "channel closes on unsubscribe")
	assert.Equal(t, TopicStatusChanged, sub.Topic())
}
