package events

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch, cancel := bus.Subscribe(TopicLibrarySynced)
	defer cancel()

	bus.Publish(Event{
		Topic:   TopicLibrarySynced,
		UserID:  "u1",
		Payload: map[string]any{"count": 12},
	})

	select {
	case ev := <-ch:
		assert.Equal(t, "u1", ev.UserID)
		assert.Equal(t, 12, ev.Payload["count"])
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishToOtherTopicNotDelivered(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch, cancel := bus.Subscribe(TopicGameAdded)
	defer cancel()

	bus.Publish(Event{Topic: TopicLibrarySynced, UserID: "u1"})

	select {
	case <-ch:
		t.Fatal("unexpected delivery")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch, cancel := bus.Subscribe(TopicLibraryUpdate)
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancel must not panic or deliver.
	bus.Publish(Event{Topic: TopicLibraryUpdate})
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	_, cancel := bus.Subscribe(TopicLibrarySynced)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Overflow the buffer; Publish must stay non-blocking.
		for i := 0; i < 100; i++ {
			bus.Publish(Event{Topic: TopicLibrarySynced})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
