// Package events is the in-process replacement for the browser's global
// window events: services publish, interested components subscribe. It is
// deliberately not a broker; everything lives in one process.
package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// Topics published by the library and sync services.
const (
	TopicLibrarySynced = "library.synced"
	TopicGameAdded     = "library.game_added"
	TopicLibraryUpdate = "library.updated"
)

// Event is a published notification. Payload shape depends on the topic.
type Event struct {
	Topic   string
	UserID  string
	Payload map[string]any
}

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// that stops draining its channel loses events rather than stalling a sync.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan Event
	log    zerolog.Logger
	closed bool
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]chan Event),
		log:  log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers for a topic. The returned cancel func unsubscribes
// and closes the channel.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		channels := b.subs[topic]
		for i, c := range channels {
			if c == ch {
				b.subs[topic] = append(channels[:i], channels[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber of its topic.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	channels := b.subs[event.Topic]
	b.mu.RUnlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
			b.log.Warn().Str("topic", event.Topic).Msg("subscriber full, dropping event")
		}
	}
}
