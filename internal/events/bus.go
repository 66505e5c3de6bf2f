package events

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when publishing to or subscribing on a closed bus.
var ErrClosed = errors.New("event bus closed")

// defaultBufferSize is the per-subscription channel capacity.
const defaultBufferSize = 64

// Bus is an in-process publish/subscribe channel with per-topic fan-out.
// Delivery is non-blocking: when a subscriber's buffer is full the incoming
// event is dropped rather than stalling publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]*Subscription
	closed atomic.Bool
	logger *slog.Logger
	buffer int
}

// Subscription is one subscriber's view of a topic.
type Subscription struct {
	topic  Topic
	ch     chan Event
	closed atomic.Bool
	bus    *Bus
}

// NewBus creates an event bus. bufferSize <= 0 selects the default; logger
// may be nil.
func NewBus(bufferSize int, logger *slog.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[Topic][]*Subscription),
		logger: logger,
		buffer: bufferSize,
	}
}

// Subscribe registers for a topic. Use TopicWildcard to receive every event.
func (b *Bus) Subscribe(topic Topic) (*Subscription, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	sub := &Subscription{
		topic: topic,
		ch:    make(chan Event, b.buffer),
		bus:   b,
	}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()
	return sub, nil
}

// Publish delivers an event to every subscriber of its topic and to every
// wildcard subscriber.
func (b *Bus) Publish(ev Event) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs[ev.Topic])+len(b.subs[TopicWildcard]))
	targets = append(targets, b.subs[ev.Topic]...)
	if ev.Topic != TopicWildcard {
		targets = append(targets, b.subs[TopicWildcard]...)
	}
	b.mu.RUnlock()

	for _, sub := range targets {
		if sub.closed.Load() {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warn("event dropped, subscriber buffer full", "topic", ev.Topic, "event", ev.ID)
		}
	}
	return nil
}

// Close shuts the bus down and closes every subscription channel.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, subs := range b.subs {
		for _, sub := range subs {
			if sub.closed.CompareAndSwap(false, true) {
				close(sub.ch)
			}
		}
	}
	b.subs = make(map[Topic][]*Subscription)
	return nil
}

// Events returns the channel of incoming events. It is closed when the
// subscription ends.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Unsubscribe cancels the subscription and closes its channel.
func (s *Subscription) Unsubscribe() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	b := s.bus
	b.mu.Lock()
	subs := b.subs[s.topic]
	for i, candidate := range subs {
		if candidate == s {
			b.subs[s.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	close(s.ch)
	return nil
}
