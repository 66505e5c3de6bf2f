// Package events provides the typed publish/subscribe channel for domain
// events emitted by the task engine. Outer layers (protocol adapters, the
// change journal, tests) subscribe explicitly; nothing inside the engine
// depends on a subscriber being present.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topic names a domain event stream.
type Topic string

const (
	TopicTaskCreated       Topic = "task.created"
	TopicTaskUpdated       Topic = "task.updated"
	TopicTaskDeleted       Topic = "task.deleted"
	TopicStatusChanged     Topic = "task.status_changed"
	TopicDependencyAdded   Topic = "dependency.added"
	TopicDependencyRemoved Topic = "dependency.removed"
	TopicTasksSaved        Topic = "tasks.saved"
	TopicTasksLoaded       Topic = "tasks.loaded"
	TopicTxnStarted        Topic = "transaction.started"
	TopicTxnCommitted      Topic = "transaction.committed"
	TopicTxnRolledBack     Topic = "transaction.rolled_back"
	// TopicError mirrors every error returned to a caller, so observers see
	// failures without wrapping every call site.
	TopicError Topic = "error"

	// TopicWildcard subscribes to every event.
	TopicWildcard Topic = "*"
)

// Event is the envelope every topic carries.
type Event struct {
	ID      string                 `json:"id"`
	Topic   Topic                  `json:"topic"`
	At      time.Time              `json:"at"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent stamps a payload with an id, topic and timestamp.
func NewEvent(topic Topic, payload map[string]interface{}) Event {
	return Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		At:      time.Now().UTC(),
		Payload: payload,
	}
}
