// Package pubsub distributes build-analysis events to web subscribers
// over Server-Sent Events.
package pubsub

import (
	"context"
	"encoding/json"
)

// Event is one published message on a topic. Versions increase per
// topic and order replayed events for late subscribers.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // loading, ready, error
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"`
}

// Subscription is one client's attachment to a topic.
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher fans events out to topic subscribers.
type Publisher interface {
	// Subscribe attaches to a topic; cancelling the context detaches.
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Publish(topic string, eventType string, data interface{}) error
	Close() error
}

// TraceStatus reports the state of the currently loaded trace.
type TraceStatus struct {
	State        string `json:"state"` // loading, ready, error
	Message      string `json:"message"`
	Processes    int    `json:"processes"`
	Targets      int    `json:"targets"`
	Dependencies int    `json:"dependencies"`
}
