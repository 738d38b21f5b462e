package manager

import "time"

// Lifecycle event names.
const (
	EventLoadStart     = "load_start"
	EventLoadReady     = "load_ready"
	EventLoadError     = "load_error"
	EventRequestDone   = "request_done"
	EventRequestFailed = "request_failed"
	EventClosed        = "closed"
)

// Event is one manager lifecycle notification. Time and ModelID are filled
// in by the manager when left empty.
type Event struct {
	Name    string
	ModelID string
	Time    time.Time
	Fields  map[string]any
}

// EventPublisher receives manager events. Publish is called from the drain
// goroutine between requests, so it must return quickly and must not panic.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// LogPublisher adapts a function, typically a logger call, to EventPublisher.
type LogPublisher func(Event)

func (f LogPublisher) Publish(e Event) { f(e) }
