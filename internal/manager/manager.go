package manager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelq/internal/llm"
	"modelq/pkg/types"
)

// Manager owns the engine and the request queue in front of it. All fields
// below mu are guarded by it.
type Manager struct {
	engine    llm.Engine
	modelID   string
	registry  []types.Model
	log       zerolog.Logger
	publisher EventPublisher
	startTime time.Time
	grace     time.Duration

	// baseCtx bounds engine calls made by the processor. Close cancels it
	// once the grace period for the in-flight request runs out.
	baseCtx context.Context
	cancel  context.CancelFunc
	// drainWG tracks the running drain goroutine, if any.
	drainWG sync.WaitGroup

	mu          sync.Mutex
	state       State
	ready       bool
	loadStarted bool
	loadErr     error
	loadDone    chan struct{}
	loadCancel  context.CancelFunc
	closed      bool
	proc        procState
	queue       []*queuedRequest
	inflight    int
	processed   uint64
	failed      uint64
	lastErr     string
}

// Ready reports whether the engine finished loading. It never reverts to false
// except after Close.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready && !m.closed
}

// ListModels returns a copy of the registry.
func (m *Manager) ListModels() []types.Model {
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// SetEventPublisher replaces the event sink. Call before Load.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

func (m *Manager) publish(e Event) {
	m.mu.Lock()
	p := m.publisher
	m.mu.Unlock()
	if e.ModelID == "" {
		e.ModelID = m.modelID
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	p.Publish(e)
}

// Close stops accepting work and fails requests that are still queued with
// ErrClosed. A load in progress is canceled and awaited. The in-flight
// request gets the grace period to finish before its context is canceled.
// The engine is released last.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.state = StateClosed
	pending := m.queue
	m.queue = nil
	var loadDone chan struct{}
	if m.loadStarted {
		loadDone = m.loadDone
		if m.loadCancel != nil {
			m.loadCancel()
		}
	}
	m.mu.Unlock()
	queueDepth.Set(0)

	for _, q := range pending {
		q.fut.resolve(CompletionResult{ID: q.id, Mode: q.mode}, ErrClosed)
	}
	if len(pending) > 0 {
		m.log.Warn().Int("pending", len(pending)).Msg("closed with queued requests")
	}
	if loadDone != nil {
		<-loadDone
	}

	drained := make(chan struct{})
	go func() {
		m.drainWG.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(m.grace):
		m.log.Warn().Dur("grace", m.grace).Msg("canceling in-flight request")
		m.cancel()
		<-drained
	}
	m.cancel()
	engineReady.Set(0)
	m.publish(Event{Name: EventClosed, Fields: map[string]any{"pending": len(pending)}})
	return m.engine.Close()
}
