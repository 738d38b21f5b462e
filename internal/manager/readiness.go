package manager

import (
	"context"
	"time"
)

// Load initializes the engine once. On success the manager becomes ready and
// starts draining anything queued so far. On failure the error is recorded
// permanently and the queue is never drained; there is no retry.
//
// Concurrent or repeated calls wait for the first load and return its outcome.
// A load still running when Close is called is canceled and reports ErrClosed.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.loadStarted {
		done := m.loadDone
		m.mu.Unlock()
		select {
		case <-done:
			return m.CheckReady()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.loadStarted = true
	// Close cancels an in-progress load and waits for it before releasing
	// the engine.
	lctx, lcancel := context.WithCancel(ctx)
	defer lcancel()
	m.loadCancel = lcancel
	m.mu.Unlock()

	start := time.Now()
	m.log.Info().Str("model", m.modelID).Msg("engine load start")
	m.publish(Event{Name: EventLoadStart})

	err := m.engine.Load(lctx)

	m.mu.Lock()
	if m.closed {
		close(m.loadDone)
		m.mu.Unlock()
		m.log.Warn().Err(err).Dur("dur", time.Since(start)).Msg("engine load finished after close")
		return ErrClosed
	}
	if err != nil {
		m.loadErr = loadFailureError{err: err}
		m.lastErr = m.loadErr.Error()
		m.state = StateError
	} else {
		m.ready = true
		m.state = StateReady
	}
	queued := len(m.queue)
	close(m.loadDone)
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Err(err).Dur("dur", time.Since(start)).Int("queued", queued).Msg("engine load failed")
		m.publish(Event{Name: EventLoadError, Fields: map[string]any{"error": err.Error(), "queued": queued}})
		return loadFailureError{err: err}
	}
	engineReady.Set(1)
	m.log.Info().Dur("dur", time.Since(start)).Int("queued", queued).Msg("engine ready")
	m.publish(Event{Name: EventLoadReady, Fields: map[string]any{"queued": queued}})
	m.kick()
	return nil
}

// Start runs Load in the background. The outcome is observable via Ready,
// CheckReady, Status and the load_* events.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		_ = m.Load(ctx)
	}()
}

// CheckReady returns nil once the engine is loaded, ErrEngineNotReady while
// loading, the recorded load failure if loading failed, or ErrClosed.
func (m *Manager) CheckReady() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.closed:
		return ErrClosed
	case m.loadErr != nil:
		return m.loadErr
	case !m.ready:
		return ErrEngineNotReady
	default:
		return nil
	}
}
