package manager

import (
	"fmt"
	"time"
)

// kick moves the processor from Idle to Draining when the engine is ready and
// there is queued work. The check and the transition happen under one lock so
// concurrent callers can never start a second drain.
func (m *Manager) kick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready || m.closed || m.proc == procDraining || len(m.queue) == 0 {
		return
	}
	m.proc = procDraining
	m.drainWG.Add(1)
	go m.drain()
}

// drain processes the queue front to back, one request at a time, until it is
// empty. The Draining -> Idle transition happens under the same lock as the
// emptiness check, so an enqueue either lands before it (and is drained here)
// or after it (and its kick starts a new pass).
func (m *Manager) drain() {
	defer m.drainWG.Done()
	for {
		m.mu.Lock()
		if m.closed || len(m.queue) == 0 {
			m.proc = procIdle
			m.mu.Unlock()
			return
		}
		q := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		m.inflight = 1
		queueDepth.Set(float64(len(m.queue)))
		m.mu.Unlock()

		m.process(q)
	}
}

// process runs one request against the engine and resolves its future.
// Failures stay local to the request.
func (m *Manager) process(q *queuedRequest) {
	start := time.Now()
	wait := start.Sub(q.enqueued)
	queueWaitSeconds.Observe(wait.Seconds())

	var res CompletionResult
	raw, err := m.invoke(q)
	if err == nil {
		res, err = Decode(raw, q.mode)
	}
	res.ID = q.id
	dur := time.Since(start)

	outcome := outcomeLabel(err)
	engineRequestsTotal.WithLabelValues(q.mode.String(), outcome).Inc()
	engineRequestDuration.WithLabelValues(q.mode.String()).Observe(dur.Seconds())

	m.mu.Lock()
	m.inflight = 0
	if err != nil {
		m.failed++
		m.lastErr = err.Error()
	} else {
		m.processed++
	}
	m.mu.Unlock()

	if err != nil {
		m.log.Warn().Err(err).Str("request_id", q.id).Str("mode", q.mode.String()).Dur("wait", wait).Dur("dur", dur).Msg("request failed")
		m.publish(Event{Name: EventRequestFailed, Fields: map[string]any{"id": q.id, "mode": q.mode.String(), "error": err.Error()}})
	} else {
		m.log.Debug().Str("request_id", q.id).Str("mode", q.mode.String()).Dur("wait", wait).Dur("dur", dur).Msg("request done")
		m.publish(Event{Name: EventRequestDone, Fields: map[string]any{"id": q.id, "mode": q.mode.String()}})
	}
	q.fut.resolve(res, err)
}

// invoke calls the engine, converting errors and panics into invocation failures.
func (m *Manager) invoke(q *queuedRequest) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = invocationError{err: fmt.Errorf("engine panic: %v", r)}
		}
	}()
	raw, err = m.engine.Predict(m.baseCtx, q.req.Context, q.req.params())
	if err != nil {
		return "", invocationError{err: err}
	}
	return raw, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsResponseParseFailure(err):
		return "parse_error"
	default:
		return "engine_error"
	}
}
