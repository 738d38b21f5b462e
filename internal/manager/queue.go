package manager

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Future is the caller's end of a one-shot result channel. It resolves exactly
// once; Wait may be called any number of times.
type Future struct {
	id   string
	mode Mode
	done chan struct{}
	res  CompletionResult
	err  error
}

func newFuture(id string, mode Mode) *Future {
	return &Future{id: id, mode: mode, done: make(chan struct{})}
}

// ID is the request id assigned at submission.
func (f *Future) ID() string { return f.id }

// Mode is the decoding mode the request was submitted with.
func (f *Future) Mode() Mode { return f.mode }

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the request is resolved or ctx is done. Giving up on the
// wait does not withdraw the request; it is still processed in order.
func (f *Future) Wait(ctx context.Context) (CompletionResult, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return CompletionResult{}, ctx.Err()
	}
}

// resolve must be called exactly once; a second call panics on the closed channel.
func (f *Future) resolve(res CompletionResult, err error) {
	f.res, f.err = res, err
	close(f.done)
}

// SubmitCompletion enqueues a request whose output is decoded as JSON.
// It never blocks, including while the engine is still loading.
func (m *Manager) SubmitCompletion(req Request) *Future {
	return m.submit(req, ModeStructured)
}

// SubmitText enqueues a request whose output is returned verbatim.
func (m *Manager) SubmitText(req Request) *Future {
	return m.submit(req, ModePlainText)
}

// Complete submits a structured request and waits for it.
func (m *Manager) Complete(ctx context.Context, req Request) (CompletionResult, error) {
	return m.SubmitCompletion(req).Wait(ctx)
}

// Text submits a plain-text request and waits for the raw output.
func (m *Manager) Text(ctx context.Context, req Request) (string, error) {
	res, err := m.SubmitText(req).Wait(ctx)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Run submits req in the given mode and waits for the tagged result.
func (m *Manager) Run(ctx context.Context, req Request, mode Mode) (CompletionResult, error) {
	return m.submit(req, mode).Wait(ctx)
}

func (m *Manager) submit(req Request, mode Mode) *Future {
	q := &queuedRequest{
		id:       uuid.NewString(),
		req:      req,
		mode:     mode,
		enqueued: time.Now(),
	}
	q.fut = newFuture(q.id, mode)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		q.fut.resolve(CompletionResult{Mode: mode}, ErrClosed)
		return q.fut
	}
	m.queue = append(m.queue, q)
	depth := len(m.queue)
	queueDepth.Set(float64(depth))
	m.mu.Unlock()

	m.log.Debug().Str("request_id", q.id).Str("mode", mode.String()).Int("depth", depth).Msg("enqueued")
	m.kick()
	return q.fut
}
