package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"modelq/internal/llm"
)

// fakeEngine is a lightweight in-memory engine used for tests.
type fakeEngine struct {
	// loadGate, when non-nil, blocks Load until closed.
	loadGate chan struct{}
	loadErr  error
	loads    atomic.Int32
	// loading is 1 while Load runs; closedMidLoad records Close arriving then.
	loading       atomic.Int32
	closedMidLoad atomic.Bool
	// predictGate, when non-nil, blocks Predict until closed or ctx is done.
	predictGate chan struct{}

	// outputs maps a prompt to its raw output; missing prompts echo the prompt.
	outputs  map[string]string
	errs     map[string]error
	panics   map[string]bool
	delay    time.Duration
	embedVec []float32
	embedErr error

	mu        sync.Mutex
	calls     []string
	params    []llm.Params
	active    atomic.Int32
	maxActive atomic.Int32
	closed    bool
}

func (f *fakeEngine) Load(ctx context.Context) error {
	f.loads.Add(1)
	f.loading.Store(1)
	defer f.loading.Store(0)
	if f.loadGate != nil {
		select {
		case <-f.loadGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.loadErr
}

func (f *fakeEngine) Predict(ctx context.Context, prompt string, p llm.Params) (string, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		cur := f.maxActive.Load()
		if n <= cur || f.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.params = append(f.params, p)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.predictGate != nil {
		select {
		case <-f.predictGate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.panics[prompt] {
		panic("boom")
	}
	if err := f.errs[prompt]; err != nil {
		return "", err
	}
	if out, ok := f.outputs[prompt]; ok {
		return out, nil
	}
	return prompt, nil
}

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedVec, nil
}

func (f *fakeEngine) Close() error {
	if f.loading.Load() == 1 {
		f.closedMidLoad.Store(true)
	}
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// newTestManager builds a manager around fe and closes it on cleanup.
func newTestManager(t *testing.T, fe *fakeEngine) *Manager {
	t.Helper()
	m := New(Config{Engine: fe, ModelID: "test-model"})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// newReadyManager builds a manager and loads it.
func newReadyManager(t *testing.T, fe *fakeEngine) *Manager {
	t.Helper()
	m := newTestManager(t, fe)
	if err := m.Load(testCtx(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

// waitAll waits for every future and returns results and errors by index.
func waitAll(t *testing.T, futs []*Future) ([]CompletionResult, []error) {
	t.Helper()
	ctx := testCtx(t)
	res := make([]CompletionResult, len(futs))
	errs := make([]error, len(futs))
	for i, f := range futs {
		res[i], errs[i] = f.Wait(ctx)
		if errs[i] == context.DeadlineExceeded {
			t.Fatalf("future %d did not resolve", i)
		}
	}
	return res, errs
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
