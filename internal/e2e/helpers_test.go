package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"modelq/internal/httpapi"
	"modelq/internal/llm"
	"modelq/internal/manager"
	"modelq/internal/registry"
	"modelq/pkg/types"
)

// createTempModelsDir creates a temporary directory populated with empty .gguf files.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

// scriptedEngine answers prompts from a table; unknown prompts echo back.
// Load blocks until gate is closed.
type scriptedEngine struct {
	gate    chan struct{}
	loadErr error
	replies map[string]string
	vec     []float32

	mu    sync.Mutex
	order []string
}

func (e *scriptedEngine) Load(ctx context.Context) error {
	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return e.loadErr
}

func (e *scriptedEngine) Predict(ctx context.Context, prompt string, p llm.Params) (string, error) {
	e.mu.Lock()
	e.order = append(e.order, prompt)
	e.mu.Unlock()
	if r, ok := e.replies[prompt]; ok {
		return r, nil
	}
	return prompt, nil
}

func (e *scriptedEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.vec, nil
}

func (e *scriptedEngine) Close() error { return nil }

func (e *scriptedEngine) Order() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.order...)
}

// newServer wires a manager around eng and serves it over httptest.
func newServer(t *testing.T, modelsDir string, eng llm.Engine) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.NewGGUFScanner().Scan(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	mgr := manager.New(manager.Config{Engine: eng, ModelID: "alpha.gguf", Registry: reg})
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(func() {
		srv.Close()
		_ = mgr.Close()
	})
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader([]byte(payload)))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

// prompt builds a completion request body.
func prompt(s string) string {
	b, _ := json.Marshal(types.CompletionRequest{Prompt: s})
	return string(b)
}
