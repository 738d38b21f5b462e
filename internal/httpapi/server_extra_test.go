package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"modelq/internal/manager"
)

// blockingRun waits until the context is done; used to exercise timeout paths.
func blockingRun(ctx context.Context, _ manager.Request, _ manager.Mode) (manager.CompletionResult, error) {
	<-ctx.Done()
	return manager.CompletionResult{}, ctx.Err()
}

func TestCompletionsLogsWithZerologInfo(t *testing.T) {
	// Install a zerolog logger to exercise the zlog != nil branches
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()

	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/v1/text?log=info", bytes.NewBufferString(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with info logging, got %d", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "request start") || !strings.Contains(out, "request end") || !strings.Contains(out, `"op":"text"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	// Enable CORS temporarily
	SetCORSOptions(true, []string{"*"}, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)

	svc := &mockService{ready: true}
	h := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS header Access-Control-Allow-Origin to be set, got empty")
	}
}

func TestCORSDisabledByDefault(t *testing.T) {
	h := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}

func TestWaitTimeoutReturns504(t *testing.T) {
	defer SetInferTimeoutSeconds(0)
	SetInferTimeoutSeconds(1)

	svc := &mockService{run: blockingRun}
	w := postJSON(t, NewMux(svc), "/v1/completions", `{"prompt":"x"}`)
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504 on wait timeout, got %d", w.Code)
	}
}

func TestServerBaseContextCancelReturns503(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetBaseContext(ctx)
	defer SetBaseContext(nil)
	cancel()

	svc := &mockService{run: blockingRun}
	w := postJSON(t, NewMux(svc), "/v1/text", `{"prompt":"x"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on shutdown, got %d", w.Code)
	}
}

func TestClientGoneWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &mockService{run: blockingRun}
	req := httptest.NewRequest(http.MethodPost, "/v1/text", bytes.NewBufferString(`{"prompt":"x"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(rec, req)
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for a disconnected client, got %q", rec.Body.String())
	}
}

func TestContentTypeCaseInsensitive(t *testing.T) {
	h := NewMux(&mockService{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/text", bytes.NewBufferString(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "Application/JSON; charset=utf-8")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with mixed-case content-type, got %d", rec.Code)
	}
}

func TestSwaggerMountedWhenEnabled(t *testing.T) {
	SetSwaggerEnabled(true)
	defer SetSwaggerEnabled(false)
	h := NewMux(&mockService{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for doc.json, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !bytes.Contains(body, []byte("/v1/completions")) {
		t.Fatalf("doc.json missing completion route")
	}
}

func TestSwaggerNotMountedByDefault(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
