package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"modelq/internal/llm"
	"modelq/internal/manager"
	"modelq/pkg/types"
)

func TestRun_ErrorMapping(t *testing.T) {
	_, parseErr := manager.Decode("definitely not json", manager.ModeStructured)
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"parse failure", parseErr, http.StatusBadGateway},
		{"not ready", manager.ErrEngineNotReady, http.StatusServiceUnavailable},
		{"closed", manager.ErrClosed, http.StatusServiceUnavailable},
		{"dependency unavailable", llm.ErrDependencyUnavailable("llama backend not built"), http.StatusServiceUnavailable},
		{"wait timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"http error", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"generic", io.EOF, http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.err
			svc := &mockService{run: func(context.Context, manager.Request, manager.Mode) (manager.CompletionResult, error) {
				return manager.CompletionResult{}, err
			}}
			w := postJSON(t, NewMux(svc), "/v1/completions", `{"prompt":"hi"}`)
			if w.Code != c.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, c.want, w.Body.String())
			}
			var body types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body.Code != c.want || body.Error == "" {
				t.Fatalf("unexpected error body: %+v", body)
			}
		})
	}
}

func TestCompletions_ParseFailureIncludesRawOutput(t *testing.T) {
	svc := &mockService{run: func(_ context.Context, _ manager.Request, mode manager.Mode) (manager.CompletionResult, error) {
		return manager.Decode("I cannot answer that.", mode)
	}}
	w := postJSON(t, NewMux(svc), "/v1/completions", `{"prompt":"hi"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Raw != "I cannot answer that." {
		t.Fatalf("raw = %q", body.Raw)
	}
}

func TestEmbeddings_ErrorMapping(t *testing.T) {
	svc := &mockService{embedErr: manager.ErrEngineNotReady}
	w := postJSON(t, NewMux(svc), "/v1/embeddings", `{"input":"x"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	svc.embedErr = errors.New("boom")
	w = postJSON(t, NewMux(svc), "/v1/embeddings", `{"input":"x"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}
