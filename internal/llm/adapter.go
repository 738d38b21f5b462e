package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Engine is the boundary to the inference runtime. Heavy lifting stays in
// native code (or a remote server); this surface is kept tiny.
//
// Load completes or fails exactly once per engine. Predict and Embed may fail;
// their errors are propagated to callers unchanged.
type Engine interface {
	Load(ctx context.Context) error
	Predict(ctx context.Context, prompt string, p Params) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// Params are opaque generation parameters passed through to the runtime.
// A zero Temperature or MaxTokens selects the runtime's default in every
// backend; the other fields are forwarded as given.
type Params struct {
	Temperature      float32
	FrequencyPenalty float32
	PresencePenalty  float32
	Stop             []string
	MaxTokens        int
}

// Supported backends.
const (
	BackendLlama  = "llama"
	BackendServer = "server"
	BackendSpawn  = "spawn"
)

// Config selects and tunes an engine backend.
type Config struct {
	Backend string
	// In-process llama
	ModelPath  string
	CtxSize    int
	Threads    int
	GPULayers  int
	Embeddings bool
	// llama.cpp server
	ServerURL      string
	APIKey         string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	LoadTimeout    time.Duration
	// Spawned llama.cpp server (ModelPath, CtxSize, Threads, GPULayers and
	// Embeddings are passed as flags)
	LlamaBin  string
	Host      string
	ExtraArgs []string

	Logger zerolog.Logger
}

// New constructs the engine named by cfg.Backend. An empty backend means llama.
func New(cfg Config) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendLlama:
		return NewLlamaEngine(cfg), nil
	case BackendServer:
		if strings.TrimSpace(cfg.ServerURL) == "" {
			return nil, fmt.Errorf("backend %q requires a server url", BackendServer)
		}
		return NewServerEngine(cfg), nil
	case BackendSpawn:
		if strings.TrimSpace(cfg.LlamaBin) == "" {
			return nil, fmt.Errorf("backend %q requires a llama-server binary", BackendSpawn)
		}
		if strings.TrimSpace(cfg.ModelPath) == "" {
			return nil, fmt.Errorf("backend %q requires a model path", BackendSpawn)
		}
		return NewSpawnEngine(cfg), nil
	default:
		return nil, fmt.Errorf("unknown engine backend: %s", cfg.Backend)
	}
}

// LlamaBuilt reports whether this binary carries the in-process llama runtime.
func LlamaBuilt() bool { return llamaBuilt }
