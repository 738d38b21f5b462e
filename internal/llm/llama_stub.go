//go:build !llama

package llm

// No-CGO stub for the in-process engine, compiled when the 'llama' build tag
// is NOT set so default builds and CI stay CGO-free.

import "context"

var llamaBuilt = false

const errLlamaMissing = "llama support not built (missing 'llama' build tag)"

type LlamaEngine struct {
	cfg Config
}

func NewLlamaEngine(cfg Config) *LlamaEngine {
	return &LlamaEngine{cfg: cfg}
}

// Load fails fast: the llama runtime is not available in this build.
func (e *LlamaEngine) Load(ctx context.Context) error {
	return ErrDependencyUnavailable(errLlamaMissing)
}

func (e *LlamaEngine) Predict(ctx context.Context, prompt string, p Params) (string, error) {
	return "", ErrDependencyUnavailable(errLlamaMissing)
}

func (e *LlamaEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrDependencyUnavailable(errLlamaMissing)
}

func (e *LlamaEngine) Close() error { return nil }
