//go:build llama

package llm

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// LlamaEngine runs inference in-process through go-llama.cpp. The binding is
// not safe for concurrent use, so every call into the model holds mu.
type LlamaEngine struct {
	cfg   Config
	mu    sync.Mutex
	model *llama.LLama
}

func NewLlamaEngine(cfg Config) *LlamaEngine {
	return &LlamaEngine{cfg: cfg}
}

func (e *LlamaEngine) Load(ctx context.Context) error {
	if strings.TrimSpace(e.cfg.ModelPath) == "" {
		return errors.New("model path is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	mo := []llama.ModelOption{
		llama.SetContext(zn(e.cfg.CtxSize, 2048)),
	}
	if e.cfg.GPULayers > 0 {
		mo = append(mo, llama.SetGPULayers(e.cfg.GPULayers))
	}
	if e.cfg.Embeddings {
		mo = append(mo, llama.EnableEmbeddings)
	}
	e.cfg.Logger.Debug().Str("path", e.cfg.ModelPath).Int("ctx", zn(e.cfg.CtxSize, 2048)).Msg("llama load")
	m, err := llama.New(e.cfg.ModelPath, mo...)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.model = m
	e.mu.Unlock()
	return nil
}

func (e *LlamaEngine) Predict(ctx context.Context, prompt string, p Params) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return "", errNotLoaded
	}
	// Stop generation early when the context is canceled.
	e.model.SetTokenCallback(func(string) bool {
		return ctx.Err() == nil
	})
	text, err := e.model.Predict(prompt, mapParamsToPredictOptions(p, e.cfg.Threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func (e *LlamaEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil, errNotLoaded
	}
	return e.model.Embeddings(text, llama.SetThreads(max(1, e.cfg.Threads)))
}

func (e *LlamaEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// mapParamsToPredictOptions converts pass-through params into go-llama.cpp
// options. Zero Temperature and MaxTokens fall back to llama.DefaultOptions,
// matching what the server backend gets by omitting them.
func mapParamsToPredictOptions(p Params, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, zn(p.MaxTokens, llama.DefaultOptions.Tokens))),
		llama.SetThreads(max(1, threads)),
		llama.SetTemperature(zf(p.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetFrequencyPenalty(p.FrequencyPenalty),
		llama.SetPresencePenalty(p.PresencePenalty),
	}
	if len(p.Stop) > 0 {
		po = append(po, llama.SetStopWords(p.Stop...))
	}
	return po
}
