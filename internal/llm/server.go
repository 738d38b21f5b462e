package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultLoadTimeout = 2 * time.Minute

// ServerEngine talks to a running llama.cpp server over its OpenAI-compatible
// endpoints. Load waits for the server to report healthy.
type ServerEngine struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewServerEngine constructs a server-backed engine.
func NewServerEngine(cfg Config) *ServerEngine {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout=0: every request carries a context deadline instead.
	return &ServerEngine{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.ServerURL, "/"),
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}
}

// Load polls GET /v1/models until the server answers 2xx or the load timeout elapses.
func (e *ServerEngine) Load(ctx context.Context) error {
	timeout := e.cfg.LoadTimeout
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()
	for {
		if e.isHealthy(ctx) {
			e.cfg.Logger.Debug().Str("url", e.baseURL).Msg("llama server healthy")
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("llama server %s not healthy: %w", e.baseURL, ctx.Err())
		case <-tick.C:
		}
	}
}

func (e *ServerEngine) isHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	e.authorize(req)
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// openAICompletionRequest represents the payload for /v1/completions.
// Zero sampling fields are omitted so the server applies its own defaults.
type openAICompletionRequest struct {
	Prompt           string   `json:"prompt"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
	Temperature      float32  `json:"temperature,omitempty"`
	FrequencyPenalty float32  `json:"frequency_penalty,omitempty"`
	PresencePenalty  float32  `json:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	Stream           bool     `json:"stream"`
}

type openAIStreamChoice struct {
	Text  string `json:"text"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

type openAIStreamResponse struct {
	Choices []openAIStreamChoice `json:"choices"`
}

// Predict streams /v1/completions and returns the concatenated text.
func (e *ServerEngine) Predict(ctx context.Context, prompt string, p Params) (string, error) {
	if e.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RequestTimeout)
		defer cancel()
	}
	payload := openAICompletionRequest{
		Prompt:           prompt,
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
		Stop:             p.Stop,
		Stream:           true,
	}
	resp, err := e.post(ctx, "/v1/completions", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Servers emit SSE lines prefixed with "data: "; some emit raw JSON objects per line.
	var b strings.Builder
	r := bufio.NewReader(resp.Body)
	for {
		line, err := r.ReadString('\n')
		if data, ok := sseData(line); ok {
			if data == "[DONE]" {
				break
			}
			var msg openAIStreamResponse
			if jerr := json.Unmarshal([]byte(data), &msg); jerr == nil && len(msg.Choices) > 0 {
				b.WriteString(msg.Choices[0].Text)
				b.WriteString(msg.Choices[0].Delta.Content)
			} else {
				var generic map[string]any
				if jerr := json.Unmarshal([]byte(data), &generic); jerr == nil {
					if tok, ok := generic["content"].(string); ok {
						b.WriteString(tok)
					}
				} else {
					e.cfg.Logger.Warn().Str("line", line).Msg("unknown stream line")
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}
	}
	return b.String(), nil
}

func sseData(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(line), "data:") {
		return strings.TrimSpace(line[len("data:"):]), true
	}
	if strings.HasPrefix(line, "{") {
		return line, true
	}
	return "", false
}

type openAIEmbeddingRequest struct {
	Input string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed calls /v1/embeddings and returns the first vector; an empty data list yields nil.
func (e *ServerEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RequestTimeout)
		defer cancel()
	}
	resp, err := e.post(ctx, "/v1/embeddings", openAIEmbeddingRequest{Input: text})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out openAIEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return out.Data[0].Embedding, nil
}

func (e *ServerEngine) Close() error {
	e.httpClient.CloseIdleConnections()
	return nil
}

func (e *ServerEngine) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	e.authorize(req)
	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("llama server http error: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

func (e *ServerEngine) authorize(req *http.Request) {
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}
}
