package types

import "encoding/json"

// CompletionRequest is the payload for POST /v1/completions and POST /v1/text.
// Sampling fields are passed to the engine unchanged.
type CompletionRequest struct {
	// Full prompt text sent to the engine.
	// example: Reply with a JSON object {"content": "..."} greeting the user.
	Prompt string `json:"prompt" example:"Reply with a JSON object {\"content\": \"...\"} greeting the user."`
	// Sampling temperature.
	// example: 0.7
	Temperature float32 `json:"temperature,omitempty" example:"0.7"`
	// Optional stop sequences.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
	// Frequency penalty.
	// example: 0.1
	FrequencyPenalty float32 `json:"frequency_penalty,omitempty" example:"0.1"`
	// Presence penalty.
	// example: 0.1
	PresencePenalty float32 `json:"presence_penalty,omitempty" example:"0.1"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
}

// CompletionResponse carries the decoded JSON value of a structured completion.
type CompletionResponse struct {
	// Request id assigned when the request was queued.
	ID string `json:"id"`
	// Parsed JSON emitted by the model.
	Result json.RawMessage `json:"result" swaggertype:"object"`
}

// TextResponse carries the raw output of a plain-text completion.
type TextResponse struct {
	ID string `json:"id"`
	// example: Hello there!
	Text string `json:"text" example:"Hello there!"`
}

// EmbeddingRequest is the payload for POST /v1/embeddings.
type EmbeddingRequest struct {
	// example: the quick brown fox
	Input string `json:"input" example:"the quick brown fox"`
}

// EmbeddingResponse is returned by POST /v1/embeddings. Embedding is null when
// the engine produced no vector.
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of models discovered in the models directory.
	Models []Model `json:"models"`
	// ID of the model served by this process.
	// example: tinyllama-q4.gguf
	Loaded string `json:"loaded,omitempty" example:"tinyllama-q4.gguf"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Offending model output for parse failures.
	Raw string `json:"raw,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall state: loading, ready, error or closed.
	// example: ready
	State string `json:"state" example:"ready"`
	// True once the engine has loaded.
	Ready bool `json:"ready"`
	// Model served by this process.
	// example: tinyllama-q4.gguf
	Model string `json:"model,omitempty" example:"tinyllama-q4.gguf"`
	// Requests waiting for the engine.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Number of engine calls in flight (0 or 1).
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// True while the processor is draining the queue.
	Draining bool `json:"draining"`
	// Requests completed successfully.
	// example: 12
	ProcessedTotal uint64 `json:"processed_total" example:"12"`
	// Requests that failed (engine or parse error).
	// example: 1
	FailedTotal uint64 `json:"failed_total" example:"1"`
	// Load failure, if any. Permanent for the process.
	Error string `json:"error,omitempty"`
	// Last error observed by the manager.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
