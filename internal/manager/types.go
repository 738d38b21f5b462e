package manager

import (
	"encoding/json"
	"time"

	"modelq/internal/llm"
)

// State represents lifecycle state of the manager.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	StateClosed  State = "closed"
)

// Mode selects how the raw engine output of a request is decoded.
type Mode int

const (
	ModeStructured Mode = iota
	ModePlainText
)

func (m Mode) String() string {
	switch m {
	case ModeStructured:
		return "structured"
	case ModePlainText:
		return "text"
	default:
		return "unknown"
	}
}

// Request is one unit of work for the engine. Everything except Context is
// passed through to the engine untouched.
type Request struct {
	Context          string
	Temperature      float32
	Stop             []string
	FrequencyPenalty float32
	PresencePenalty  float32
	MaxTokens        int
}

func (r Request) params() llm.Params {
	return llm.Params{
		Temperature:      r.Temperature,
		FrequencyPenalty: r.FrequencyPenalty,
		PresencePenalty:  r.PresencePenalty,
		Stop:             append([]string(nil), r.Stop...),
		MaxTokens:        r.MaxTokens,
	}
}

// CompletionResult is a tagged result: Text is set for ModePlainText,
// Value and JSON for ModeStructured.
type CompletionResult struct {
	// ID is the request id assigned at submission.
	ID    string
	Mode  Mode
	Text  string
	Value any
	// JSON is the compacted candidate that produced Value.
	JSON json.RawMessage
}

// procState is the two-state machine of the single-flight processor.
type procState int

const (
	procIdle procState = iota
	procDraining
)

// queuedRequest is one pending request. fut is resolved exactly once by the
// processor (or by Close for requests that never reached it).
type queuedRequest struct {
	id       string
	req      Request
	mode     Mode
	enqueued time.Time
	fut      *Future
}
