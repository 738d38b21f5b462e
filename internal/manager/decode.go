package manager

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// jsonFenceRe matches the first ```json fenced block; group 1 is its body.
// The word boundary keeps ```jsonl and ```json5 fences out.
var jsonFenceRe = regexp.MustCompile("(?s)```json\\b(.*?)```")

var errEmptyOutput = errors.New("empty output")

// Decode converts raw engine output according to mode.
//
// ModePlainText returns raw unchanged. ModeStructured takes the body of the
// first ```json fence (trimmed) or, if there is none, the whole output, and
// requires it to be syntactically valid JSON. No schema is applied.
func Decode(raw string, mode Mode) (CompletionResult, error) {
	if mode == ModePlainText {
		return CompletionResult{Mode: ModePlainText, Text: raw}, nil
	}
	candidate := raw
	if m := jsonFenceRe.FindStringSubmatch(raw); m != nil {
		candidate = strings.TrimSpace(m[1])
	}
	if strings.TrimSpace(candidate) == "" {
		return CompletionResult{Mode: ModeStructured}, parseError{raw: raw, err: errEmptyOutput}
	}
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return CompletionResult{Mode: ModeStructured}, parseError{raw: raw, err: err}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(candidate)); err != nil {
		return CompletionResult{Mode: ModeStructured}, parseError{raw: raw, err: err}
	}
	return CompletionResult{Mode: ModeStructured, Value: v, JSON: buf.Bytes()}, nil
}
