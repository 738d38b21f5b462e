package manager

import "errors"

// notReadyError is returned while the engine is still loading.
type notReadyError struct{}

func (notReadyError) Error() string { return "engine not ready" }

// ErrEngineNotReady reports that Load has not completed yet.
var ErrEngineNotReady error = notReadyError{}

// IsEngineNotReady reports whether err indicates the engine is still loading.
func IsEngineNotReady(err error) bool {
	var e notReadyError
	return errors.As(err, &e)
}

// loadFailureError records a failed engine load. It is permanent.
type loadFailureError struct{ err error }

func (e loadFailureError) Error() string { return "engine load failed: " + e.err.Error() }
func (e loadFailureError) Unwrap() error { return e.err }

// IsEngineLoadFailure reports whether err indicates the engine failed to load.
func IsEngineLoadFailure(err error) bool {
	var e loadFailureError
	return errors.As(err, &e)
}

// invocationError wraps an error raised by an engine Predict or Embed call.
type invocationError struct{ err error }

func (e invocationError) Error() string { return "engine invocation failed: " + e.err.Error() }
func (e invocationError) Unwrap() error { return e.err }

// IsEngineInvocationFailure reports whether err came from the engine call itself.
func IsEngineInvocationFailure(err error) bool {
	var e invocationError
	return errors.As(err, &e)
}

// parseError signals that structured output could not be decoded as JSON.
type parseError struct {
	raw string
	err error
}

func (e parseError) Error() string { return "response parse failed: " + e.err.Error() }
func (e parseError) Unwrap() error { return e.err }

// IsResponseParseFailure reports whether err indicates undecodable structured output.
func IsResponseParseFailure(err error) bool {
	var e parseError
	return errors.As(err, &e)
}

// RawOutput returns the engine output that failed to parse, if err is a parse failure.
func RawOutput(err error) (string, bool) {
	var e parseError
	if errors.As(err, &e) {
		return e.raw, true
	}
	return "", false
}

type closedError struct{}

func (closedError) Error() string { return "manager closed" }

// ErrClosed is returned for work submitted after (or still queued at) Close.
var ErrClosed error = closedError{}

// IsClosed reports whether err indicates the manager was closed.
func IsClosed(err error) bool {
	var e closedError
	return errors.As(err, &e)
}
