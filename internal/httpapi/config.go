package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
)

const defaultMaxBodyBytes int64 = 1 << 20

// Package-level settings are applied by cmd/modelq before NewMux is called.
var (
	// maxBodyBytes caps JSON request bodies; larger bodies are rejected with 400.
	maxBodyBytes = defaultMaxBodyBytes
	// inferTimeout bounds how long a handler waits for a queued request. The
	// request stays queued when the wait is abandoned. Zero waits until the
	// client or the server goes away.
	inferTimeout time.Duration
	// swaggerEnabled mounts /swagger/* on the next NewMux call.
	swaggerEnabled bool

	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetMaxBodyBytes sets the request body cap; n <= 0 restores the 1MiB default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		n = defaultMaxBodyBytes
	}
	maxBodyBytes = n
}

// SetInferTimeoutSeconds sets the wait timeout; sec <= 0 disables it.
func SetInferTimeoutSeconds(sec int64) {
	if sec <= 0 {
		inferTimeout = 0
		return
	}
	inferTimeout = time.Duration(sec) * time.Second
}

// SetCORSOptions enables CORS for the next NewMux call. Empty lists fall back
// to any origin, the methods the API serves and the headers it reads.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// SetSwaggerEnabled toggles the Swagger UI.
func SetSwaggerEnabled(on bool) { swaggerEnabled = on }

func corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: orDefault(corsAllowedOrigins, []string{"*"}),
		AllowedMethods: orDefault(corsAllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: orDefault(corsAllowedHeaders, []string{"Content-Type", "X-Log-Level"}),
		MaxAge:         300,
	}
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
