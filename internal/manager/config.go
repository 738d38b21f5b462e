package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"modelq/internal/llm"
	"modelq/pkg/types"
)

// defaultCloseGrace bounds how long Close lets the in-flight request run
// before canceling it.
const defaultCloseGrace = 10 * time.Second

// defaultQueueCapacity only sizes the initial backing array; the queue is unbounded.
const defaultQueueCapacity = 32

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// Engine is required.
	Engine llm.Engine
	// ModelID names the loaded model in status output and events.
	ModelID string
	// Registry is the list of models discovered on disk (informational).
	Registry []types.Model
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// Publisher defaults to dropping events.
	Publisher EventPublisher
	// CloseGrace is how long Close waits for the in-flight engine call before
	// canceling its context. Zero means defaultCloseGrace.
	CloseGrace time.Duration
}

// New constructs a Manager from Config. The engine is not loaded until Load or Start.
func New(cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		engine:    cfg.Engine,
		modelID:   cfg.ModelID,
		registry:  append([]types.Model(nil), cfg.Registry...),
		publisher: cfg.Publisher,
		state:     StateLoading,
		loadDone:  make(chan struct{}),
		queue:     make([]*queuedRequest, 0, defaultQueueCapacity),
		baseCtx:   ctx,
		cancel:    cancel,
		startTime: time.Now(),
		grace:     cfg.CloseGrace,
	}
	if m.grace <= 0 {
		m.grace = defaultCloseGrace
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "manager").Logger()
	} else {
		m.log = zerolog.Nop()
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	return m
}
