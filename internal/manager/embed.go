package manager

import (
	"context"
	"time"
)

// Embed returns the engine's vector for text, unmodified. It does not go
// through the queue. A nil vector with a nil error means the engine produced
// nothing usable.
func (m *Manager) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := m.CheckReady(); err != nil {
		return nil, err
	}
	start := time.Now()
	vec, err := m.engine.Embed(ctx, text)
	if err != nil {
		embeddingsTotal.WithLabelValues("error").Inc()
		m.log.Warn().Err(err).Dur("dur", time.Since(start)).Msg("embedding failed")
		return nil, invocationError{err: err}
	}
	if len(vec) == 0 {
		embeddingsTotal.WithLabelValues("empty").Inc()
		return nil, nil
	}
	embeddingsTotal.WithLabelValues("ok").Inc()
	m.log.Debug().Int("dims", len(vec)).Dur("dur", time.Since(start)).Msg("embedding done")
	return vec, nil
}
