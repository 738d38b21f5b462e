package manager

import (
	"time"

	"modelq/pkg/types"
)

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State    State
	Ready    bool
	QueueLen int
	Draining bool
	Err      string
}

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		State:    m.state,
		Ready:    m.ready && !m.closed,
		QueueLen: len(m.queue),
		Draining: m.proc == procDraining,
	}
	if m.loadErr != nil {
		s.Err = m.loadErr.Error()
	}
	return s
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	resp := types.StatusResponse{
		State:          string(m.state),
		Ready:          m.ready && !m.closed,
		Model:          m.modelID,
		QueueLen:       len(m.queue),
		Inflight:       m.inflight,
		Draining:       m.proc == procDraining,
		ProcessedTotal: m.processed,
		FailedTotal:    m.failed,
		LastError:      m.lastErr,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if m.loadErr != nil {
		resp.Error = m.loadErr.Error()
	}
	return resp
}

// ModelID returns the id of the model served by this manager.
func (m *Manager) ModelID() string { return m.modelID }
