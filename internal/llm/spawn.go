package llm

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	defaultSpawnLoadTimeout = 30 * time.Second
	stopGracePeriod         = 2 * time.Second
	stderrTailBytes         = 4096
)

// SpawnEngine runs llama.cpp's llama-server as a child process and talks to it
// through a ServerEngine once it reports healthy.
type SpawnEngine struct {
	cfg Config
	// command builds the child process; replaced in tests.
	command func(name string, args ...string) *exec.Cmd

	mu      sync.Mutex
	cmd     *exec.Cmd
	exited  chan struct{}
	waitErr error
	stderr  *tailBuffer
	server  *ServerEngine
}

func NewSpawnEngine(cfg Config) *SpawnEngine {
	return &SpawnEngine{cfg: cfg, command: exec.Command}
}

// Load starts the child on a free port and waits until it answers /v1/models.
// An early exit of the child fails the load with the tail of its stderr.
func (e *SpawnEngine) Load(ctx context.Context) error {
	host := strings.TrimSpace(e.cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port, err := pickFreePort(host)
	if err != nil {
		return err
	}
	baseURL := fmt.Sprintf("http://%s:%d", host, port)

	cmd := e.command(e.cfg.LlamaBin, e.args(host, port)...)
	tail := &tailBuffer{max: stderrTailBytes}
	cmd.Stderr = tail
	if err := cmd.Start(); err != nil {
		return ErrDependencyUnavailable(fmt.Sprintf("start llama-server: %v", err))
	}
	exited := make(chan struct{})
	e.mu.Lock()
	e.cmd, e.exited, e.stderr = cmd, exited, tail
	e.mu.Unlock()
	go func() {
		werr := cmd.Wait()
		e.mu.Lock()
		e.waitErr = werr
		e.mu.Unlock()
		close(exited)
	}()
	e.cfg.Logger.Info().Int("pid", cmd.Process.Pid).Str("url", baseURL).Str("model", e.cfg.ModelPath).Msg("llama-server started")

	scfg := e.cfg
	scfg.ServerURL = baseURL
	if scfg.LoadTimeout <= 0 {
		scfg.LoadTimeout = defaultSpawnLoadTimeout
	}
	server := NewServerEngine(scfg)

	lctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-exited:
			cancel()
		case <-lctx.Done():
		}
	}()
	if err := server.Load(lctx); err != nil {
		select {
		case <-exited:
			e.mu.Lock()
			werr := e.waitErr
			e.mu.Unlock()
			return fmt.Errorf("llama-server exited before ready: %v; stderr tail: %s", werr, tail.String())
		default:
		}
		_ = e.stop()
		return err
	}

	e.mu.Lock()
	e.server = server
	e.mu.Unlock()
	e.cfg.Logger.Info().Int("pid", cmd.Process.Pid).Msg("llama-server ready")
	return nil
}

func (e *SpawnEngine) args(host string, port int) []string {
	args := []string{"-m", e.cfg.ModelPath, "--host", host, "--port", strconv.Itoa(port)}
	if e.cfg.CtxSize > 0 {
		args = append(args, "-c", strconv.Itoa(e.cfg.CtxSize))
	}
	if e.cfg.GPULayers > 0 {
		args = append(args, "-ngl", strconv.Itoa(e.cfg.GPULayers))
	}
	if e.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(e.cfg.Threads))
	}
	if e.cfg.Embeddings {
		args = append(args, "--embeddings")
	}
	return append(args, e.cfg.ExtraArgs...)
}

func (e *SpawnEngine) client() (*ServerEngine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.server == nil {
		return nil, errNotLoaded
	}
	select {
	case <-e.exited:
		return nil, fmt.Errorf("llama-server exited: %v", e.waitErr)
	default:
	}
	return e.server, nil
}

func (e *SpawnEngine) Predict(ctx context.Context, prompt string, p Params) (string, error) {
	s, err := e.client()
	if err != nil {
		return "", err
	}
	return s.Predict(ctx, prompt, p)
}

func (e *SpawnEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	s, err := e.client()
	if err != nil {
		return nil, err
	}
	return s.Embed(ctx, text)
}

// Close terminates the child: SIGTERM first, SIGKILL after a grace period.
func (e *SpawnEngine) Close() error {
	e.mu.Lock()
	s := e.server
	e.server = nil
	e.mu.Unlock()
	if s != nil {
		_ = s.Close()
	}
	return e.stop()
}

func (e *SpawnEngine) stop() error {
	e.mu.Lock()
	cmd, exited := e.cmd, e.exited
	e.cmd = nil
	e.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-exited:
	case <-time.After(stopGracePeriod):
		_ = cmd.Process.Kill()
		<-exited
	}
	e.cfg.Logger.Info().Int("pid", cmd.Process.Pid).Msg("llama-server stopped")
	return nil
}

// PID returns the child process id, or 0 when not running.
func (e *SpawnEngine) PID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return 0
	}
	return e.cmd.Process.Pid
}

func pickFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
