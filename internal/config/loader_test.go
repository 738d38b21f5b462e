package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: ":9999"
backend: server
model: m1
models_dir: /tmp
server_url: http://127.0.0.1:8081
ctx_size: 4096
embeddings: true
infer_timeout_seconds: 30
cors_enabled: true
cors_origins: ["http://a", "http://b"]
swagger: true
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Backend != "server" || cfg.Model != "m1" || cfg.ModelsDir != "/tmp" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.ServerURL != "http://127.0.0.1:8081" || cfg.CtxSize != 4096 || !cfg.Embeddings || cfg.InferTimeoutSeconds != 30 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if !cfg.CORSEnabled || len(cfg.CORSOrigins) != 2 || !cfg.Swagger {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","models_dir":"/m","model":"m2","threads":4,"gpu_layers":20,"max_body_bytes":2048}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelsDir != "/m" || cfg.Model != "m2" || cfg.Threads != 4 || cfg.GPULayers != 20 || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadYAML_SpawnSettings(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "spawn.yml", "backend: spawn\nllama_bin: /opt/llama/llama-server\nllama_host: 0.0.0.0\nllama_extra_args: [\"--flash-attn\", \"--mlock\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "spawn" || cfg.LlamaBin != "/opt/llama/llama-server" || cfg.LlamaHost != "0.0.0.0" || len(cfg.LlamaExtraArgs) != 2 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodels_dir=\"/x\"\nmodel=\"m3\"\nlog_level=\"debug\"\nlog_format=\"json\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelsDir != "/x" || cfg.Model != "m3" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestWithDefaults(t *testing.T) {
	c := WithDefaults(Config{InferTimeoutSeconds: -3})
	if c.Addr != DefaultAddr || c.Backend != DefaultBackend || c.ModelsDir != DefaultModelsDir {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.CtxSize != DefaultCtxSize || c.LogLevel != "info" || c.LogFormat != "console" || c.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.LlamaBin != DefaultLlamaBin {
		t.Fatalf("llama bin default: %q", c.LlamaBin)
	}
	if c.InferTimeoutSeconds != 0 {
		t.Fatalf("negative timeout not cleared: %d", c.InferTimeoutSeconds)
	}
	kept := WithDefaults(Config{Addr: ":1", Backend: "server", CtxSize: 512})
	if kept.Addr != ":1" || kept.Backend != "server" || kept.CtxSize != 512 {
		t.Fatalf("explicit values overwritten: %+v", kept)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"llama with model", Config{Backend: "llama", Model: "m", LogFormat: "json"}, true},
		{"llama without model", Config{Backend: "llama", LogFormat: "json"}, false},
		{"server with url", Config{Backend: "server", ServerURL: "http://x", LogFormat: "console"}, true},
		{"server without url", Config{Backend: "server", LogFormat: "console"}, false},
		{"spawn with model", Config{Backend: "spawn", Model: "m", LogFormat: "json"}, true},
		{"spawn without model", Config{Backend: "spawn", LogFormat: "json"}, false},
		{"unknown backend", Config{Backend: "vllm", LogFormat: "json"}, false},
		{"unknown log format", Config{Backend: "llama", Model: "m", LogFormat: "xml"}, false},
	}
	for _, c := range cases {
		err := c.cfg.Validate()
		if (err == nil) != c.ok {
			t.Fatalf("%s: Validate() = %v", c.name, err)
		}
	}
}
