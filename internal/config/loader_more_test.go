package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoad_ExtraArgsListsInEveryFormat(t *testing.T) {
	want := []string{"--flash-attn", "--mlock"}
	files := map[string]string{
		"spawn.yaml": "backend: spawn\nmodel: tiny.gguf\nllama_extra_args:\n  - --flash-attn\n  - --mlock\n",
		"spawn.toml": "backend = \"spawn\"\nmodel = \"tiny.gguf\"\nllama_extra_args = [\"--flash-attn\", \"--mlock\"]\n",
		"spawn.json": `{"backend":"spawn","model":"tiny.gguf","llama_extra_args":["--flash-attn","--mlock"]}`,
	}
	d := t.TempDir()
	for name, body := range files {
		cfg, err := Load(writeTempFile(t, d, name, body))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(cfg.LlamaExtraArgs, want) {
			t.Fatalf("%s: extra args = %v", name, cfg.LlamaExtraArgs)
		}
		if err := WithDefaults(cfg).Validate(); err != nil {
			t.Fatalf("%s: validate: %v", name, err)
		}
	}
}

func TestLoad_ServerBackendNeedsURL(t *testing.T) {
	d := t.TempDir()
	cfg, err := Load(writeTempFile(t, d, "remote.toml", "backend = \"server\"\nserver_api_key = \"k\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = WithDefaults(cfg).Validate()
	if err == nil || !strings.Contains(err.Error(), "server_url") {
		t.Fatalf("expected server_url error, got %v", err)
	}
	cfg.ServerURL = "http://127.0.0.1:8081"
	if err := WithDefaults(cfg).Validate(); err != nil {
		t.Fatalf("validate with url: %v", err)
	}
}

func TestLoad_DefaultBackendNeedsModel(t *testing.T) {
	d := t.TempDir()
	cfg, err := Load(writeTempFile(t, d, "empty.yaml", "addr: \":9000\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg = WithDefaults(cfg)
	if cfg.Backend != DefaultBackend {
		t.Fatalf("backend = %q", cfg.Backend)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "requires model") {
		t.Fatalf("expected missing model error, got %v", err)
	}
}

func TestLoad_MalformedFiles(t *testing.T) {
	d := t.TempDir()
	cases := map[string]string{
		"bad.yaml": "llama_extra_args: [--mlock\n",
		"bad.json": `{"ctx_size": "large"}`,
		"bad.toml": "infer_timeout_seconds = \n",
	}
	for name, body := range cases {
		if _, err := Load(writeTempFile(t, d, name, body)); err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
	}
	if _, err := Load(d + "/missing.yaml"); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
