package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	Backend   string `json:"backend" yaml:"backend" toml:"backend"`
	Model     string `json:"model" yaml:"model" toml:"model"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`

	ServerURL    string `json:"server_url" yaml:"server_url" toml:"server_url"`
	ServerAPIKey string `json:"server_api_key" yaml:"server_api_key" toml:"server_api_key"`

	LlamaBin       string   `json:"llama_bin" yaml:"llama_bin" toml:"llama_bin"`
	LlamaHost      string   `json:"llama_host" yaml:"llama_host" toml:"llama_host"`
	LlamaExtraArgs []string `json:"llama_extra_args" yaml:"llama_extra_args" toml:"llama_extra_args"`

	CtxSize    int  `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	Threads    int  `json:"threads" yaml:"threads" toml:"threads"`
	GPULayers  int  `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`
	Embeddings bool `json:"embeddings" yaml:"embeddings" toml:"embeddings"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	MaxBodyBytes        int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	InferTimeoutSeconds int   `json:"infer_timeout_seconds" yaml:"infer_timeout_seconds" toml:"infer_timeout_seconds"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Swagger     bool     `json:"swagger" yaml:"swagger" toml:"swagger"`
}

const (
	DefaultAddr         = ":8080"
	DefaultBackend      = "llama"
	DefaultModelsDir    = "~/models/llm"
	DefaultLlamaBin     = "llama-server"
	DefaultCtxSize      = 2048
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultMaxBodyBytes = 1 << 20
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults fills unspecified fields.
func WithDefaults(c Config) Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.LlamaBin == "" {
		c.LlamaBin = DefaultLlamaBin
	}
	if c.CtxSize <= 0 {
		c.CtxSize = DefaultCtxSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.InferTimeoutSeconds < 0 {
		c.InferTimeoutSeconds = 0
	}
	return c
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Backend {
	case "llama", "spawn":
		if c.Model == "" {
			return fmt.Errorf("backend %s requires model", c.Backend)
		}
	case "server":
		if c.ServerURL == "" {
			return fmt.Errorf("backend server requires server_url")
		}
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	return nil
}
