package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"modelq/internal/config"
	"modelq/internal/llm"
	"modelq/internal/registry"
)

// flagValues mirrors config.Config for the command line.
type flagValues struct {
	configPath   string
	addr         string
	backend      string
	model        string
	modelsDir    string
	serverURL    string
	serverAPIKey string
	llamaBin     string
	llamaHost    string
	llamaArgs    string
	ctxSize      int
	threads      int
	gpuLayers    int
	embeddings   bool
	logLevel     string
	logFormat    string
	maxBodyBytes int64
	inferTimeout int
	cors         bool
	corsOrigins  string
	swagger      bool
}

func newRootCmd() *cobra.Command {
	fv := &flagValues{}
	root := &cobra.Command{
		Use:           "modelq",
		Short:         "Serve one language model behind a single-flight FIFO queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCmd(cmd, fv)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", "", "Path to config file (.yaml, .json or .toml)")
	pf.StringVar(&fv.modelsDir, "models-dir", "", "Directory to scan for *.gguf model files")
	pf.StringVar(&fv.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.StringVar(&fv.logFormat, "log-format", "", "Log format: console|json")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Load the model and serve the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCmd(cmd, fv)
		},
	}
	addServeFlags(root.Flags(), fv)
	addServeFlags(serve.Flags(), fv)

	models := &cobra.Command{
		Use:   "models",
		Short: "List *.gguf models found in the models directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			list, err := registry.LoadDir(cfg.ModelsDir)
			if err != nil {
				return err
			}
			return printModels(cmd.OutOrStdout(), list)
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "modelq (llama backend built: %v)\n", llm.LlamaBuilt())
		},
	}

	root.AddCommand(serve, models, version)
	return root
}

func addServeFlags(fs *pflag.FlagSet, fv *flagValues) {
	fs.StringVar(&fv.addr, "addr", "", "HTTP listen address, e.g. :8080")
	fs.StringVar(&fv.backend, "backend", "", "Engine backend: llama|server|spawn")
	fs.StringVar(&fv.model, "model", "", "Model id from the models dir, or a path to a .gguf file")
	fs.StringVar(&fv.serverURL, "server-url", "", "llama.cpp server base URL (backend=server)")
	fs.StringVar(&fv.serverAPIKey, "server-api-key", "", "Bearer token for the llama.cpp server")
	fs.StringVar(&fv.llamaBin, "llama-bin", "", "llama-server binary to run (backend=spawn)")
	fs.StringVar(&fv.llamaHost, "llama-host", "", "Host the spawned llama-server binds to")
	fs.StringVar(&fv.llamaArgs, "llama-args", "", "Comma-separated extra llama-server arguments")
	fs.IntVar(&fv.ctxSize, "ctx-size", 0, "Context size in tokens")
	fs.IntVar(&fv.threads, "threads", 0, "Inference threads (0 = engine default)")
	fs.IntVar(&fv.gpuLayers, "gpu-layers", 0, "Layers to offload to the GPU")
	fs.BoolVar(&fv.embeddings, "embeddings", false, "Enable the embedding endpoint on the engine")
	fs.Int64Var(&fv.maxBodyBytes, "max-body-bytes", 0, "Maximum JSON request body size")
	fs.IntVar(&fv.inferTimeout, "infer-timeout-seconds", 0, "Give up waiting for a queued request after N seconds (0 = never)")
	fs.BoolVar(&fv.cors, "cors", false, "Enable CORS")
	fs.StringVar(&fv.corsOrigins, "cors-origins", "", "Comma-separated allowed origins")
	fs.BoolVar(&fv.swagger, "swagger", false, "Serve Swagger UI under /swagger/")
}

// resolveConfig loads the config file, applies explicitly set flags on top
// and fills defaults.
func resolveConfig(cmd *cobra.Command, fv *flagValues) (config.Config, error) {
	var cfg config.Config
	if fv.configPath != "" {
		c, err := config.Load(fv.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	applyFlags(cmd.Flags(), fv, &cfg)
	return config.WithDefaults(cfg), nil
}

// applyFlags copies only the flags the user actually set.
func applyFlags(fs *pflag.FlagSet, fv *flagValues, cfg *config.Config) {
	set := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if set("addr") {
		cfg.Addr = fv.addr
	}
	if set("backend") {
		cfg.Backend = fv.backend
	}
	if set("model") {
		cfg.Model = fv.model
	}
	if set("models-dir") {
		cfg.ModelsDir = fv.modelsDir
	}
	if set("server-url") {
		cfg.ServerURL = fv.serverURL
	}
	if set("server-api-key") {
		cfg.ServerAPIKey = fv.serverAPIKey
	}
	if set("llama-bin") {
		cfg.LlamaBin = fv.llamaBin
	}
	if set("llama-host") {
		cfg.LlamaHost = fv.llamaHost
	}
	if set("llama-args") {
		cfg.LlamaExtraArgs = splitCSV(fv.llamaArgs)
	}
	if set("ctx-size") {
		cfg.CtxSize = fv.ctxSize
	}
	if set("threads") {
		cfg.Threads = fv.threads
	}
	if set("gpu-layers") {
		cfg.GPULayers = fv.gpuLayers
	}
	if set("embeddings") {
		cfg.Embeddings = fv.embeddings
	}
	if set("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if set("log-format") {
		cfg.LogFormat = fv.logFormat
	}
	if set("max-body-bytes") {
		cfg.MaxBodyBytes = fv.maxBodyBytes
	}
	if set("infer-timeout-seconds") {
		cfg.InferTimeoutSeconds = fv.inferTimeout
	}
	if set("cors") {
		cfg.CORSEnabled = fv.cors
	}
	if set("cors-origins") {
		cfg.CORSOrigins = splitCSV(fv.corsOrigins)
	}
	if set("swagger") {
		cfg.Swagger = fv.swagger
	}
}

// newLogger builds the process logger from config.
func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
