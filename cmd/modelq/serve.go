package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"modelq/internal/config"
	"modelq/internal/httpapi"
	"modelq/internal/llm"
	"modelq/internal/manager"
	"modelq/internal/registry"
	"modelq/pkg/types"
)

const shutdownTimeout = 5 * time.Second

func runServeCmd(cmd *cobra.Command, fv *flagValues) error {
	cfg, err := resolveConfig(cmd, fv)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, logger)
}

// buildManager resolves the model, constructs the engine and wraps it in a Manager.
func buildManager(cfg config.Config, logger zerolog.Logger) (*manager.Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		logger.Warn().Err(err).Str("models_dir", cfg.ModelsDir).Msg("model registry unavailable")
	}

	modelID, modelPath := cfg.Model, ""
	if cfg.Backend == llm.BackendLlama || cfg.Backend == llm.BackendSpawn {
		m, err := registry.Resolve(reg, cfg.Model)
		if err != nil {
			return nil, err
		}
		modelID, modelPath = m.ID, m.Path
	}

	eng, err := llm.New(llm.Config{
		Backend:    cfg.Backend,
		ModelPath:  modelPath,
		CtxSize:    cfg.CtxSize,
		Threads:    cfg.Threads,
		GPULayers:  cfg.GPULayers,
		Embeddings: cfg.Embeddings,
		ServerURL:  cfg.ServerURL,
		APIKey:     cfg.ServerAPIKey,
		LlamaBin:   cfg.LlamaBin,
		Host:       cfg.LlamaHost,
		ExtraArgs:  cfg.LlamaExtraArgs,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return manager.New(manager.Config{
		Engine:    eng,
		ModelID:   modelID,
		Registry:  reg,
		Logger:    &logger,
		Publisher: eventLogger(logger),
	}), nil
}

// eventLogger forwards manager lifecycle events to the process logger.
func eventLogger(logger zerolog.Logger) manager.EventPublisher {
	l := logger.With().Str("component", "events").Logger()
	return manager.LogPublisher(func(e manager.Event) {
		l.Debug().Str("event", e.Name).Str("model", e.ModelID).Fields(e.Fields).Msg("manager event")
	})
}

func configureHTTP(ctx context.Context, cfg config.Config, logger zerolog.Logger) {
	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetInferTimeoutSeconds(int64(cfg.InferTimeoutSeconds))
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	httpapi.SetSwaggerEnabled(cfg.Swagger)
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	mgr, err := buildManager(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Warn().Err(err).Msg("engine close")
		}
	}()

	configureHTTP(ctx, cfg, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Requests are accepted and queued while the engine loads.
	mgr.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend).Str("model", mgr.ModelID()).Msg("modelq listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("graceful shutdown error")
		}
		return nil
	})
	return g.Wait()
}

func printModels(w io.Writer, models []types.Model) error {
	if w == nil {
		w = os.Stdout
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUANT\tSIZE MB\tPATH")
	for _, m := range models {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", m.ID, m.Quant, m.SizeBytes>>20, m.Path)
	}
	return tw.Flush()
}
