package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Bahjat/site-health/backend/internal/analyzer"
	"github.com/Bahjat/site-health/backend/internal/narrative"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
	"github.com/Bahjat/site-health/backend/internal/pagespeed"
	"github.com/Bahjat/site-health/backend/internal/platform/config"
	"github.com/Bahjat/site-health/backend/internal/platform/logger"
	"github.com/Bahjat/site-health/backend/internal/platform/middleware"
	"github.com/Bahjat/site-health/backend/internal/platform/workerpool"
	"github.com/Bahjat/site-health/backend/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("closing store", slog.Any("error", err))
		}
	}()

	inspector := pageinsight.NewEngine(
		pageinsight.NewHTTPClient(),
		pageinsight.NewProber(log.With("component", "probe")),
	)

	auditor, err := pagespeed.NewAuditor(ctx, pagespeed.Options{
		APIKey:   cfg.PageSpeed.APIKey,
		Endpoint: cfg.PageSpeed.Endpoint,
		Timeout:  cfg.PageSpeed.Timeout,
	}, log.With("component", "pagespeed"))
	if err != nil {
		return fmt.Errorf("pagespeed auditor: %w", err)
	}

	narrator, err := newNarrator(cfg.Narrative, log.With("component", "narrative"))
	if err != nil {
		return err
	}

	pool := workerpool.New(cfg.WorkerCount, cfg.QueueSize, log.With("component", "workerpool"))

	runner := analyzer.NewRunner(store, inspector, auditor, narrator, log.With("component", "runner"))
	svc := analyzer.NewService(store, runner, pool, log.With("component", "analyzer"))
	transport := analyzer.NewTransport(svc, store, log.With("component", "http"))

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	transport.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("port", cfg.Port), slog.Int("workers", cfg.WorkerCount))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", slog.Any("error", err))
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error("worker pool shutdown", slog.Any("error", err))
	}

	log.Info("server stopped")
	return nil
}

// newNarrator returns nil when the narrative is disabled. Without an API
// key every section is served from its fallback.
func newNarrator(cfg config.NarrativeConfig, log *slog.Logger) (analyzer.Narrator, error) {
	if !cfg.Enabled {
		log.Info("narrative analysis disabled")
		return nil, nil
	}

	var llm narrative.Completer
	if cfg.APIKey != "" {
		client, err := narrative.NewClient(narrative.ClientConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("narrative client: %w", err)
		}
		llm = client
	}

	return narrative.NewEnricher(llm, log), nil
}
