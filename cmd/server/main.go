package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/ragchunk/internal/api"
	"github.com/dgallion1/ragchunk/internal/chunkstore"
	"github.com/dgallion1/ragchunk/internal/config"
	"github.com/dgallion1/ragchunk/internal/expand"
	"github.com/dgallion1/ragchunk/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	store := chunkstore.NewClient(cfg.ChunkstoreURL, cfg.ChunkstoreAPIKey)

	var expander *expand.Expander
	if cfg.ExpandAcronyms {
		terms := expand.DefaultTerms
		if cfg.AcronymFile != "" {
			loaded, err := expand.LoadTerms(cfg.AcronymFile)
			if err != nil {
				log.Error("failed to load acronym file", "path", cfg.AcronymFile, "error", err)
				os.Exit(1)
			}
			terms = loaded
		}
		expander = expand.New(terms)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, expander, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, expander, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Close()
	}()

	log.Info("starting ragchunk", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
