package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicalscribe/scribe-service/internal/api"
	httpHandlers "github.com/clinicalscribe/scribe-service/internal/api/http"
	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/config"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/llm"
	"github.com/clinicalscribe/scribe-service/internal/logger"
	"github.com/clinicalscribe/scribe-service/internal/store/factory"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	log := logger.New("scribe-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *buildTarget != "" {
		cfg.BuildTarget = *buildTarget
		cfg.DBDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Scribe service starting")

	// -------- Storage layer -----------------
	ctx := context.Background()
	st, db, err := factory.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store unavailable")
	}
	defer func() { _ = db.Close() }()

	// -------- Generation backend ------------
	var streamer llm.Streamer
	switch cfg.LLMProvider {
	case "ollama":
		streamer = llm.NewOllamaStreamer(cfg.OllamaURL, cfg.LLMModel)
	case "mock":
		// Scripted backend for demos and smoke tests.
		streamer = &llm.MockStreamer{Fragments: []llm.Fragment{
			{Text: "## Subjective\n(placeholder output)\n", Done: true},
		}}
	default:
		log.Fatal().Str("provider", cfg.LLMProvider).Msg("Unsupported LLM provider")
	}

	// -------- Health monitor ---------------
	httpHandlers.StartHealthMonitor(ctx, cfg.LLMProvider, cfg.OllamaURL, cfg.LLMModel, 30*time.Second)

	// -------- Router & Server --------------
	router := api.NewRouter(api.Deps{
		Store:      st,
		Authorizer: auth.NewDevAuthorizer(),
		Streamer:   streamer,
		Policy:     note.Policy{Window: cfg.TranscriptWindow, CharBudget: cfg.ContextCharBudget},
		Timeout:    cfg.GenerateTimeout(),
		Log:        log,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // generation responses can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
