// Package main implements the HTTP server for the traffic-law search.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/dsjohal14/transitlaw/internal/http"
	"github.com/dsjohal14/transitlaw/internal/libs/config"
	"github.com/dsjohal14/transitlaw/internal/libs/obs"
	"github.com/dsjohal14/transitlaw/internal/relay"
	"github.com/dsjohal14/transitlaw/internal/scope/search"
	"github.com/dsjohal14/transitlaw/internal/scope/snippet"
	"github.com/dsjohal14/transitlaw/internal/streamlite"
	"github.com/dsjohal14/transitlaw/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open corpus source
	static := web.Static()
	src, closeSrc, err := streamlite.Open(ctx, streamlite.Options{
		Location:     cfg.CorpusSource,
		DatabaseURL:  cfg.DatabaseURL,
		Embedded:     static,
		CacheEntries: cfg.CacheEntries,
		Logger:       obs.Logger("source"),
	})
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.CorpusSource).Msg("failed to open corpus source")
	}
	defer closeSrc()

	pipeline := relay.NewPipeline(relay.Config{
		Source:     src,
		CorpusName: cfg.CorpusName,
		Engine:     search.NewMatcher(cfg.MatchBatchSize),
		Renderer:   snippet.NewRenderer(cfg.PreviewWindow),
		Logger:     obs.Logger("search"),
	})

	// A failed first load keeps the server up; /search answers 503 until
	// a reload succeeds.
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if _, err := pipeline.Reload(loadCtx); err != nil {
		logger.Error().Err(err).Msg("initial corpus load failed")
	}
	cancel()

	// Create HTTP handler
	handler := apihttp.NewHandler(pipeline, static, logger)

	// Setup router
	r := setupRouter(handler)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// Start server
	logger.Info().Str("addr", srv.Addr).Msg("starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

func setupRouter(h *apihttp.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Routes
	r.Get("/health", h.HandleHealth)
	r.Post("/search", h.HandleSearch)
	r.Get("/suggest", h.HandleSuggest)
	r.Post("/reload", h.HandleReload)

	// Everything else is a static asset
	r.Get("/*", h.HandleStatic)
	r.Head("/*", h.HandleStatic)

	return r
}
