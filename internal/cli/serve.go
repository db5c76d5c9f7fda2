package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/misinfoguard/sentinel/internal/api"
	"github.com/misinfoguard/sentinel/internal/config"
	"github.com/misinfoguard/sentinel/internal/database"
	"github.com/misinfoguard/sentinel/internal/nlp"
	"github.com/misinfoguard/sentinel/internal/pipeline"
	"github.com/misinfoguard/sentinel/internal/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServer(cfg)
	},
}

func runServer(cfg *config.Config) error {
	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	sentiment, err := nlp.NewSentimentAnalyzer(&cfg.NLP)
	if err != nil {
		return fmt.Errorf("configuring sentiment analyzer: %w", err)
	}

	p := pipeline.New(cfg, newGatherer(cfg), sentiment, store)
	handler := api.NewHandler(p, store)
	router := api.NewRouter(handler, store, cfg.RateLimits.RequestsPerMinute)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// newGatherer builds the evidence gatherer from provider config. Google search
// is preferred when credentials are present; DuckDuckGo needs none and serves
// as the fallback.
func newGatherer(cfg *config.Config) *search.Gatherer {
	var provider search.SearchProvider
	google := search.NewGoogleSearchClient(cfg.Providers.Google.APIKey, cfg.Providers.Google.SearchEngineID)
	if google.Available() {
		provider = google
	} else {
		log.Warn().Msg("Google search not configured, falling back to DuckDuckGo")
		provider = search.NewDuckDuckGoClient()
	}

	factCheck := search.NewGoogleFactCheckClient(cfg.Providers.Google.APIKey)
	if !factCheck.Available() {
		log.Warn().Msg("Google fact check not configured, verdicts rely on search evidence only")
	}

	return search.NewGatherer(provider, factCheck, search.GathererOptions{
		Timeout:        time.Duration(cfg.Providers.TimeoutSeconds) * time.Second,
		RequestsPerSec: cfg.Providers.RequestsPerSec,
		Burst:          cfg.Providers.Burst,
		CacheTTL:       time.Duration(cfg.Providers.CacheTTLMin) * time.Minute,
	})
}
