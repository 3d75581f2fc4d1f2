package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"health-assistant/internal/assistant"
	"health-assistant/internal/charts"
	"health-assistant/internal/config"
	"health-assistant/internal/geminiservice"
	"health-assistant/internal/llm"
	"health-assistant/internal/recommendation"
	"health-assistant/internal/server"
	"health-assistant/internal/utility"

	"github.com/rs/zerolog/log"
)

func gracefulShutdown(apiServer *server.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

// newGenerator picks the text generation backend named by the config.
func newGenerator(cfg *config.Config) llm.Generator {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  cfg.LLM.OpenAIAPIKey,
			Model:   cfg.LLM.OpenAIModel,
			BaseURL: cfg.LLM.OpenAIBaseURL,
		})
	default:
		logger := log.With().Str("component", "gemini").Logger()
		return geminiservice.NewClient(geminiservice.Config{
			APIKey:  cfg.LLM.GoogleAPIKey,
			Model:   cfg.LLM.GeminiModel,
			BaseURL: cfg.LLM.GeminiBaseURL,
			Timeout: cfg.LLM.Timeout,
		}, &logger)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error: invalid configuration")
	}
	utility.SetupLogger(cfg.App.LogLevel, cfg.IsProduction())

	renderer, err := charts.NewRenderer(cfg.Charts.CacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Fatal error: could not create chart renderer")
	}

	requester := recommendation.NewRequester(newGenerator(cfg))
	svc := assistant.NewService(requester, renderer)
	apiServer := server.NewServer(cfg, svc, renderer)

	log.Info().
		Str("env", cfg.App.Env).
		Str("llm_provider", cfg.LLM.Provider).
		Msg("Health assistant starting")

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, done)

	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server error")
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
