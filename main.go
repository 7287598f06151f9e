package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/roamly-ai/roamly/app/db"
	appLogger "github.com/roamly-ai/roamly/app/logger"
	"github.com/roamly-ai/roamly/app/observability/metrics"
	"github.com/roamly-ai/roamly/app/tracer"
	"github.com/roamly-ai/roamly/config"
	"github.com/roamly-ai/roamly/internal/api/chat"
	"github.com/roamly-ai/roamly/internal/api/directions"
	"github.com/roamly-ai/roamly/internal/api/geo"
	"github.com/roamly-ai/roamly/internal/api/itinerary"
	"github.com/roamly-ai/roamly/internal/api/knowledge"
	"github.com/roamly-ai/roamly/internal/api/llm"
	"github.com/roamly-ai/roamly/internal/api/session"
	"github.com/roamly-ai/roamly/internal/api/weather"
	api "github.com/roamly-ai/roamly/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(cfg.Metrics.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	db, err := database.Init(cfg.Repositories.SQLite.Path, logger)
	if err != nil {
		logger.Error("Failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if !database.WaitForDB(ctx, db, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	sessionRepo := session.NewSQLiteRepository(db, cfg.Repositories.SQLite.ChatTTL, logger)
	sessionHandler := session.NewHandler(sessionRepo, logger)

	geocoder, err := geo.NewGeocoder(cfg.Services.Geocoder.BaseURL, cfg.Services.Geocoder.UserAgent,
		cfg.Services.Geocoder.Timeout, cfg.Services.Geocoder.CacheSize, logger)
	if err != nil {
		logger.Error("Failed to initialize geocoder", slog.Any("error", err))
		os.Exit(1)
	}
	roadRouter := geo.NewRouter(cfg.Services.Routing.BaseURL, cfg.Services.Routing.Timeout, logger)

	directionsService := directions.NewService(geocoder, roadRouter, logger)
	directionsHandler := directions.NewHandler(directionsService, logger)

	weatherService := weather.NewService(cfg.Services.Weather.BaseURL, os.Getenv("OPENWEATHER_API_KEY"),
		cfg.Services.Weather.Timeout, cfg.Services.Weather.CacheTTL, logger)

	// Missing LLM credential is fatal at startup; everything downstream
	// depends on the chat-completion endpoint.
	llmClient, err := llm.NewChatClient(cfg.Services.LLM.BaseURL, os.Getenv("GROQ_API_KEY"),
		cfg.Services.LLM.Model, cfg.Services.LLM.Temperature, cfg.Services.LLM.MaxTokens, logger)
	if err != nil {
		logger.Error("Failed to initialize LLM client", slog.Any("error", err))
		os.Exit(1)
	}

	retriever := knowledge.NewCorpusRetriever(cfg.Knowledge.CorpusDir, logger)

	chatService := chat.NewService(sessionRepo, llmClient, weatherService,
		directionsService, retriever, cfg.Knowledge.TopK, logger)
	chatHandler := chat.NewHandler(chatService, logger)

	itineraryService := itinerary.NewService(llmClient, retriever, cfg.Knowledge.TopK, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	// --- Router Setup ---
	mainRouter := api.SetupRouter(&api.Config{
		ChatHandler:       chatHandler,
		ItineraryHandler:  itineraryHandler,
		DirectionsHandler: directionsHandler,
		SessionHandler:    sessionHandler,
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
