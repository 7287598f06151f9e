package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/roamly-ai/roamly/internal/api/chat"
	"github.com/roamly-ai/roamly/internal/api/directions"
	"github.com/roamly-ai/roamly/internal/api/itinerary"
	"github.com/roamly-ai/roamly/internal/api/session"
)

// Config contains the handlers needed for the router setup.
type Config struct {
	ChatHandler       *chat.Handler
	ItineraryHandler  *itinerary.Handler
	DirectionsHandler *directions.Handler
	SessionHandler    *session.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8501", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(60, 1*time.Minute))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Post("/generate_itinerary", cfg.ItineraryHandler.GenerateItinerary)
	r.Post("/routes", cfg.DirectionsHandler.PlanRoutes)
	r.Delete("/sessions/{sessionID}", cfg.SessionHandler.DeleteSession)

	return r
}
