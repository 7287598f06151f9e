package itinerary

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/internal/api"
	"github.com/roamly-ai/roamly/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GenerateItinerary handles POST /generate_itinerary.
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Destination) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "destination is required")
		return
	}
	if req.Days < 1 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "days must be at least 1")
		return
	}
	if req.Budget <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "budget must be positive")
		return
	}

	text := h.service.GenerateItinerary(ctx, req)

	span.SetStatus(codes.Ok, "Itinerary returned")
	api.WriteJSONResponse(w, r, http.StatusOK, types.ItineraryResponse{ItineraryText: text})
}
