package directions

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/app/observability/metrics"
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

// PlanRoutes handles POST /routes - returns the three named route plans.
// This is the one endpoint that surfaces a structured {error} payload to the
// frontend; unresolvable places still produce a complete fallback result.
func (h *Handler) PlanRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DirectionsHandler").Start(r.Context(), "PlanRoutes")
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanRoutes"))

	var req types.RoutesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	origin := strings.TrimSpace(req.Origin)
	destination := strings.TrimSpace(req.Destination)
	if origin == "" || destination == "" {
		l.WarnContext(ctx, "Missing origin or destination")
		span.SetStatus(codes.Error, "Missing origin or destination")
		api.ErrorResponse(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}

	result := h.service.PlanRoutes(ctx, origin, destination)
	metrics.Get().RoutePlansTotal.Add(ctx, 1)

	span.SetStatus(codes.Ok, "Route plans returned")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
