package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/internal/types"
)

// DrivingRoute is a real road-network route between two coordinate pairs.
type DrivingRoute struct {
	DistanceKm  float64
	DurationMin int
	Geometry    [][]float64
}

// Router fetches driving routes from an OSRM-compatible endpoint.
type Router struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

func NewRouter(baseURL string, timeout time.Duration, logger *slog.Logger) *Router {
	return &Router{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// DrivingRoute requests a road route between src and dst. The boolean is false
// on any network, status, or payload failure; callers fall back to a
// great-circle estimate.
func (r *Router) DrivingRoute(ctx context.Context, src, dst types.Coordinates) (DrivingRoute, bool) {
	ctx, span := otel.Tracer("Router").Start(ctx, "DrivingRoute")
	defer span.End()

	// OSRM wants lon,lat ordering
	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		r.baseURL, src.Longitude, src.Latitude, dst.Longitude, dst.Latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request build failed")
		return DrivingRoute{}, false
	}

	res, err := r.client.Do(req)
	if err != nil {
		r.logger.WarnContext(ctx, "Routing request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return DrivingRoute{}, false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		r.logger.WarnContext(ctx, "Routing request returned non-OK status", slog.Int("status", res.StatusCode))
		span.SetStatus(codes.Error, "Non-OK status")
		return DrivingRoute{}, false
	}

	var payload struct {
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		r.logger.WarnContext(ctx, "Failed to decode routing response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decode failed")
		return DrivingRoute{}, false
	}
	if len(payload.Routes) == 0 {
		span.SetStatus(codes.Ok, "No route found")
		return DrivingRoute{}, false
	}

	route := payload.Routes[0]
	span.SetStatus(codes.Ok, "Route found")
	return DrivingRoute{
		DistanceKm:  math.Round(route.Distance/1000*100) / 100,
		DurationMin: int(route.Duration / 60),
		Geometry:    route.Geometry.Coordinates,
	}, true
}
