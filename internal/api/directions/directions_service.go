package directions

import (
	"context"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roamly-ai/roamly/internal/api/geo"
	"github.com/roamly-ai/roamly/internal/types"
)

const (
	// Fixed per-mode average speeds in km/h.
	speedCar   = 50.0
	speedTrain = 70.0
	speedBus   = 40.0

	// Base distance used when neither place resolves.
	fallbackDistanceKm = 500.0

	// Degenerate very-short trips are clamped up to this floor.
	minDistanceKm = 20.0
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (types.Coordinates, bool)
}

// RoadRouter fetches a real driving route between two coordinate pairs.
type RoadRouter interface {
	DrivingRoute(ctx context.Context, src, dst types.Coordinates) (geo.DrivingRoute, bool)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service synthesizes the three named route plans between two places.
type Service interface {
	PlanRoutes(ctx context.Context, origin, destination string) *types.RoutesResult
}

type ServiceImpl struct {
	logger   *slog.Logger
	geocoder Geocoder
	router   RoadRouter
}

func NewService(geocoder Geocoder, router RoadRouter, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		geocoder: geocoder,
		router:   router,
	}
}

// PlanRoutes derives recommended/fastest/cheapest plans from a single base
// distance. It never fails: unresolved places fall back to a fixed distance
// with empty geometry, and an unavailable road route falls back to the
// great-circle estimate.
func (s *ServiceImpl) PlanRoutes(ctx context.Context, origin, destination string) *types.RoutesResult {
	ctx, span := otel.Tracer("DirectionsService").Start(ctx, "PlanRoutes")
	defer span.End()
	span.SetAttributes(
		attribute.String("directions.origin", origin),
		attribute.String("directions.destination", destination),
	)

	l := s.logger.With(slog.String("method", "PlanRoutes"),
		slog.String("origin", origin), slog.String("destination", destination))

	var (
		src, dst     types.Coordinates
		srcOK, dstOK bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src, srcOK = s.geocoder.Resolve(gctx, origin)
		return nil
	})
	g.Go(func() error {
		dst, dstOK = s.geocoder.Resolve(gctx, destination)
		return nil
	})
	_ = g.Wait()

	var baseKm float64
	var geometry [][]float64

	if !srcOK || !dstOK {
		l.InfoContext(ctx, "Geocoding failed, using fallback distance")
		baseKm = fallbackDistanceKm
	} else if route, ok := s.router.DrivingRoute(ctx, src, dst); ok {
		baseKm = route.DistanceKm
		geometry = route.Geometry
	} else {
		l.InfoContext(ctx, "Road route unavailable, using great-circle estimate")
		baseKm = geo.HaversineKm(src, dst)
	}

	if baseKm < minDistanceKm {
		baseKm = minDistanceKm
	}

	titler := cases.Title(language.English)
	originCity := titler.String(origin)
	destCity := titler.String(destination)

	// Recommended: car leg to the station, train for the bulk, bus for the
	// remainder. The bus share is derived by subtraction so the three legs
	// always sum back to the base distance.
	carKm := roundKm(baseKm * 0.10)
	trainKm := roundKm(baseKm * 0.75)
	busKm := roundKm(baseKm - carKm - trainKm)

	recommended := types.RoutePlan{
		TotalDistanceKm: roundKm(carKm + trainKm + busKm),
		TotalTimeMin: travelMinutes(carKm, speedCar) +
			travelMinutes(trainKm, speedTrain) +
			travelMinutes(busKm, speedBus),
		Geometry: geometry,
		Segments: []types.RouteSegment{
			{Mode: types.ModeCar, From: originCity + " Home", To: originCity + " Station",
				DistanceKm: carKm, TimeMin: travelMinutes(carKm, speedCar)},
			{Mode: types.ModeTrain, From: originCity + " Station", To: destCity + " Station",
				DistanceKm: trainKm, TimeMin: travelMinutes(trainKm, speedTrain)},
			{Mode: types.ModeBus, From: destCity + " Station", To: destCity + " Hotel",
				DistanceKm: busKm, TimeMin: travelMinutes(busKm, speedBus)},
		},
	}

	fastest := types.RoutePlan{
		TotalDistanceKm: roundKm(baseKm * 0.95),
		TotalTimeMin:    travelMinutes(baseKm, speedTrain),
		Geometry:        geometry,
		Segments: []types.RouteSegment{
			{Mode: types.ModeTrain, From: originCity, To: destCity,
				DistanceKm: roundKm(baseKm * 0.95), TimeMin: travelMinutes(baseKm, speedTrain)},
		},
	}

	cheapest := types.RoutePlan{
		TotalDistanceKm: roundKm(baseKm),
		TotalTimeMin:    travelMinutes(baseKm, speedBus),
		Geometry:        geometry,
		Segments: []types.RouteSegment{
			{Mode: types.ModeBus, From: originCity, To: destCity,
				DistanceKm: roundKm(baseKm), TimeMin: travelMinutes(baseKm, speedBus)},
		},
	}

	span.SetStatus(codes.Ok, "Route plans produced")
	return &types.RoutesResult{
		Recommended: recommended,
		Fastest:     fastest,
		Cheapest:    cheapest,
	}
}

// travelMinutes converts a distance at a fixed average speed to whole minutes.
func travelMinutes(distanceKm, speedKmph float64) int {
	if speedKmph <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / speedKmph * 60))
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
