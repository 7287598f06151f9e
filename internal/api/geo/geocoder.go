package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roamly-ai/roamly/app/observability/metrics"
	"github.com/roamly-ai/roamly/internal/types"
)

// Geocoder resolves free-text place names to coordinates via a Nominatim-style
// search endpoint. Lookups are memoized in a bounded LRU cache so repeated
// place names never hit the network twice while the entry is resident.
type Geocoder struct {
	logger    *slog.Logger
	client    *http.Client
	baseURL   string
	userAgent string
	cache     *lru.Cache[string, types.Coordinates]
}

func NewGeocoder(baseURL, userAgent string, timeout time.Duration, cacheSize int, logger *slog.Logger) (*Geocoder, error) {
	cache, err := lru.New[string, types.Coordinates](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode cache: %w", err)
	}
	return &Geocoder{
		logger:    logger,
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: userAgent,
		cache:     cache,
	}, nil
}

// Resolve returns the first search result for place. The boolean is false when
// the place is unknown or the lookup failed; failures never surface as errors.
func (g *Geocoder) Resolve(ctx context.Context, place string) (types.Coordinates, bool) {
	ctx, span := otel.Tracer("Geocoder").Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("geo.place", place))

	if coords, found := g.cache.Get(place); found {
		metrics.Get().GeocodeCacheHitsTotal.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("geo.cache_hit", true))
		span.SetStatus(codes.Ok, "Cache hit")
		return coords, true
	}

	reqURL := fmt.Sprintf("%s/search?%s", g.baseURL, url.Values{
		"q":      {place},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request build failed")
		return types.Coordinates{}, false
	}
	req.Header.Set("User-Agent", g.userAgent)

	res, err := g.client.Do(req)
	if err != nil {
		g.logger.WarnContext(ctx, "Geocode request failed", slog.String("place", place), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return types.Coordinates{}, false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		g.logger.WarnContext(ctx, "Geocode request returned non-OK status",
			slog.String("place", place), slog.Int("status", res.StatusCode))
		span.SetStatus(codes.Error, "Non-OK status")
		return types.Coordinates{}, false
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		g.logger.WarnContext(ctx, "Failed to decode geocode response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decode failed")
		return types.Coordinates{}, false
	}
	if len(results) == 0 {
		span.SetStatus(codes.Ok, "Place not found")
		return types.Coordinates{}, false
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		g.logger.WarnContext(ctx, "Geocode response had malformed coordinates", slog.String("place", place))
		span.SetStatus(codes.Error, "Malformed coordinates")
		return types.Coordinates{}, false
	}

	coords := types.Coordinates{Latitude: lat, Longitude: lon}
	g.cache.Add(place, coords)
	span.SetStatus(codes.Ok, "Place resolved")
	return coords, true
}

// CacheLen reports how many geocode entries are resident.
func (g *Geocoder) CacheLen() int {
	return g.cache.Len()
}
