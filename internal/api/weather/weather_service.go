package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service reports live weather for a city as a ready-to-embed text line.
// Failures are returned as labeled error strings, never as Go errors: the
// caller feeds the result straight into a prompt either way.
type Service interface {
	LiveWeather(ctx context.Context, city string) string
}

type ServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	cache   *cache.Cache
}

func NewService(baseURL, apiKey string, timeout, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

// LiveWeather fetches current conditions for city. Recent lookups are served
// from the TTL cache so back-to-back questions about the same city do not
// hammer the upstream API.
func (s *ServiceImpl) LiveWeather(ctx context.Context, city string) string {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "LiveWeather")
	defer span.End()
	span.SetAttributes(attribute.String("weather.city", city))

	if s.apiKey == "" {
		span.SetStatus(codes.Error, "API key missing")
		return "ERROR: Weather API key is missing."
	}

	city = strings.TrimSpace(city)
	cacheKey := strings.ToLower(city)
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetStatus(codes.Ok, "Cache hit")
		return cached.(string)
	}

	reqURL := fmt.Sprintf("%s/weather?%s", s.baseURL, url.Values{
		"q":     {city},
		"appid": {s.apiKey},
		"units": {"metric"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request build failed")
		return fmt.Sprintf("ERROR: Weather API crashed: %v", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		s.logger.WarnContext(ctx, "Weather request failed", slog.String("city", city), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return fmt.Sprintf("ERROR: Weather API crashed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		s.logger.WarnContext(ctx, "Weather request returned non-OK status",
			slog.String("city", city), slog.Int("status", res.StatusCode))
		span.SetStatus(codes.Error, "Non-OK status")
		return fmt.Sprintf("ERROR: Weather API failed | City: %s | Status: %d", city, res.StatusCode)
	}

	var payload struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decode failed")
		return fmt.Sprintf("ERROR: Weather API crashed: %v", err)
	}

	desc := ""
	if len(payload.Weather) > 0 {
		desc = cases.Title(language.English).String(payload.Weather[0].Description)
	}

	report := fmt.Sprintf("%s Live Weather: %.1f°C (Feels like %.1f°C), %s, Humidity %d%%, Wind %.1f m/s.",
		cases.Title(language.English).String(city),
		payload.Main.Temp, payload.Main.FeelsLike, desc,
		payload.Main.Humidity, payload.Wind.Speed)

	s.cache.Set(cacheKey, report, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Weather fetched")
	return report
}
