package geo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamly-ai/roamly/app/observability/metrics"
	"github.com/roamly-ai/roamly/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHaversineKm(t *testing.T) {
	paris := types.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	berlin := types.Coordinates{Latitude: 52.52, Longitude: 13.405}

	// Paris-Berlin great-circle distance is roughly 878 km
	d := HaversineKm(paris, berlin)
	assert.InDelta(t, 878, d, 5)

	// Zero distance for identical points
	assert.Equal(t, 0.0, HaversineKm(paris, paris))
}

func TestGeocoder_ResolveAndCache(t *testing.T) {
	metrics.InitAppMetrics()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "paris", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "48.8566", "lon": "2.3522"}]`))
	}))
	defer server.Close()

	geocoder, err := NewGeocoder(server.URL, "test-agent", 2*time.Second, 10, discardLogger())
	require.NoError(t, err)

	coords, ok := geocoder.Resolve(context.Background(), "paris")
	require.True(t, ok)
	assert.InDelta(t, 48.8566, coords.Latitude, 0.0001)
	assert.InDelta(t, 2.3522, coords.Longitude, 0.0001)

	// Second lookup for the same name is served from the LRU cache
	_, ok = geocoder.Resolve(context.Background(), "paris")
	require.True(t, ok)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, geocoder.CacheLen())
}

func TestGeocoder_UnknownPlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	geocoder, err := NewGeocoder(server.URL, "test-agent", 2*time.Second, 10, discardLogger())
	require.NoError(t, err)

	_, ok := geocoder.Resolve(context.Background(), "atlantis")
	assert.False(t, ok)
	// Misses are not cached
	assert.Equal(t, 0, geocoder.CacheLen())
}

func TestGeocoder_ServerErrorTreatedAsUnresolved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	geocoder, err := NewGeocoder(server.URL, "test-agent", 2*time.Second, 10, discardLogger())
	require.NoError(t, err)

	_, ok := geocoder.Resolve(context.Background(), "paris")
	assert.False(t, ok)
}

func TestRouter_DrivingRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"routes":[{"distance": 1050500, "duration": 37200,
			"geometry": {"coordinates": [[2.3522, 48.8566], [13.405, 52.52]]}}]}`))
	}))
	defer server.Close()

	router := NewRouter(server.URL, 2*time.Second, discardLogger())

	route, ok := router.DrivingRoute(context.Background(),
		types.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
		types.Coordinates{Latitude: 52.52, Longitude: 13.405})
	require.True(t, ok)
	assert.InDelta(t, 1050.5, route.DistanceKm, 0.01)
	assert.Equal(t, 620, route.DurationMin)
	assert.Len(t, route.Geometry, 2)
}

func TestRouter_NoRoutesInPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"routes":[]}`))
	}))
	defer server.Close()

	router := NewRouter(server.URL, 2*time.Second, discardLogger())

	_, ok := router.DrivingRoute(context.Background(), types.Coordinates{}, types.Coordinates{})
	assert.False(t, ok)
}

func TestRouter_MalformedPayloadTreatedAsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	router := NewRouter(server.URL, 2*time.Second, discardLogger())

	_, ok := router.DrivingRoute(context.Background(), types.Coordinates{}, types.Coordinates{})
	assert.False(t, ok)
}
