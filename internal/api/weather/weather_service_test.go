package weather

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
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const openWeatherPayload = `{
	"main": {"temp": 21.4, "feels_like": 20.1, "humidity": 60},
	"weather": [{"description": "scattered clouds"}],
	"wind": {"speed": 3.6}
}`

func TestLiveWeather_FormatsReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "paris", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openWeatherPayload))
	}))
	defer server.Close()

	svc := NewService(server.URL, "test-key", 2*time.Second, 10*time.Minute, discardLogger())

	report := svc.LiveWeather(context.Background(), "paris")
	assert.Equal(t, "Paris Live Weather: 21.4°C (Feels like 20.1°C), Scattered Clouds, Humidity 60%, Wind 3.6 m/s.", report)
}

func TestLiveWeather_CachesRecentLookups(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(openWeatherPayload))
	}))
	defer server.Close()

	svc := NewService(server.URL, "test-key", 2*time.Second, 10*time.Minute, discardLogger())

	first := svc.LiveWeather(context.Background(), "Paris")
	second := svc.LiveWeather(context.Background(), "paris")
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLiveWeather_MissingAPIKey(t *testing.T) {
	svc := NewService("http://unused", "", 2*time.Second, time.Minute, discardLogger())

	report := svc.LiveWeather(context.Background(), "paris")
	assert.Equal(t, "ERROR: Weather API key is missing.", report)
}

func TestLiveWeather_UpstreamFailureReturnsErrorString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"city not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(server.URL, "test-key", 2*time.Second, time.Minute, discardLogger())

	report := svc.LiveWeather(context.Background(), "nowhereville")
	assert.Contains(t, report, "ERROR: Weather API failed")
	assert.Contains(t, report, "Status: 404")
}
