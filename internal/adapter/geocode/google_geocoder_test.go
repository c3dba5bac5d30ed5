package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nyius/HouseMarketplace/internal/port/geocoder"
)

func TestResolve_BestMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123 Main St, New York", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"formatted_address": "123 Main St", "geometry": {"location": {"lat": 40.7, "lng": -74.0}}},
				{"formatted_address": "123 Main St (alt)", "geometry": {"location": {"lat": 1, "lng": 2}}}
			]
		}`))
	}))
	defer srv.Close()

	g := NewGoogleGeocoder(srv.URL, "test-key", 5*time.Second, zap.NewNop())

	res, err := g.Resolve(context.Background(), "123 Main St, New York")

	require.NoError(t, err)
	assert.Equal(t, "123 Main St", res.FormattedAddress)
	assert.Equal(t, 40.7, res.Lat)
	assert.Equal(t, -74.0, res.Lng)
}

func TestResolve_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer srv.Close()

	g := NewGoogleGeocoder(srv.URL, "test-key", 5*time.Second, zap.NewNop())

	_, err := g.Resolve(context.Background(), "nowhere at all")

	assert.ErrorIs(t, err, geocoder.ErrZeroResults)
}

func TestResolve_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "results": [{"formatted_address": "x"}]}`))
	}))
	defer srv.Close()

	g := NewGoogleGeocoder(srv.URL, "bad-key", 5*time.Second, zap.NewNop())

	_, err := g.Resolve(context.Background(), "123 Main St")

	assert.ErrorContains(t, err, "REQUEST_DENIED")
}

func TestResolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGoogleGeocoder(srv.URL, "test-key", 5*time.Second, zap.NewNop())

	_, err := g.Resolve(context.Background(), "123 Main St")

	assert.Error(t, err)
}
