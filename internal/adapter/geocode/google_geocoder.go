package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nyius/HouseMarketplace/internal/port/geocoder"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder resolves free-text addresses through the Google Geocoding
// API. Only the best match is used.
type GoogleGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewGoogleGeocoder(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *GoogleGeocoder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GoogleGeocoder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, address string) (*geocoder.Result, error) {
	reqURL := fmt.Sprintf("%s?address=%s&key=%s", g.baseURL, url.QueryEscape(address), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: failed to build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		g.logger.Debug("GoogleGeocoder: zero results", zap.String("address", address))
		return nil, geocoder.ErrZeroResults
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("geocoder: service returned status %q", body.Status)
	}

	best := body.Results[0]
	return &geocoder.Result{
		FormattedAddress: best.FormattedAddress,
		Lat:              best.Geometry.Location.Lat,
		Lng:              best.Geometry.Location.Lng,
	}, nil
}
