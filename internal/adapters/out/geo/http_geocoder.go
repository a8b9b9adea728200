// Package geo implements the Geocoder port against a Pelias-compatible
// geocoding HTTP API (GET /geocode/search).
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
)

var _ ports.Geocoder = &HTTPGeocoder{}

// HTTPGeocoder resolves free-text addresses via a remote geocoding service.
type HTTPGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGeocoder creates an HTTPGeocoder. The client is optional; a
// default with a 10 second timeout is used when nil.
func NewHTTPGeocoder(baseURL string, apiKey string, client *http.Client) (*HTTPGeocoder, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &HTTPGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			// Coordinates come back in GeoJSON order: [longitude, latitude].
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Resolve returns the best-match coordinates for the address. An empty
// result set is an error; callers degrade to fallback behavior.
func (g *HTTPGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if strings.TrimSpace(address) == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	endpoint := g.baseURL + "/geocode/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("execute geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return kernel.GeoPoint{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return kernel.GeoPoint{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	point, err := kernel.NewGeoPoint(coords[1], coords[0])
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("geocode result out of range for %q: %w", address, err)
	}

	return point, nil
}
