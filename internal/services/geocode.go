package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultGeocodeBaseURL = "https://nominatim.openstreetmap.org"

var geocodeHTTPClient = &http.Client{Timeout: 15 * time.Second}

// ErrNoGeocodeResult is returned when the geocoder finds nothing for the input.
var ErrNoGeocodeResult = errors.New("no geocoding result")

// GeocodeService resolves free-text addresses and device coordinates against
// a Nominatim-compatible geocoding API.
type GeocodeService struct {
	baseURL string
}

// NewGeocodeService creates a GeocodeService. An empty baseURL falls back to
// the public Nominatim instance.
func NewGeocodeService(baseURL string) *GeocodeService {
	if baseURL == "" {
		baseURL = defaultGeocodeBaseURL
	}
	return &GeocodeService{baseURL: strings.TrimRight(baseURL, "/")}
}

// GeocodeResult is a resolved location.
type GeocodeResult struct {
	DisplayName string
	Lat         float64
	Lng         float64
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Forward resolves a free-text address into coordinates and a display name.
func (s *GeocodeService) Forward(ctx context.Context, query string) (*GeocodeResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrNoGeocodeResult
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", s.baseURL, url.QueryEscape(query))

	var places []nominatimPlace
	if err := s.get(ctx, endpoint, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNoGeocodeResult
	}
	return placeToResult(places[0])
}

// Reverse resolves device coordinates into a display address.
func (s *GeocodeService) Reverse(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	endpoint := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json", s.baseURL, lat, lng)

	var place nominatimPlace
	if err := s.get(ctx, endpoint, &place); err != nil {
		return nil, err
	}
	if place.DisplayName == "" {
		return nil, ErrNoGeocodeResult
	}
	return placeToResult(place)
}

func (s *GeocodeService) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "bikezone-backend")

	resp, err := geocodeHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func placeToResult(place nominatimPlace) (*GeocodeResult, error) {
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned invalid latitude %q", place.Lat)
	}
	lng, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoder returned invalid longitude %q", place.Lon)
	}
	return &GeocodeResult{DisplayName: place.DisplayName, Lat: lat, Lng: lng}, nil
}
