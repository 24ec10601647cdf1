package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Mirpur 10 Dhaka", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name":"Mirpur 10, Dhaka, Bangladesh","lat":"23.8069","lon":"90.3687"}]`))
	}))
	defer srv.Close()

	svc := NewGeocodeService(srv.URL)
	result, err := svc.Forward(context.Background(), "Mirpur 10 Dhaka")
	require.NoError(t, err)

	assert.Equal(t, "Mirpur 10, Dhaka, Bangladesh", result.DisplayName)
	assert.InDelta(t, 23.8069, result.Lat, 1e-9)
	assert.InDelta(t, 90.3687, result.Lng, 1e-9)
}

func TestForwardGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := NewGeocodeService(srv.URL)
	_, err := svc.Forward(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoGeocodeResult)
}

func TestForwardGeocodeEmptyQuery(t *testing.T) {
	svc := NewGeocodeService("http://unused.invalid")
	_, err := svc.Forward(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoGeocodeResult)
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Gulshan 2, Dhaka, Bangladesh","lat":"23.7925","lon":"90.4078"}`))
	}))
	defer srv.Close()

	svc := NewGeocodeService(srv.URL)
	result, err := svc.Reverse(context.Background(), 23.7925, 90.4078)
	require.NoError(t, err)

	assert.Equal(t, "Gulshan 2, Dhaka, Bangladesh", result.DisplayName)
}

func TestGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewGeocodeService(srv.URL)
	_, err := svc.Forward(context.Background(), "Dhaka")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
