package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/model"
)

func TestRequestRide(t *testing.T) {
	var got RideRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/request-ride", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(RideResponse{
			Message:   "Ride request successfully received and stored",
			RequestID: 42,
			Status:    "pending",
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).RequestRide(context.Background(), RideRequest{
		UserID:      "USER-AB12CD34",
		Source:      "Downtown Core",
		Destination: "Airport Terminal",
	})
	require.NoError(t, err)

	assert.Equal(t, "USER-AB12CD34", got.UserID)
	assert.Equal(t, "Downtown Core", got.Source)
	assert.Equal(t, "Airport Terminal", got.Destination)
	assert.Equal(t, int64(42), resp.RequestID)
	assert.False(t, resp.Unserviced())
}

func TestRequestRideUnserviced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RideResponse{
			RequestID:   7,
			Status:      "pending",
			MatchStatus: "No driver available in any zone",
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).RequestRide(context.Background(), RideRequest{UserID: "USER-X"})
	require.NoError(t, err)
	assert.True(t, resp.Unserviced())
}

func TestRequestRideServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).RequestRide(context.Background(), RideRequest{UserID: "USER-X"})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitAPIError, cliErr.Code)
}

func TestRequestRideErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to store the ride request."})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).RequestRide(context.Background(), RideRequest{UserID: "USER-X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to store the ride request")
}

func TestRequestRideUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).RequestRide(context.Background(), RideRequest{UserID: "USER-X"})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitAPIError, cliErr.Code)
	assert.Contains(t, cliErr.Message, "unreachable")
}

func TestRegisterDriver(t *testing.T) {
	var got DriverRegistration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register-driver", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "driver registered"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).RegisterDriver(context.Background(), model.Driver{
		DriverID: "DRV-1A2B3C",
		Name:     "Alex Chen",
		Status:   model.StatusAccepting,
		Location: "Central Station",
	})
	require.NoError(t, err)

	assert.Equal(t, "DRV-1A2B3C", got.DriverID)
	assert.Equal(t, "Alex Chen", got.Name)
	assert.Equal(t, "accepting", got.Status)
	assert.Equal(t, "Central Station", got.Location)
}

func TestAvailableDrivers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/available-drivers", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"drivers": []AvailableDriver{
				{DriverID: "DRV-1A2B3C", Name: "John Doe", Status: "accepting"},
			},
		})
	}))
	defer srv.Close()

	drivers, err := NewClient(srv.URL).AvailableDrivers(context.Background())
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "DRV-1A2B3C", drivers[0].DriverID)
}
