package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailstack/hailstack/internal/model"
)

func request(source string) model.RideRequest {
	return model.RideRequest{
		ID:          1,
		UserID:      "USER-TEST",
		Source:      source,
		Destination: "Airport Terminal",
		Status:      model.RequestPending,
	}
}

// TestSelectNearestPicksMinimumDistance verifies scoring against the zone
// table: a rider at Central Station (20) should get the Downtown Core
// driver (10, distance 10) over the Airport Terminal driver (50, distance 30).
func TestSelectNearestPicksMinimumDistance(t *testing.T) {
	candidates := []model.Driver{
		{ID: 1, DriverID: "DRV-FAR", Location: "Airport Terminal"},
		{ID: 2, DriverID: "DRV-NEAR", Location: "Downtown Core"},
	}

	driver, dist, ok := SelectNearest(request("Central Station"), candidates)
	require.True(t, ok)
	assert.Equal(t, "DRV-NEAR", driver.DriverID)
	assert.Equal(t, 10, dist)
}

// TestSelectNearestSameZone verifies a driver in the rider's own zone wins
// with distance zero.
func TestSelectNearestSameZone(t *testing.T) {
	candidates := []model.Driver{
		{ID: 1, DriverID: "DRV-A", Location: "The Suburbs"},
		{ID: 2, DriverID: "DRV-B", Location: "University Area"},
	}

	driver, dist, ok := SelectNearest(request("University Area"), candidates)
	require.True(t, ok)
	assert.Equal(t, "DRV-B", driver.DriverID)
	assert.Equal(t, 0, dist)
}

// TestSelectNearestTieKeepsFirst verifies deterministic tie-breaking on
// the candidate order handed in by the store.
func TestSelectNearestTieKeepsFirst(t *testing.T) {
	// Central Station (20): both Downtown Core (10) and University Area
	// (30) are at distance 10.
	candidates := []model.Driver{
		{ID: 1, DriverID: "DRV-FIRST", Location: "Downtown Core"},
		{ID: 2, DriverID: "DRV-SECOND", Location: "University Area"},
	}

	driver, dist, ok := SelectNearest(request("Central Station"), candidates)
	require.True(t, ok)
	assert.Equal(t, "DRV-FIRST", driver.DriverID)
	assert.Equal(t, 10, dist)
}

// TestSelectNearestSkipsUnknownZones verifies drivers in unknown zones are
// unreachable rather than fatal.
func TestSelectNearestSkipsUnknownZones(t *testing.T) {
	candidates := []model.Driver{
		{ID: 1, DriverID: "DRV-LOST", Location: "Atlantis"},
		{ID: 2, DriverID: "DRV-OK", Location: "Airport Terminal"},
	}

	driver, _, ok := SelectNearest(request("Downtown Core"), candidates)
	require.True(t, ok)
	assert.Equal(t, "DRV-OK", driver.DriverID)

	// Only unreachable candidates: no match.
	_, _, ok = SelectNearest(request("Downtown Core"), candidates[:1])
	assert.False(t, ok)
}

// TestSelectNearestUnknownRiderZone verifies a rider in an unknown zone
// matches no one.
func TestSelectNearestUnknownRiderZone(t *testing.T) {
	candidates := []model.Driver{
		{ID: 1, DriverID: "DRV-OK", Location: "Downtown Core"},
	}
	_, _, ok := SelectNearest(request("Narnia"), candidates)
	assert.False(t, ok)
}

// TestSelectNearestNoCandidates verifies the empty set.
func TestSelectNearestNoCandidates(t *testing.T) {
	_, _, ok := SelectNearest(request("Downtown Core"), nil)
	assert.False(t, ok)
}
