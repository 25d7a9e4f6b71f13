package match

import (
	"github.com/hailstack/hailstack/internal/model"
)

// SelectNearest picks the accepting driver closest to the request's
// pickup zone, by minimum proximity score. Drivers in unknown zones are
// treated as unreachable and skipped; if the rider's own zone is unknown,
// or no candidate is reachable, no driver is selected.
//
// Ties keep the first candidate in iteration order, which is the locked
// result-set order from the store — deterministic for a given database
// state.
func SelectNearest(req model.RideRequest, candidates []model.Driver) (model.Driver, int, bool) {
	var (
		best     model.Driver
		bestDist int
		found    bool
	)

	for _, d := range candidates {
		dist, err := model.ProximityScore(req.Source, d.Location)
		if err != nil {
			continue
		}
		if !found || dist < bestDist {
			best = d
			bestDist = dist
			found = true
		}
	}
	return best, bestDist, found
}
