package ride

import (
	"time"

	"github.com/hailstack/hailstack/internal/model"
)

const (
	// minDuration is added to every ride so that even a ride within one
	// zone takes a moment.
	minDuration = 2 * time.Second

	// fallbackDuration is used when either zone is unknown and no
	// distance can be computed.
	fallbackDuration = 10 * time.Second
)

// Duration returns the simulated ride time between two zones:
// the zone distance in seconds plus the minimum, or the fallback when a
// zone is unknown.
func Duration(source, destination string) time.Duration {
	dist, err := model.ProximityScore(source, destination)
	if err != nil {
		return fallbackDuration
	}
	return time.Duration(dist)*time.Second + minDuration
}
