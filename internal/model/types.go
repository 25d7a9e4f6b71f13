package model

import (
	"fmt"
	"strings"
	"time"
)

// DriverStatus represents a driver's availability state. The string values
// are stored verbatim in the drivers table, so they must not change —
// "in a drive" really does contain spaces.
type DriverStatus string

const (
	// StatusOff means the driver is not taking rides.
	StatusOff DriverStatus = "off"

	// StatusInADrive means the driver is currently carrying a rider.
	StatusInADrive DriverStatus = "in a drive"

	// StatusAccepting means the driver is available for matching.
	StatusAccepting DriverStatus = "accepting"
)

// String returns the string representation of the DriverStatus.
func (s DriverStatus) String() string {
	return string(s)
}

// IsValid checks whether the DriverStatus is one of the known states.
func (s DriverStatus) IsValid() bool {
	switch s {
	case StatusOff, StatusInADrive, StatusAccepting:
		return true
	default:
		return false
	}
}

// ParseDriverStatus converts a string to a DriverStatus.
// Returns an error if the string does not match any known status.
func ParseDriverStatus(s string) (DriverStatus, error) {
	status := DriverStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid driver status: %q (valid: off, in a drive, accepting)", s)
	}
	return status, nil
}

// RequestStatus represents the lifecycle state of a ride request.
// The state transitions are:
//
//	pending → matched → completed
//
// A pending request that finds no driver stays pending and is retried
// by the matchmaking worker on its next poll.
type RequestStatus string

const (
	// RequestPending indicates the request is waiting for a driver.
	RequestPending RequestStatus = "pending"

	// RequestMatched indicates a driver has been assigned and the ride
	// is in progress.
	RequestMatched RequestStatus = "matched"

	// RequestCompleted indicates the ride has finished and the driver
	// has been released.
	RequestCompleted RequestStatus = "completed"
)

// String returns the string representation of the RequestStatus.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid checks whether the RequestStatus is one of the known states.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestMatched, RequestCompleted:
		return true
	default:
		return false
	}
}

// Zone weights for the demo city. The weight is an abstract coordinate on a
// single axis: the proximity score between two zones is the absolute
// difference of their weights. Zone names are stored in the database with
// spaces, exactly as listed here.
var zoneWeights = map[string]int{
	"Downtown Core":    10,
	"Central Station":  20,
	"University Area":  30,
	"The Suburbs":      40,
	"Airport Terminal": 50,
}

// ZoneNames returns all known zone names in ascending weight order.
// The order is deterministic so that simulators and tests can index it.
func ZoneNames() []string {
	return []string{
		"Downtown Core",
		"Central Station",
		"University Area",
		"The Suburbs",
		"Airport Terminal",
	}
}

// ZoneWeight returns the weight of a named zone. The second return value
// reports whether the zone is known.
func ZoneWeight(name string) (int, bool) {
	w, ok := zoneWeights[name]
	return w, ok
}

// ProximityScore computes the distance between two zones as the absolute
// difference of their weights. Unknown zones return an error; callers decide
// whether that means "unreachable" (matching) or "use a fallback" (ride
// duration).
func ProximityScore(a, b string) (int, error) {
	wa, ok := zoneWeights[a]
	if !ok {
		return 0, fmt.Errorf("unknown zone: %q", a)
	}
	wb, ok := zoneWeights[b]
	if !ok {
		return 0, fmt.Errorf("unknown zone: %q", b)
	}
	d := wa - wb
	if d < 0 {
		d = -d
	}
	return d, nil
}

// Driver represents a row in the drivers table.
type Driver struct {
	// ID is the database primary key. It is referenced by ride requests
	// via their driver foreign key.
	ID int64 `json:"-"`

	// DriverID is the external identifier (e.g. "DRV-1A2B3C").
	DriverID string `json:"driver_id"`

	// Name is the driver's display name.
	Name string `json:"name"`

	// Status is the driver's current availability state.
	Status DriverStatus `json:"status"`

	// Location is the zone the driver is currently in.
	Location string `json:"current_location"`
}

// RideRequest represents a row in the users table — one rider's request
// and its progress through the matching lifecycle.
type RideRequest struct {
	// ID is the database primary key.
	ID int64 `json:"-"`

	// UserID is the external rider identifier (e.g. "USER-0F3A9C21").
	UserID string `json:"user_id"`

	// Source is the pickup zone.
	Source string `json:"source_location"`

	// Destination is the dropoff zone.
	Destination string `json:"destination_location"`

	// Status is the request's lifecycle state.
	Status RequestStatus `json:"request_status"`

	// DriverID is the primary key of the matched driver, zero until matched.
	DriverID int64 `json:"-"`

	// RequestedAt is when the request entered the system. Matching is
	// FIFO on this timestamp.
	RequestedAt time.Time `json:"request_time"`

	// MatchedAt is when a driver was assigned. Zero until matched.
	MatchedAt time.Time `json:"match_time,omitzero"`

	// CompletedAt is when the ride finished. Zero until completed.
	CompletedAt time.Time `json:"completion_time,omitzero"`
}

// QueuedRequest represents a row in the request_queue table — a ride
// request that has been enqueued but not yet submitted to the orchestrator.
type QueuedRequest struct {
	// ID is the database primary key.
	ID int64 `json:"-"`

	// UserID is the external rider identifier.
	UserID string `json:"user_id"`

	// Source is the pickup zone.
	Source string `json:"source_location"`

	// Destination is the dropoff zone.
	Destination string `json:"destination_location"`

	// EnqueuedAt is when the request entered the queue. The drainer
	// processes rows oldest-first on this timestamp.
	EnqueuedAt time.Time `json:"arrival_timestamp"`
}

// Match describes the outcome of pairing a pending request with a driver.
type Match struct {
	// Request is the ride request that was matched.
	Request RideRequest

	// Driver is the driver assigned to the request.
	Driver Driver

	// Distance is the proximity score between the rider's source zone
	// and the driver's zone at match time.
	Distance int
}
