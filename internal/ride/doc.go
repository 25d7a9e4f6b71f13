// Package ride implements the ride-completion worker.
//
// A matched ride is "driven" by sleeping for a duration proportional to
// the zone distance between pickup and dropoff, then completed: the
// request gets its completion timestamp and the driver goes back to
// accepting, both in the same transaction that held the ride locked.
package ride
