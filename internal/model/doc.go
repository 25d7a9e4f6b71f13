// Package model defines the domain types shared across the hailstack CLI.
//
// It holds the ride-hailing entities (drivers, ride requests, the zone
// table used for proximity scoring) together with the CLI error type that
// carries process exit codes. The types here are transient: the database
// is the system of record, and these structs are scanned from or written
// to it by the store package.
package model
