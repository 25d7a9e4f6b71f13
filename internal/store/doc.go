// Package store is the PostgreSQL access layer for the hailstack tools.
//
// It owns the schema DDL, the sample-data seeding, and the transaction
// shapes the workers depend on. The matching and completion transactions
// use SELECT ... FOR UPDATE SKIP LOCKED so that several workers can run
// against the same database without double-assigning a driver or
// double-completing a ride: a locked row is simply invisible to the
// next worker's poll.
//
// Connections come from a pgxpool.Pool bounded at 1..5 connections,
// matching the pool the stack's services use.
package store
