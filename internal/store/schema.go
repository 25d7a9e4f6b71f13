package store

import (
	"context"
	"fmt"

	"github.com/hailstack/hailstack/internal/model"
)

// schemaStatements create every table the stack uses. All statements are
// IF NOT EXISTS so `db init` can be re-run safely against a live database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS drivers (
		id BIGSERIAL PRIMARY KEY,
		driver_id VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		current_location VARCHAR(255) NOT NULL
	)`,

	// One row per ride request, carried through the matching lifecycle
	// (pending → matched → completed) by the workers.
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		source_location VARCHAR(255) NOT NULL,
		destination_location VARCHAR(255) NOT NULL,
		request_status VARCHAR(50) NOT NULL DEFAULT 'pending',
		driver_fk_id BIGINT REFERENCES drivers(id),
		request_time TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		match_time TIMESTAMP WITH TIME ZONE,
		completion_time TIMESTAMP WITH TIME ZONE
	)`,

	// Raw intake log written by the orchestrator's /api/request-ride.
	`CREATE TABLE IF NOT EXISTS ride_requests (
		id BIGSERIAL PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		source_location VARCHAR(255) NOT NULL,
		destination_location VARCHAR(255) NOT NULL,
		request_time TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		client_id VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL
	)`,

	// Requests waiting to be submitted to the orchestrator by the
	// queue drainer.
	`CREATE TABLE IF NOT EXISTS request_queue (
		id BIGSERIAL PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		source_location VARCHAR(255) NOT NULL,
		destination_location VARCHAR(255) NOT NULL,
		arrival_timestamp TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	// Event listings served by the event service on port 8080.
	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		organizer_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		venue_location VARCHAR(255) NOT NULL,
		event_time TIMESTAMP WITH TIME ZONE NOT NULL,
		promo_code VARCHAR(64),
		discount_rate NUMERIC(5,2) NOT NULL DEFAULT 0.00,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

// sampleDrivers are inserted by SeedSampleData when the drivers table is
// empty, giving a fresh stack something to match against.
var sampleDrivers = []model.Driver{
	{DriverID: "driver_001", Name: "John Doe", Status: model.StatusAccepting, Location: "Downtown Core"},
	{DriverID: "driver_002", Name: "Jane Smith", Status: model.StatusInADrive, Location: "Central Station"},
	{DriverID: "driver_003", Name: "Alex Chen", Status: model.StatusOff, Location: "The Suburbs"},
	{DriverID: "driver_004", Name: "Emily Davis", Status: model.StatusAccepting, Location: "Airport Terminal"},
}

// sampleClients are inserted when the clients table is empty.
var sampleClients = []struct {
	ID   string
	Name string
}{
	{"client_001", "Raj Verma"},
	{"client_002", "Priya Singh"},
	{"client_003", "Rohan Sharma"},
}

// InitSchema creates all stack tables that do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return model.WrapCLIError(model.ExitDatabaseError, "schema creation failed", err)
		}
	}
	return nil
}

// SeedSampleData inserts the sample drivers and clients, but only into
// empty tables: a database that already has data is left untouched.
// It returns how many drivers and clients were inserted.
func (s *Store) SeedSampleData(ctx context.Context) (driversAdded, clientsAdded int, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, 0, model.WrapCLIError(model.ExitDatabaseError, "failed to begin seed transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var driverCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM drivers`).Scan(&driverCount); err != nil {
		return 0, 0, model.WrapCLIError(model.ExitDatabaseError, "failed to count drivers", err)
	}
	if driverCount == 0 {
		for _, d := range sampleDrivers {
			_, err := tx.Exec(ctx,
				`INSERT INTO drivers (driver_id, name, status, current_location) VALUES ($1, $2, $3, $4)`,
				d.DriverID, d.Name, d.Status.String(), d.Location)
			if err != nil {
				return 0, 0, model.WrapCLIError(model.ExitDatabaseError,
					fmt.Sprintf("failed to seed driver %s", d.DriverID), err)
			}
			driversAdded++
		}
	}

	var clientCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&clientCount); err != nil {
		return 0, 0, model.WrapCLIError(model.ExitDatabaseError, "failed to count clients", err)
	}
	if clientCount == 0 {
		for _, c := range sampleClients {
			_, err := tx.Exec(ctx,
				`INSERT INTO clients (client_id, name) VALUES ($1, $2)`,
				c.ID, c.Name)
			if err != nil {
				return 0, 0, model.WrapCLIError(model.ExitDatabaseError,
					fmt.Sprintf("failed to seed client %s", c.ID), err)
			}
			clientsAdded++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, model.WrapCLIError(model.ExitDatabaseError, "failed to commit seed transaction", err)
	}
	return driversAdded, clientsAdded, nil
}
