package store

import (
	"context"
	"fmt"

	"github.com/hailstack/hailstack/internal/model"
)

// InsertDriver adds a new driver row.
func (s *Store) InsertDriver(ctx context.Context, d model.Driver) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO drivers (driver_id, name, status, current_location) VALUES ($1, $2, $3, $4)`,
		d.DriverID, d.Name, d.Status.String(), d.Location)
	if err != nil {
		return model.WrapCLIError(model.ExitDatabaseError,
			fmt.Sprintf("failed to insert driver %s", d.DriverID), err)
	}
	return nil
}

// AvailableDrivers returns all drivers currently accepting rides,
// without locking them. Used for display, not for matching.
func (s *Store) AvailableDrivers(ctx context.Context) ([]model.Driver, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, driver_id, name, status, current_location
		 FROM drivers
		 WHERE status = $1
		 ORDER BY id`,
		model.StatusAccepting.String())
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to query available drivers", err)
	}
	defer rows.Close()

	var drivers []model.Driver
	for rows.Next() {
		var d model.Driver
		var status string
		if err := rows.Scan(&d.ID, &d.DriverID, &d.Name, &status, &d.Location); err != nil {
			return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to scan driver row", err)
		}
		d.Status = model.DriverStatus(status)
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "driver query failed", err)
	}
	return drivers, nil
}
