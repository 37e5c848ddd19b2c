package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shared-itinerary-service/internal/ports"
)

// Postgres-backed implementation of the VehicleGateway port.
type PgVehicleGateway struct{ DB *sql.DB }

func NewPgVehicleGateway(db *sql.DB) *PgVehicleGateway {
	return &PgVehicleGateway{DB: db}
}

func (g *PgVehicleGateway) SeatCapacity(ctx context.Context, vehicleID string) (int, error) {
	q := `
	SELECT seat_capacity
	FROM vehicles
	WHERE vehicle_id = $1;
	`
	var capacity int
	err := g.DB.QueryRowContext(ctx, q, vehicleID).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("vehicle %q capacity: %w", vehicleID, ports.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("vehicle %q capacity: %w", vehicleID, err)
	}
	return capacity, nil
}
