package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

// Postgres-backed implementation of the TripRepository port.
type PgTripRepository struct{ DB *sql.DB }

func NewPgTripRepository(db *sql.DB) *PgTripRepository {
	return &PgTripRepository{DB: db}
}

func (r *PgTripRepository) GetTrip(ctx context.Context, id domain.TripID) (*domain.Trip, error) {
	q := `
	SELECT trip_id, COALESCE(itinerary_id, ''), seat_count, distance_estimate
	FROM trips
	WHERE trip_id = $1;
	`
	trip := &domain.Trip{}
	err := r.DB.QueryRowContext(ctx, q, string(id)).Scan(&trip.ID, &trip.ItineraryID, &trip.Seats, &trip.DistanceEstimate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %q: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %q: %w", id, err)
	}
	return trip, nil
}
