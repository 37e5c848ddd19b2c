package ports

import (
	"context"

	"shared-itinerary-service/internal/domain"
)

// TripRepository looks up trip details (seat counts, distance estimates,
// itinerary references) owned by the booking side.
type TripRepository interface {
	GetTrip(ctx context.Context, id domain.TripID) (*domain.Trip, error)
}
