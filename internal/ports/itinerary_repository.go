package ports

import (
	"context"
	"errors"

	"shared-itinerary-service/internal/domain"
)

// ErrNotFound is returned when a referenced itinerary, trip or vehicle does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a durable write lost the race against
// a concurrent update of the same itinerary. Callers reload and retry or
// surface the conflict.
var ErrVersionConflict = errors.New("itinerary version conflict")

// ItineraryRepository is the persistence boundary for shared itineraries.
// Returned aggregates include cancelled stops; filtering is the service
// layer's concern.
type ItineraryRepository interface {
	// ListByStatus returns all itineraries in any of the given states,
	// ordered by id ascending.
	ListByStatus(ctx context.Context, statuses ...domain.ItineraryStatus) ([]*domain.SharedItinerary, error)
	GetByID(ctx context.Context, id string) (*domain.SharedItinerary, error)
	// GetByTripID resolves the itinerary servicing the given trip.
	GetByTripID(ctx context.Context, tripID domain.TripID) (*domain.SharedItinerary, error)
	// Update persists status and stops, guarded by the aggregate's Version:
	// the write succeeds only if the stored version still matches, and bumps
	// both the stored and in-memory version. ErrVersionConflict otherwise.
	Update(ctx context.Context, it *domain.SharedItinerary) error
}
