package ports

import (
	"context"

	"shared-itinerary-service/internal/domain"
)

// DriverNotifier pushes real-time itinerary updates to the driver app.
// Stops passed here are already filtered to the consumer-facing view.
type DriverNotifier interface {
	ItineraryUpdated(ctx context.Context, driverID, itineraryID string, stops []domain.Stop) error
}
