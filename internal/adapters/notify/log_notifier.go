package notify

import (
	"context"
	"log"

	"shared-itinerary-service/internal/domain"
)

// LogDriverNotifier is the fallback when no message broker is configured:
// updates are only logged, never delivered.
type LogDriverNotifier struct{}

func (LogDriverNotifier) ItineraryUpdated(_ context.Context, driverID, itineraryID string, stops []domain.Stop) error {
	log.Printf("itinerary updated: driver=%s itinerary=%s stops=%d", driverID, itineraryID, len(stops))
	return nil
}
