package ports

import (
	"context"
	"errors"

	"shared-itinerary-service/internal/domain"
)

// ErrLocationUnavailable is returned when a vehicle has no recent position
// fix. The matcher treats such vehicles as untrackable and skips them.
var ErrLocationUnavailable = errors.New("vehicle location unavailable")

// TrackingGateway supplies the last known live position of a vehicle.
type TrackingGateway interface {
	LastVehicleLocation(ctx context.Context, vehicleID string) (domain.Coordinates, error)
}
