package ports

import "context"

// VehicleGateway resolves a vehicle's seat capacity.
type VehicleGateway interface {
	SeatCapacity(ctx context.Context, vehicleID string) (int, error)
}
