package ports

import (
	"context"
	"errors"

	"shared-itinerary-service/internal/domain"
)

// ErrRouteComputation signals an unexpected transport failure while talking
// to the external optimizer. The matcher treats it as "skip this candidate".
var ErrRouteComputation = errors.New("route computation failed")

// TripDemand is one trip's seat reservation, passed through to the optimizer
// as the shipment amount.
type TripDemand struct {
	TripID domain.TripID
	Seats  int
}

// TripDistance is the incremental route distance attributable to one trip's
// pickup->delivery span within a candidate ordering. Matching-time data only,
// never persisted.
type TripDistance struct {
	TripID   domain.TripID
	Distance float64
}

// OptimizeRequest carries everything the optimizer needs to re-sequence an
// itinerary: the stop set (including the candidate trip's synthetic stops
// tagged domain.TempTripID), the vehicle's live position and capacity, and
// per-trip seat demands.
type OptimizeRequest struct {
	Stops           []domain.Stop
	VehicleID       string
	VehiclePosition domain.Coordinates
	Capacity        int
	Demands         []TripDemand
}

// OptimizeResult is the parsed optimizer answer: the re-ordered stops, the
// total route distance, per-trip incremental distances, and the four metrics
// for the candidate trip's own pickup and drop-off legs.
//
// A zero result (empty stops, TotalDistance 0) means "no feasible route",
// not a zero-length trip.
type OptimizeResult struct {
	OrderedStops       []domain.Stop
	TotalDistance      float64
	PerTripDistance    []TripDistance
	DistanceToNewStart float64
	DurationToNewStart float64
	DistanceToNewEnd   float64
	DurationToNewEnd   float64
}

// Feasible reports whether the optimizer produced a usable route.
func (r OptimizeResult) Feasible() bool { return r.TotalDistance > 0 }

// RouteOptimizer computes an updated stop ordering for a vehicle via an
// external multi-pickup/multi-delivery route optimizer.
type RouteOptimizer interface {
	ComputeItinerary(ctx context.Context, req OptimizeRequest) (OptimizeResult, error)
}
