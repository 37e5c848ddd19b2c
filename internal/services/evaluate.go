package services

import (
	"context"
	"fmt"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

// evaluateCandidate checks whether the request fits into one itinerary.
//
// Returns (nil, nil) when the candidate is cleanly infeasible (capacity,
// no route, detour bound exceeded) and an error when a lookup or the
// optimizer call failed; the matcher skips the candidate either way.
func (m *Matcher) evaluateCandidate(ctx context.Context, it *domain.SharedItinerary, req domain.NewTripRequest) (*candidate, error) {
	position, err := m.Tracking.LastVehicleLocation(ctx, it.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("track vehicle %s: %w", it.VehicleID, err)
	}

	capacity, err := m.Vehicles.SeatCapacity(ctx, it.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("capacity of vehicle %s: %w", it.VehicleID, err)
	}
	if req.Seats > capacity {
		return nil, nil
	}

	// Active stops plus the request's synthetic pickup and drop-off. The
	// pair is tagged TempTripID so the optimizer result can be mapped back
	// before any durable trip exists.
	active := it.ActiveStops()
	stops := make([]domain.Stop, 0, len(active)+2)
	stops = append(stops, active...)
	stops = append(stops,
		domain.Stop{PointType: domain.StartPoint, TripID: domain.TempTripID, Point: req.Pickup},
		domain.Stop{PointType: domain.EndPoint, TripID: domain.TempTripID, Point: req.Dropoff},
	)

	demands, estimates, err := m.tripDemands(ctx, active)
	if err != nil {
		return nil, err
	}
	demands = append(demands, ports.TripDemand{TripID: domain.TempTripID, Seats: req.Seats})

	result, err := m.Optimizer.ComputeItinerary(ctx, ports.OptimizeRequest{
		Stops:           stops,
		VehicleID:       it.VehicleID,
		VehiclePosition: position,
		Capacity:        capacity,
		Demands:         demands,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize itinerary %s: %w", it.ID, err)
	}
	if !result.Feasible() {
		return nil, nil
	}

	// Detour bound: no trip's incremental distance may exceed its own
	// estimate times (1 + tolerance). One violation discards the whole
	// candidate; partial acceptance would degrade an existing passenger.
	for _, td := range result.PerTripDistance {
		estimate := estimates[td.TripID]
		if td.TripID.IsTemp() {
			estimate = req.DistanceEstimate
		}
		if estimate <= 0 {
			continue
		}
		if td.Distance > estimate*(1+m.MaxDetourPercent) {
			return nil, nil
		}
	}

	return &candidate{itinerary: it, result: result}, nil
}

// tripDemands resolves seat counts and distance estimates for every trip
// with a pending delivery among the given stops.
func (m *Matcher) tripDemands(ctx context.Context, stops []domain.Stop) ([]ports.TripDemand, map[domain.TripID]float64, error) {
	demands := make([]ports.TripDemand, 0, len(stops)/2+1)
	estimates := make(map[domain.TripID]float64, len(stops)/2+1)

	for _, s := range stops {
		if s.PointType != domain.EndPoint {
			continue
		}
		if _, ok := estimates[s.TripID]; ok {
			continue
		}

		trip, err := m.Trips.GetTrip(ctx, s.TripID)
		if err != nil {
			return nil, nil, fmt.Errorf("trip %s details: %w", s.TripID, err)
		}

		demands = append(demands, ports.TripDemand{TripID: trip.ID, Seats: trip.Seats})
		estimates[trip.ID] = trip.DistanceEstimate
	}

	return demands, estimates, nil
}
