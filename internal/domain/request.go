package domain

// NewTripRequest describes a shared-ride request that has not been created
// as a trip yet. DistanceEstimate is the dedicated pickup->dropoff route
// length quoted to the passenger; the matcher rejects any itinerary that
// would stretch the ride beyond that estimate times the detour tolerance.
type NewTripRequest struct {
	Pickup           GeoPoint
	Dropoff          GeoPoint
	Seats            int
	DistanceEstimate float64
}
