package domain

// Trip is the booking-side record of one passenger group's ride, as far as
// the matching engine needs it: seat demand, the route-length estimate the
// detour bound is checked against, and the itinerary the trip is attached to.
type Trip struct {
	ID               TripID
	ItineraryID      string
	Seats            int
	DistanceEstimate float64
}
