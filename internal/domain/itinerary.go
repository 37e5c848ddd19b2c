package domain

import "sort"

type ItineraryStatus string

const (
	ItineraryPlanned    ItineraryStatus = "PLANNED"
	ItineraryInProgress ItineraryStatus = "IN_PROGRESS"
	ItineraryCompleted  ItineraryStatus = "COMPLETED"
	ItineraryCancelled  ItineraryStatus = "CANCELLED"
)

// SharedItinerary is the ordered multi-stop route a single vehicle executes
// while servicing several concurrent shared trips.
//
// Version is bumped on every durable write and guards commits against
// concurrent re-matching (optimistic concurrency).
type SharedItinerary struct {
	ID        string
	VehicleID string
	DriverID  string
	Status    ItineraryStatus
	Stops     []Stop
	Version   int
}

// ActiveStops returns the stops the vehicle still has to visit, in visiting
// order.
func (it *SharedItinerary) ActiveStops() []Stop {
	out := make([]Stop, 0, len(it.Stops))
	for _, s := range it.Stops {
		if s.Active() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CurrentStops returns the consumer-facing view of the itinerary: all
// non-cancelled stops in visiting order. Cancelled stops stay in Stops for
// audit but never leave the aggregate through this accessor.
func (it *SharedItinerary) CurrentStops() []Stop {
	out := make([]Stop, 0, len(it.Stops))
	for _, s := range it.Stops {
		if !s.IsCancel {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// FindStop returns the index of the trip's stop with the given point type,
// or -1 when the trip has no such stop. Cancelled stops are not matched.
func (it *SharedItinerary) FindStop(tripID TripID, pt PointType) int {
	for i, s := range it.Stops {
		if s.TripID == tripID && s.PointType == pt && !s.IsCancel {
			return i
		}
	}
	return -1
}

// IsFirstActive reports whether the stop at index i is the next stop the
// vehicle will visit.
func (it *SharedItinerary) IsFirstActive(i int) bool {
	s := it.Stops[i]
	if !s.Active() {
		return false
	}
	for j, other := range it.Stops {
		if j != i && other.Active() && other.Order < s.Order {
			return false
		}
	}
	return true
}

// IsLastActive reports whether the stop at index i is the only stop the
// vehicle still has to visit.
func (it *SharedItinerary) IsLastActive(i int) bool {
	s := it.Stops[i]
	if !s.Active() {
		return false
	}
	for j, other := range it.Stops {
		if j != i && other.Active() {
			return false
		}
	}
	return true
}

// MarkTripCancelled flags every stop of the trip as cancelled and zeroes its
// order. Returns the number of stops that actually changed, so repeated
// cancellations stay no-ops.
func (it *SharedItinerary) MarkTripCancelled(tripID TripID) int {
	changed := 0
	for i := range it.Stops {
		s := &it.Stops[i]
		if s.TripID != tripID || s.IsCancel {
			continue
		}
		s.IsCancel = true
		s.Order = 0
		changed++
	}
	return changed
}

// HasNonCancelledStops reports whether any trip is still attached to the
// itinerary.
func (it *SharedItinerary) HasNonCancelledStops() bool {
	for _, s := range it.Stops {
		if !s.IsCancel {
			return true
		}
	}
	return false
}

// Reindex restores the order invariant after a cancellation: cancelled stops
// move to the front of storage with order 0, the remaining stops keep their
// relative sequence (stable sort by previous order) and are renumbered 1..N.
func (it *SharedItinerary) Reindex() {
	cancelled := make([]Stop, 0, len(it.Stops))
	remaining := make([]Stop, 0, len(it.Stops))
	for _, s := range it.Stops {
		if s.IsCancel {
			cancelled = append(cancelled, s)
		} else {
			remaining = append(remaining, s)
		}
	}

	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].Order < remaining[j].Order })
	for i := range remaining {
		remaining[i].Order = i + 1
	}

	it.Stops = append(cancelled, remaining...)
}
