package domain

// TripID identifies the trip a stop belongs to.
type TripID string

// TempTripID tags the stops of a ride request that has not been committed to
// a durable trip yet. Working copies may carry it between matching and
// commit; durable itineraries never do.
const TempTripID TripID = "TEMP_TRIP"

func (id TripID) IsTemp() bool { return id == TempTripID }

// PointType distinguishes pickups from drop-offs within an itinerary.
type PointType string

const (
	StartPoint PointType = "START_POINT"
	EndPoint   PointType = "END_POINT"
)

// Stop is one pickup or drop-off point belonging to one trip within a shared
// itinerary.
//
// Order defines the visiting sequence; 0 is the sentinel for
// "unordered/cancelled". Active (non-cancelled) stops always carry a
// contiguous 1..N sequence.
type Stop struct {
	Order     int
	PointType PointType
	TripID    TripID
	Point     GeoPoint
	IsPass    bool
	IsCancel  bool
}

// Active reports whether the vehicle still has to visit this stop.
func (s Stop) Active() bool { return !s.IsPass && !s.IsCancel }
