package dto

type GeoPointRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type MatchRequest struct {
	Pickup           GeoPointRequest `json:"pickup"`
	Dropoff          GeoPointRequest `json:"dropoff"`
	Seats            int             `json:"seats"`
	DistanceEstimate float64         `json:"distance_estimate"`
}

type MatchResponse struct {
	Matched           bool           `json:"matched"`
	ItineraryID       string         `json:"itinerary_id,omitempty"`
	VehicleID         string         `json:"vehicle_id,omitempty"`
	DriverID          string         `json:"driver_id,omitempty"`
	TotalDistance     float64        `json:"total_distance,omitempty"`
	DistanceToPickup  float64        `json:"distance_to_pickup,omitempty"`
	DurationToPickup  float64        `json:"duration_to_pickup,omitempty"`
	DistanceToDropoff float64        `json:"distance_to_dropoff,omitempty"`
	DurationToDropoff float64        `json:"duration_to_dropoff,omitempty"`
	Stops             []StopResponse `json:"stops,omitempty"`
}
