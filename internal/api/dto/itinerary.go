package dto

type StopResponse struct {
	Order     int     `json:"order"`
	PointType string  `json:"point_type"`
	TripID    string  `json:"trip_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Address   string  `json:"address"`
	IsPass    bool    `json:"is_pass"`
}

type ItineraryResponse struct {
	ItineraryID string         `json:"itinerary_id"`
	VehicleID   string         `json:"vehicle_id"`
	DriverID    string         `json:"driver_id"`
	Status      string         `json:"status"`
	Stops       []StopResponse `json:"stops"`
}

type LocationUpdateRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
