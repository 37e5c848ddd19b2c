package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"shared-itinerary-service/internal/api/dto"
	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/services"
)

// MatchHandler exposes the itinerary matching engine to the booking flow.
type MatchHandler struct {
	Matcher *services.Matcher
}

// Match runs a matching pass for a new shared-ride request. A response with
// matched=false is the defined "no shared itinerary available" outcome, not
// an error: the caller falls back to creating a dedicated trip.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Seats < 1 {
		writeError(w, r, http.StatusBadRequest, "seats must be at least 1")
		return
	}
	if req.DistanceEstimate <= 0 {
		writeError(w, r, http.StatusBadRequest, "distance_estimate must be positive")
		return
	}

	result, err := h.Matcher.FindBestItinerary(r.Context(), domain.NewTripRequest{
		Pickup:           domain.GeoPoint{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng, Address: req.Pickup.Address},
		Dropoff:          domain.GeoPoint{Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng, Address: req.Dropoff.Address},
		Seats:            req.Seats,
		DistanceEstimate: req.DistanceEstimate,
	})
	if err != nil {
		log.Printf("match failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if result == nil {
		writeJSON(w, r, http.StatusOK, dto.MatchResponse{Matched: false})
		return
	}

	writeJSON(w, r, http.StatusOK, dto.MatchResponse{
		Matched:           true,
		ItineraryID:       result.Itinerary.ID,
		VehicleID:         result.Itinerary.VehicleID,
		DriverID:          result.Itinerary.DriverID,
		TotalDistance:     result.TotalDistance,
		DistanceToPickup:  result.Metrics.DistanceToPickup,
		DurationToPickup:  result.Metrics.DurationToPickup,
		DistanceToDropoff: result.Metrics.DistanceToDropoff,
		DurationToDropoff: result.Metrics.DurationToDropoff,
		Stops:             stopsToDTO(result.OrderedStops),
	})
}
