package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"shared-itinerary-service/internal/api/dto"
	"shared-itinerary-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func stopsToDTO(stops []domain.Stop) []dto.StopResponse {
	out := make([]dto.StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, dto.StopResponse{
			Order:     s.Order,
			PointType: string(s.PointType),
			TripID:    string(s.TripID),
			Lat:       s.Point.Lat,
			Lng:       s.Point.Lng,
			Address:   s.Point.Address,
			IsPass:    s.IsPass,
		})
	}
	return out
}

func itineraryToDTO(it *domain.SharedItinerary) dto.ItineraryResponse {
	return dto.ItineraryResponse{
		ItineraryID: it.ID,
		VehicleID:   it.VehicleID,
		DriverID:    it.DriverID,
		Status:      string(it.Status),
		Stops:       stopsToDTO(it.CurrentStops()),
	}
}
