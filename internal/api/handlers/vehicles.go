package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"shared-itinerary-service/internal/api/dto"
	"shared-itinerary-service/internal/domain"
)

// LocationRecorder is the write side of vehicle tracking, fed by the driver
// app's position pings.
type LocationRecorder interface {
	RecordLocation(ctx context.Context, vehicleID string, pos domain.Coordinates) error
}

type VehicleHandler struct {
	Recorder LocationRecorder
}

func (h *VehicleHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.LocationUpdateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	vehicleID := r.PathValue("id")
	err := h.Recorder.RecordLocation(r.Context(), vehicleID, domain.Coordinates{Lat: req.Lat, Lon: req.Lng})
	if err != nil {
		log.Printf("record location failed: vehicle=%s err=%v", vehicleID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "recorded"})
}
