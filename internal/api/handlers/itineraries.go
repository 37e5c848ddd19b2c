package handlers

import (
	"errors"
	"log"
	"net/http"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
	"shared-itinerary-service/internal/services"
)

// ItineraryHandler exposes lifecycle transitions and filtered reads.
type ItineraryHandler struct {
	Lifecycle *services.Lifecycle
}

func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.Lifecycle.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondLifecycleError(w, r, err, "get itinerary")
		return
	}
	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

func (h *ItineraryHandler) GetByTrip(w http.ResponseWriter, r *http.Request) {
	it, err := h.Lifecycle.GetByTripID(r.Context(), domain.TripID(r.PathValue("tripID")))
	if err != nil {
		respondLifecycleError(w, r, err, "get itinerary by trip")
		return
	}
	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

func (h *ItineraryHandler) PassStart(w http.ResponseWriter, r *http.Request) {
	it, err := h.Lifecycle.PassStartPoint(r.Context(), r.PathValue("id"), domain.TripID(r.PathValue("tripID")))
	if err != nil {
		respondLifecycleError(w, r, err, "pass start point")
		return
	}
	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

func (h *ItineraryHandler) PassEnd(w http.ResponseWriter, r *http.Request) {
	it, err := h.Lifecycle.PassEndPoint(r.Context(), r.PathValue("id"), domain.TripID(r.PathValue("tripID")))
	if err != nil {
		respondLifecycleError(w, r, err, "pass end point")
		return
	}
	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

func (h *ItineraryHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	it, err := h.Lifecycle.CancelTrip(r.Context(), r.PathValue("id"), domain.TripID(r.PathValue("tripID")))
	if err != nil {
		respondLifecycleError(w, r, err, "cancel trip")
		return
	}
	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

// Commit folds the cached working copy into the trip's itinerary once the
// booking flow has durably created the trip.
func (h *ItineraryHandler) Commit(w http.ResponseWriter, r *http.Request) {
	it, err := h.Lifecycle.CommitWorkingCopy(r.Context(), domain.TripID(r.PathValue("tripID")))
	if err != nil {
		respondLifecycleError(w, r, err, "commit working copy")
		return
	}
	writeJSON(w, r, http.StatusOK, itineraryToDTO(it))
}

func respondLifecycleError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, ports.ErrNoWorkingCopy):
		writeError(w, r, http.StatusConflict, "no working copy to commit")
	case errors.Is(err, ports.ErrVersionConflict):
		writeError(w, r, http.StatusConflict, "itinerary changed concurrently")
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
