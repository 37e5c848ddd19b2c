package api

import (
	"net/http"

	"shared-itinerary-service/internal/api/handlers"
	"shared-itinerary-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(matcher *services.Matcher, lifecycle *services.Lifecycle, recorder handlers.LocationRecorder) http.Handler {
	mux := http.NewServeMux()

	matchHandler := &handlers.MatchHandler{Matcher: matcher}
	itineraryHandler := &handlers.ItineraryHandler{Lifecycle: lifecycle}
	vehicleHandler := &handlers.VehicleHandler{Recorder: recorder}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /match", matchHandler.Match)
	mux.HandleFunc("GET /itineraries/{id}", itineraryHandler.Get)
	mux.HandleFunc("GET /trips/{tripID}/itinerary", itineraryHandler.GetByTrip)
	mux.HandleFunc("POST /itineraries/{id}/trips/{tripID}/pass-start", itineraryHandler.PassStart)
	mux.HandleFunc("POST /itineraries/{id}/trips/{tripID}/pass-end", itineraryHandler.PassEnd)
	mux.HandleFunc("POST /itineraries/{id}/trips/{tripID}/cancel", itineraryHandler.CancelTrip)
	mux.HandleFunc("POST /trips/{tripID}/commit", itineraryHandler.Commit)
	mux.HandleFunc("POST /vehicles/{id}/location", vehicleHandler.UpdateLocation)

	return loggingMiddleware(mux)
}
