package services

import (
	"context"
	"sync"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

// In-memory port fakes shared by the matcher and lifecycle tests.

type fakeItineraryRepo struct {
	itineraries map[string]*domain.SharedItinerary
	updateErr   error
	updated     []string
}

func newFakeItineraryRepo(its ...*domain.SharedItinerary) *fakeItineraryRepo {
	r := &fakeItineraryRepo{itineraries: make(map[string]*domain.SharedItinerary)}
	for _, it := range its {
		r.itineraries[it.ID] = it
	}
	return r
}

func (r *fakeItineraryRepo) ListByStatus(_ context.Context, statuses ...domain.ItineraryStatus) ([]*domain.SharedItinerary, error) {
	want := make(map[domain.ItineraryStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []*domain.SharedItinerary
	for _, it := range r.itineraries {
		if want[it.Status] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeItineraryRepo) GetByID(_ context.Context, id string) (*domain.SharedItinerary, error) {
	it, ok := r.itineraries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *it
	cp.Stops = append([]domain.Stop(nil), it.Stops...)
	return &cp, nil
}

func (r *fakeItineraryRepo) GetByTripID(_ context.Context, tripID domain.TripID) (*domain.SharedItinerary, error) {
	for _, it := range r.itineraries {
		for _, s := range it.Stops {
			if s.TripID == tripID {
				return r.GetByID(context.Background(), it.ID)
			}
		}
	}
	return nil, ports.ErrNotFound
}

func (r *fakeItineraryRepo) Update(_ context.Context, it *domain.SharedItinerary) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.itineraries[it.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if stored.Version != it.Version {
		return ports.ErrVersionConflict
	}
	it.Version++
	cp := *it
	cp.Stops = append([]domain.Stop(nil), it.Stops...)
	r.itineraries[it.ID] = &cp
	r.updated = append(r.updated, it.ID)
	return nil
}

type fakeTripRepo struct {
	trips map[domain.TripID]*domain.Trip
}

func (r *fakeTripRepo) GetTrip(_ context.Context, id domain.TripID) (*domain.Trip, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return t, nil
}

type fakeTracking struct {
	positions map[string]domain.Coordinates
}

func (g *fakeTracking) LastVehicleLocation(_ context.Context, vehicleID string) (domain.Coordinates, error) {
	pos, ok := g.positions[vehicleID]
	if !ok {
		return domain.Coordinates{}, ports.ErrLocationUnavailable
	}
	return pos, nil
}

type fakeVehicles struct {
	capacities map[string]int
}

func (g *fakeVehicles) SeatCapacity(_ context.Context, vehicleID string) (int, error) {
	c, ok := g.capacities[vehicleID]
	if !ok {
		return 0, ports.ErrNotFound
	}
	return c, nil
}

type fakeWorkingCopies struct {
	mu     sync.Mutex
	copies map[string][]domain.Stop
	setErr error
}

func newFakeWorkingCopies() *fakeWorkingCopies {
	return &fakeWorkingCopies{copies: make(map[string][]domain.Stop)}
}

func (s *fakeWorkingCopies) Get(_ context.Context, itineraryID string) ([]domain.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stops, ok := s.copies[itineraryID]
	if !ok {
		return nil, ports.ErrNoWorkingCopy
	}
	return append([]domain.Stop(nil), stops...), nil
}

func (s *fakeWorkingCopies) Set(_ context.Context, itineraryID string, stops []domain.Stop) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copies[itineraryID] = append([]domain.Stop(nil), stops...)
	return nil
}

func (s *fakeWorkingCopies) Delete(_ context.Context, itineraryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.copies, itineraryID)
	return nil
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

type notifyCall struct {
	driverID    string
	itineraryID string
	stops       []domain.Stop
}

func (n *fakeNotifier) ItineraryUpdated(_ context.Context, driverID, itineraryID string, stops []domain.Stop) error {
	n.calls = append(n.calls, notifyCall{driverID: driverID, itineraryID: itineraryID, stops: stops})
	return n.err
}
