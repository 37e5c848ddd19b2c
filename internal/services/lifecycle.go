package services

import (
	"context"
	"fmt"
	"log"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/platform/obs"
	"shared-itinerary-service/internal/ports"
)

// Lifecycle applies stop-level state transitions to shared itineraries:
// pass-through events, trip cancellation with order reindexing, and folding
// a cached working copy into the durable stop list once the owning trip is
// created.
type Lifecycle struct {
	Itineraries   ports.ItineraryRepository
	Trips         ports.TripRepository
	WorkingCopies ports.WorkingCopyStore
	Notifier      ports.DriverNotifier
}

// PassStartPoint marks the trip's pickup as passed. If that stop was the
// itinerary's next stop overall, the itinerary moves PLANNED -> IN_PROGRESS.
func (l *Lifecycle) PassStartPoint(ctx context.Context, itineraryID string, tripID domain.TripID) (*domain.SharedItinerary, error) {
	return l.passStop(ctx, itineraryID, tripID, domain.StartPoint)
}

// PassEndPoint marks the trip's drop-off as passed. If that stop was the
// itinerary's last remaining stop, the itinerary completes.
func (l *Lifecycle) PassEndPoint(ctx context.Context, itineraryID string, tripID domain.TripID) (*domain.SharedItinerary, error) {
	return l.passStop(ctx, itineraryID, tripID, domain.EndPoint)
}

func (l *Lifecycle) passStop(ctx context.Context, itineraryID string, tripID domain.TripID, pt domain.PointType) (*domain.SharedItinerary, error) {
	it, err := l.Itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("pass %s: load itinerary %s: %w", pt, itineraryID, err)
	}

	i := it.FindStop(tripID, pt)
	if i < 0 {
		return nil, fmt.Errorf("pass %s: trip %s in itinerary %s: %w", pt, tripID, itineraryID, ports.ErrNotFound)
	}
	if it.Stops[i].IsPass {
		return it, nil
	}

	switch pt {
	case domain.StartPoint:
		if it.Status == domain.ItineraryPlanned && it.IsFirstActive(i) {
			it.Status = domain.ItineraryInProgress
		}
	case domain.EndPoint:
		if it.IsLastActive(i) {
			it.Status = domain.ItineraryCompleted
		}
	}
	it.Stops[i].IsPass = true

	if err := l.Itineraries.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("pass %s: persist itinerary %s: %w", pt, itineraryID, err)
	}
	return it, nil
}

// CancelTrip removes a trip from its itinerary: its stops are flagged
// cancelled with order 0, the remaining stops are renumbered 1..N, and the
// driver is notified with the filtered stop list. Cancelling the itinerary's
// last trip cancels the whole itinerary instead of reindexing.
//
// Repeating a cancellation is a no-op.
func (l *Lifecycle) CancelTrip(ctx context.Context, itineraryID string, tripID domain.TripID) (_ *domain.SharedItinerary, err error) {
	defer obs.Time(ctx, "lifecycle.CancelTrip")(&err)

	it, err := l.Itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("cancel trip %s: load itinerary %s: %w", tripID, itineraryID, err)
	}

	if it.MarkTripCancelled(tripID) == 0 {
		return it, nil
	}

	if !it.HasNonCancelledStops() {
		it.Status = domain.ItineraryCancelled
	} else {
		it.Reindex()
	}

	if err := l.Itineraries.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("cancel trip %s: persist itinerary %s: %w", tripID, itineraryID, err)
	}

	if err := l.Notifier.ItineraryUpdated(ctx, it.DriverID, it.ID, it.CurrentStops()); err != nil {
		// Notification delivery is best effort; the durable state already
		// changed and must not be rolled back over a push failure.
		log.Printf("lifecycle: notify driver=%s itinerary=%s: %v", it.DriverID, it.ID, err)
	}

	return it, nil
}

// CommitWorkingCopy folds the cached candidate ordering into the trip's
// itinerary, at the moment the booking flow has durably created the trip.
//
// Stops the vehicle already passed stay as a fixed prefix; the working
// copy's stops are appended after them with their orders offset by the
// prefix length, and any stop still tagged TempTripID takes the trip's real
// id. A missing working copy is a hard failure: commit is only invoked by
// the flow that produced one.
func (l *Lifecycle) CommitWorkingCopy(ctx context.Context, tripID domain.TripID) (_ *domain.SharedItinerary, err error) {
	defer obs.Time(ctx, "lifecycle.CommitWorkingCopy")(&err)

	trip, err := l.Trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("commit working copy: trip %s: %w", tripID, err)
	}
	if trip.ItineraryID == "" {
		return nil, fmt.Errorf("commit working copy: trip %s has no itinerary reference: %w", tripID, ports.ErrNotFound)
	}

	it, err := l.Itineraries.GetByID(ctx, trip.ItineraryID)
	if err != nil {
		return nil, fmt.Errorf("commit working copy: itinerary %s: %w", trip.ItineraryID, err)
	}

	working, err := l.WorkingCopies.Get(ctx, it.ID)
	if err != nil {
		return nil, fmt.Errorf("commit working copy: itinerary %s: %w", it.ID, err)
	}

	// Cancelled stops are retained for audit, ahead of the passed prefix.
	merged := make([]domain.Stop, 0, len(it.Stops)+len(working))
	passed := 0
	for _, s := range it.Stops {
		if s.IsCancel {
			merged = append(merged, s)
		}
	}
	for _, s := range it.Stops {
		if !s.IsCancel && s.IsPass {
			merged = append(merged, s)
			passed++
		}
	}

	for _, s := range working {
		if s.TripID.IsTemp() {
			s.TripID = tripID
		}
		s.Order += passed
		merged = append(merged, s)
	}

	it.Stops = merged
	if err := l.Itineraries.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("commit working copy: persist itinerary %s: %w", it.ID, err)
	}

	if err := l.WorkingCopies.Delete(ctx, it.ID); err != nil {
		log.Printf("lifecycle: drop working copy itinerary=%s: %v", it.ID, err)
	}

	return it, nil
}

// GetByID returns the itinerary with cancelled stops filtered out.
func (l *Lifecycle) GetByID(ctx context.Context, itineraryID string) (*domain.SharedItinerary, error) {
	it, err := l.Itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("get itinerary %s: %w", itineraryID, err)
	}
	it.Stops = it.CurrentStops()
	return it, nil
}

// GetByTripID returns the trip's itinerary with cancelled stops filtered out.
func (l *Lifecycle) GetByTripID(ctx context.Context, tripID domain.TripID) (*domain.SharedItinerary, error) {
	it, err := l.Itineraries.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get itinerary by trip %s: %w", tripID, err)
	}
	it.Stops = it.CurrentStops()
	return it, nil
}
