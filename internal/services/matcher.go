package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/platform/obs"
	"shared-itinerary-service/internal/ports"
)

// MatchMetrics are the insertion-point figures for the new trip's own legs,
// used by the booking side for trip creation and quoting.
type MatchMetrics struct {
	DistanceToPickup  float64
	DurationToPickup  float64
	DistanceToDropoff float64
	DurationToDropoff float64
}

// MatchResult is a successful match: the chosen itinerary, the candidate
// stop ordering stored as its working copy, and the insertion metrics.
type MatchResult struct {
	Itinerary     *domain.SharedItinerary
	OrderedStops  []domain.Stop
	TotalDistance float64
	Metrics       MatchMetrics
}

// Matcher finds the best existing shared itinerary into which a new
// pickup/dropoff pair can be inserted.
//
// Each candidate is evaluated independently (tracking fix, capacity check,
// optimizer call, detour validation); evaluation touches no shared state, so
// candidates run under a bounded worker pool and the winner is picked in a
// deterministic reduction afterwards.
type Matcher struct {
	Itineraries   ports.ItineraryRepository
	Trips         ports.TripRepository
	Tracking      ports.TrackingGateway
	Vehicles      ports.VehicleGateway
	Optimizer     ports.RouteOptimizer
	WorkingCopies ports.WorkingCopyStore

	// MaxDetourPercent is the tolerated relative increase of any trip's
	// route distance caused by the insertion (0.3 = 30%).
	MaxDetourPercent float64

	// MaxParallel bounds concurrent candidate evaluations. Zero means
	// DefaultMaxParallel.
	MaxParallel int
}

const DefaultMaxParallel = 4

// candidate is one itinerary that survived evaluation.
type candidate struct {
	itinerary *domain.SharedItinerary
	result    ports.OptimizeResult
}

// FindBestItinerary evaluates all PLANNED and IN_PROGRESS itineraries for
// insertion of the request and returns the feasible candidate with the
// smallest total route distance, or (nil, nil) when no itinerary can absorb
// the request and the caller must fall back to a dedicated trip.
//
// The winning stop ordering is stored as the itinerary's working copy; it
// becomes durable only when the booking flow commits it.
func (m *Matcher) FindBestItinerary(ctx context.Context, req domain.NewTripRequest) (_ *MatchResult, err error) {
	defer obs.Time(ctx, "matcher.FindBestItinerary")(&err)

	itineraries, err := m.Itineraries.ListByStatus(ctx, domain.ItineraryPlanned, domain.ItineraryInProgress)
	if err != nil {
		return nil, fmt.Errorf("find best itinerary: list candidates: %w", err)
	}
	if len(itineraries) == 0 {
		return nil, nil
	}

	width := m.MaxParallel
	if width <= 0 {
		width = DefaultMaxParallel
	}

	sem := make(chan struct{}, width)
	results := make(chan *candidate, len(itineraries))
	var wg sync.WaitGroup

	for _, it := range itineraries {
		wg.Add(1)
		go func(it *domain.SharedItinerary) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			cand, err := m.evaluateCandidate(ctx, it, req)
			if err != nil {
				// Infeasible candidates are skipped, never fatal: one
				// untrackable vehicle or broken optimizer call must not
				// abort matching against the others.
				log.Printf("matcher: skip itinerary=%s: %v", it.ID, err)
				return
			}
			if cand != nil {
				results <- cand
			}
		}(it)
	}

	wg.Wait()
	close(results)

	best := pickBest(results)
	if best == nil {
		return nil, nil
	}

	if err := m.WorkingCopies.Set(ctx, best.itinerary.ID, best.result.OrderedStops); err != nil {
		return nil, fmt.Errorf("find best itinerary: store working copy for %s: %w", best.itinerary.ID, err)
	}

	return &MatchResult{
		Itinerary:     best.itinerary,
		OrderedStops:  best.result.OrderedStops,
		TotalDistance: best.result.TotalDistance,
		Metrics: MatchMetrics{
			DistanceToPickup:  best.result.DistanceToNewStart,
			DurationToPickup:  best.result.DurationToNewStart,
			DistanceToDropoff: best.result.DistanceToNewEnd,
			DurationToDropoff: best.result.DurationToNewEnd,
		},
	}, nil
}

// pickBest reduces the surviving candidates to the one with the strictly
// smallest total distance. Equal distances break by itinerary id ascending,
// so the outcome does not depend on evaluation order.
func pickBest(results <-chan *candidate) *candidate {
	var best *candidate
	for c := range results {
		if best == nil {
			best = c
			continue
		}
		if c.result.TotalDistance < best.result.TotalDistance {
			best = c
			continue
		}
		if c.result.TotalDistance == best.result.TotalDistance && c.itinerary.ID < best.itinerary.ID {
			best = c
		}
	}
	return best
}
