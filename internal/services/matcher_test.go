package services

import (
	"context"
	"errors"
	"testing"

	"shared-itinerary-service/internal/adapters/optimizer"
	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/ports"
)

var errOptimizerDown = errors.New("optimizer down")

func matchRequest() domain.NewTripRequest {
	return domain.NewTripRequest{
		Pickup:           domain.GeoPoint{Lat: 10.78, Lng: 106.70, Address: "pickup"},
		Dropoff:          domain.GeoPoint{Lat: 10.81, Lng: 106.72, Address: "dropoff"},
		Seats:            1,
		DistanceEstimate: 6000,
	}
}

func itineraryFor(id, vehicleID string, tripID domain.TripID) *domain.SharedItinerary {
	return &domain.SharedItinerary{
		ID:        id,
		VehicleID: vehicleID,
		DriverID:  "driver-" + id,
		Status:    domain.ItineraryInProgress,
		Stops: []domain.Stop{
			{Order: 1, PointType: domain.StartPoint, TripID: tripID, Point: domain.GeoPoint{Lat: 10.77, Lng: 106.66}},
			{Order: 2, PointType: domain.EndPoint, TripID: tripID, Point: domain.GeoPoint{Lat: 10.80, Lng: 106.71}},
		},
		Version: 1,
	}
}

func newTestMatcher(repo *fakeItineraryRepo, opt *optimizer.MockOptimizer, wc *fakeWorkingCopies) *Matcher {
	return &Matcher{
		Itineraries: repo,
		Trips: &fakeTripRepo{trips: map[domain.TripID]*domain.Trip{
			"trip-a": {ID: "trip-a", ItineraryID: "itn-a", Seats: 2, DistanceEstimate: 8000},
			"trip-b": {ID: "trip-b", ItineraryID: "itn-b", Seats: 1, DistanceEstimate: 8000},
			"trip-c": {ID: "trip-c", ItineraryID: "itn-c", Seats: 1, DistanceEstimate: 8000},
		}},
		Tracking: &fakeTracking{positions: map[string]domain.Coordinates{
			"veh-a": {Lon: 106.65, Lat: 10.76},
			"veh-b": {Lon: 106.66, Lat: 10.77},
			"veh-c": {Lon: 106.67, Lat: 10.78},
		}},
		Vehicles: &fakeVehicles{capacities: map[string]int{
			"veh-a": 4, "veh-b": 4, "veh-c": 4,
		}},
		Optimizer:        opt,
		WorkingCopies:    wc,
		MaxDetourPercent: 0.3,
	}
}

func orderedStopsFor(tripIDs ...domain.TripID) []domain.Stop {
	stops := make([]domain.Stop, 0, len(tripIDs)*2)
	order := 1
	for _, id := range tripIDs {
		stops = append(stops,
			domain.Stop{Order: order, PointType: domain.StartPoint, TripID: id},
			domain.Stop{Order: order + 1, PointType: domain.EndPoint, TripID: id},
		)
		order += 2
	}
	return stops
}

func TestFindBestItineraryPicksSmallestTotalDistance(t *testing.T) {
	repo := newFakeItineraryRepo(
		itineraryFor("itn-a", "veh-a", "trip-a"),
		itineraryFor("itn-b", "veh-b", "trip-b"),
		itineraryFor("itn-c", "veh-c", "trip-c"),
	)
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {OrderedStops: orderedStopsFor("trip-a", domain.TempTripID), TotalDistance: 12000},
		"veh-b": {OrderedStops: orderedStopsFor("trip-b", domain.TempTripID), TotalDistance: 9500, DistanceToNewStart: 1500, DurationToNewStart: 300},
		"veh-c": {OrderedStops: orderedStopsFor("trip-c", domain.TempTripID), TotalDistance: 13000},
	}}
	wc := newFakeWorkingCopies()
	m := newTestMatcher(repo, opt, wc)

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res == nil {
		t.Fatal("expected a match")
	}
	if res.Itinerary.ID != "itn-b" {
		t.Errorf("expected itn-b, got %s", res.Itinerary.ID)
	}
	if res.TotalDistance != 9500 {
		t.Errorf("unexpected total distance %v", res.TotalDistance)
	}
	if res.Metrics.DistanceToPickup != 1500 || res.Metrics.DurationToPickup != 300 {
		t.Errorf("insertion metrics not propagated: %+v", res.Metrics)
	}

	stored, err := wc.Get(context.Background(), "itn-b")
	if err != nil {
		t.Fatalf("working copy not stored: %v", err)
	}
	if len(stored) != len(res.OrderedStops) {
		t.Errorf("working copy has %d stops, result has %d", len(stored), len(res.OrderedStops))
	}
	if _, err := wc.Get(context.Background(), "itn-a"); err == nil {
		t.Error("losing candidate must not leave a working copy")
	}
}

func TestFindBestItineraryTieBreaksByID(t *testing.T) {
	repo := newFakeItineraryRepo(
		itineraryFor("itn-b", "veh-b", "trip-b"),
		itineraryFor("itn-a", "veh-a", "trip-a"),
	)
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {OrderedStops: orderedStopsFor("trip-a", domain.TempTripID), TotalDistance: 9500},
		"veh-b": {OrderedStops: orderedStopsFor("trip-b", domain.TempTripID), TotalDistance: 9500},
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	for i := 0; i < 5; i++ {
		res, err := m.FindBestItinerary(context.Background(), matchRequest())
		if err != nil {
			t.Fatal(err)
		}
		if res == nil || res.Itinerary.ID != "itn-a" {
			t.Fatalf("run %d: tie should resolve to itn-a, got %+v", i, res)
		}
	}
}

func TestFindBestItineraryNoCandidates(t *testing.T) {
	m := newTestMatcher(newFakeItineraryRepo(), &optimizer.MockOptimizer{}, newFakeWorkingCopies())

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("expected no match, got %+v", res)
	}
}

func TestFindBestItinerarySkipsOverCapacity(t *testing.T) {
	repo := newFakeItineraryRepo(itineraryFor("itn-a", "veh-a", "trip-a"))
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {OrderedStops: orderedStopsFor("trip-a", domain.TempTripID), TotalDistance: 9500},
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	req := matchRequest()
	req.Seats = 5 // above veh-a's capacity of 4

	res, err := m.FindBestItinerary(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("over-capacity request matched: %+v", res)
	}
	if len(opt.Requests()) != 0 {
		t.Error("optimizer called for an over-capacity candidate")
	}
}

func TestFindBestItinerarySkipsUntrackableVehicle(t *testing.T) {
	repo := newFakeItineraryRepo(
		itineraryFor("itn-a", "veh-a", "trip-a"),
		itineraryFor("itn-b", "veh-untracked", "trip-b"),
	)
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {OrderedStops: orderedStopsFor("trip-a", domain.TempTripID), TotalDistance: 9500},
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Itinerary.ID != "itn-a" {
		t.Fatalf("expected fallback to the trackable candidate, got %+v", res)
	}
}

func TestFindBestItinerarySkipsFailedOptimizerCall(t *testing.T) {
	repo := newFakeItineraryRepo(
		itineraryFor("itn-a", "veh-a", "trip-a"),
		itineraryFor("itn-b", "veh-b", "trip-b"),
	)
	opt := &optimizer.MockOptimizer{
		ByVehicle: map[string]ports.OptimizeResult{
			"veh-b": {OrderedStops: orderedStopsFor("trip-b", domain.TempTripID), TotalDistance: 11000},
		},
		ErrFor: map[string]error{"veh-a": errOptimizerDown},
	}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Itinerary.ID != "itn-b" {
		t.Fatalf("one failing optimizer call must not abort matching, got %+v", res)
	}
}

func TestFindBestItineraryRejectsDetourViolation(t *testing.T) {
	repo := newFakeItineraryRepo(itineraryFor("itn-a", "veh-a", "trip-a"))
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {
			OrderedStops:  orderedStopsFor("trip-a", domain.TempTripID),
			TotalDistance: 9500,
			PerTripDistance: []ports.TripDistance{
				// trip-a's estimate is 8000; 30% tolerance allows 10400.
				{TripID: "trip-a", Distance: 11000},
				{TripID: domain.TempTripID, Distance: 6000},
			},
		},
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("detour violation must discard the candidate, got %+v", res)
	}
}

func TestFindBestItineraryDetourUsesRequestEstimateForNewTrip(t *testing.T) {
	repo := newFakeItineraryRepo(itineraryFor("itn-a", "veh-a", "trip-a"))
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {
			OrderedStops:  orderedStopsFor("trip-a", domain.TempTripID),
			TotalDistance: 9500,
			PerTripDistance: []ports.TripDistance{
				{TripID: "trip-a", Distance: 9000},
				// Request estimate is 6000; 30% tolerance allows 7800.
				{TripID: domain.TempTripID, Distance: 8000},
			},
		},
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("new trip exceeding its own estimate must be rejected, got %+v", res)
	}
}

func TestFindBestItineraryInfeasibleOptimizerResult(t *testing.T) {
	repo := newFakeItineraryRepo(itineraryFor("itn-a", "veh-a", "trip-a"))
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {}, // zero result: optimizer found no route
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	res, err := m.FindBestItinerary(context.Background(), matchRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res != nil {
		t.Errorf("infeasible result treated as a match: %+v", res)
	}
}

func TestFindBestItinerarySendsTempStopsAndDemands(t *testing.T) {
	repo := newFakeItineraryRepo(itineraryFor("itn-a", "veh-a", "trip-a"))
	opt := &optimizer.MockOptimizer{ByVehicle: map[string]ports.OptimizeResult{
		"veh-a": {OrderedStops: orderedStopsFor("trip-a", domain.TempTripID), TotalDistance: 9500},
	}}
	m := newTestMatcher(repo, opt, newFakeWorkingCopies())

	if _, err := m.FindBestItinerary(context.Background(), matchRequest()); err != nil {
		t.Fatal(err)
	}
	if len(opt.Requests()) != 1 {
		t.Fatalf("expected 1 optimizer call, got %d", len(opt.Requests()))
	}

	req := opt.Requests()[0]
	if len(req.Stops) != 4 {
		t.Fatalf("expected 2 existing + 2 synthetic stops, got %d", len(req.Stops))
	}
	last := req.Stops[len(req.Stops)-1]
	prev := req.Stops[len(req.Stops)-2]
	if !prev.TripID.IsTemp() || prev.PointType != domain.StartPoint {
		t.Errorf("synthetic pickup malformed: %+v", prev)
	}
	if !last.TripID.IsTemp() || last.PointType != domain.EndPoint {
		t.Errorf("synthetic drop-off malformed: %+v", last)
	}

	var tempDemand, existingDemand bool
	for _, d := range req.Demands {
		switch {
		case d.TripID.IsTemp() && d.Seats == 1:
			tempDemand = true
		case d.TripID == "trip-a" && d.Seats == 2:
			existingDemand = true
		}
	}
	if !tempDemand || !existingDemand {
		t.Errorf("demands incomplete: %+v", req.Demands)
	}
}
