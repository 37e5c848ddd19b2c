package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shared-itinerary-service/internal/domain"
	"shared-itinerary-service/internal/platform/obs"
	"shared-itinerary-service/internal/ports"
)

// vehicleLocationTag marks the pseudo-pickup substituted for a trip whose
// real pickup is already behind the vehicle (or has no coordinates). Steps
// carrying it are dropped from the returned ordering; their cumulative
// distance only serves as the fallback base for that trip's delivery span.
const vehicleLocationTag = "VEHICLE_LOCATION"

// ORSOptimizer implements ports.RouteOptimizer against an
// OpenRouteService/VROOM optimization endpoint.
//
// It models the vehicle as a single start location with its seat capacity
// and one shipment (pickup + delivery, tagged with the trip id as free-form
// metadata) per trip, then maps the returned step sequence back onto the
// original stops.
//
// The adapter is safe for concurrent use.
type ORSOptimizer struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

func NewORSOptimizer(apiKey, baseURL string) (*ORSOptimizer, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}

	return &ORSOptimizer{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		profile: "driving-car",
	}, nil
}

// ComputeItinerary asks the optimizer for an updated stop sequence and maps
// it back into per-stop orders, per-trip incremental distances and the
// insertion metrics for the TempTripID pair.
//
// A rejected request (non-2xx) or a response without routes yields the zero
// result with a nil error: "no feasible route", which callers must not read
// as a zero-length trip. Only transport failures surface as an error,
// wrapped in ports.ErrRouteComputation.
func (o *ORSOptimizer) ComputeItinerary(ctx context.Context, req ports.OptimizeRequest) (_ ports.OptimizeResult, err error) {
	defer obs.Time(ctx, "ors.ComputeItinerary")(&err)

	body, err := json.Marshal(o.buildRequest(req))
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("marshal optimization request: %w", err)
	}

	endpoint := o.baseURL + "/optimization"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, endpoint, bytes.NewReader(body))
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			// The optimizer rejected the problem (capacity, unreachable
			// locations). Infeasible, not fatal.
			return ports.OptimizeResult{}, nil
		}
		return ports.OptimizeResult{}, fmt.Errorf("%w: %v", ports.ErrRouteComputation, err)
	}
	defer resp.Body.Close()

	var or optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return ports.OptimizeResult{}, nil
	}
	if len(or.Routes) == 0 {
		return ports.OptimizeResult{}, nil
	}

	return parseRoute(or.Routes[0], req.Stops), nil
}

// buildRequest translates the stop set into the optimizer's
// vehicles/shipments problem statement.
func (o *ORSOptimizer) buildRequest(req ports.OptimizeRequest) optimizationRequest {
	demand := make(map[domain.TripID]int, len(req.Demands))
	for _, d := range req.Demands {
		demand[d.TripID] = d.Seats
	}

	// Group the trip's two stops, keeping first-seen trip order so shipment
	// ids stay stable for a given input.
	type pair struct {
		pickup   *domain.Stop
		delivery *domain.Stop
	}
	byTrip := make(map[domain.TripID]*pair, len(req.Stops)/2+1)
	order := make([]domain.TripID, 0, len(req.Stops)/2+1)
	for i := range req.Stops {
		s := &req.Stops[i]
		p, ok := byTrip[s.TripID]
		if !ok {
			p = &pair{}
			byTrip[s.TripID] = p
			order = append(order, s.TripID)
		}
		switch s.PointType {
		case domain.StartPoint:
			p.pickup = s
		case domain.EndPoint:
			p.delivery = s
		}
	}

	shipments := make([]shipment, 0, len(order))
	nextID := 0
	for _, tripID := range order {
		p := byTrip[tripID]
		if p.delivery == nil {
			continue
		}

		amount := demand[tripID]
		if amount <= 0 {
			amount = 1
		}

		pickup := shipmentStep{
			ID:          nextID*2 + 1,
			Description: string(tripID),
		}
		// A trip without a usable pickup is anchored at the vehicle's live
		// position under the sentinel tag, so its pickup leg never counts
		// against a passenger.
		if p.pickup == nil || p.pickup.IsPass || !p.pickup.Point.HasCoordinates() {
			pickup.Location = req.VehiclePosition.CoordsToList()
			pickup.Description = vehicleLocationTag
		} else {
			pickup.Location = p.pickup.Point.Coordinates().CoordsToList()
		}

		shipments = append(shipments, shipment{
			ID:     nextID + 1,
			Pickup: pickup,
			Delivery: shipmentStep{
				ID:          nextID*2 + 2,
				Location:    p.delivery.Point.Coordinates().CoordsToList(),
				Description: string(tripID),
			},
			Amount: []int{amount},
		})
		nextID++
	}

	return optimizationRequest{
		Vehicles: []vehicle{{
			ID:          1,
			Description: req.VehicleID,
			Profile:     o.profile,
			Start:       req.VehiclePosition.CoordsToList(),
			Capacity:    []int{req.Capacity},
		}},
		Shipments: shipments,
		Options:   options{Geometry: true, Metrics: []string{"distance"}},
	}
}

// parseRoute walks the returned step sequence and rebuilds the stop ordering.
//
// Steps tagged with the vehicle-position sentinel are skipped entirely: not
// returned, not numbered. Every other accepted pickup/delivery step resolves
// its original stop by trip id + point type and takes the next 1-based order.
// A trip's incremental distance is its delivery step's cumulative distance
// minus its pickup step's; trips whose pickup was substituted fall back to
// the sentinel step's cumulative distance.
func parseRoute(r route, stops []domain.Stop) ports.OptimizeResult {
	result := ports.OptimizeResult{
		TotalDistance: r.Summary.Distance,
	}

	pickupDistance := make(map[string]float64)
	next := 0

	for _, step := range r.Steps {
		var pt domain.PointType
		switch step.Type {
		case stepPickup:
			pt = domain.StartPoint
		case stepDelivery:
			pt = domain.EndPoint
		default:
			continue
		}

		if step.Description == vehicleLocationTag {
			pickupDistance[vehicleLocationTag] = step.Distance
			continue
		}

		tripID := domain.TripID(step.Description)
		i := findStop(stops, tripID, pt)
		if i < 0 {
			continue
		}

		next++
		s := stops[i]
		s.Order = next
		result.OrderedStops = append(result.OrderedStops, s)

		switch pt {
		case domain.StartPoint:
			pickupDistance[step.Description] = step.Distance
			if tripID.IsTemp() {
				result.DistanceToNewStart = step.Distance
				result.DurationToNewStart = step.Duration
			}
		case domain.EndPoint:
			base, ok := pickupDistance[step.Description]
			if !ok {
				base = pickupDistance[vehicleLocationTag]
			}
			result.PerTripDistance = append(result.PerTripDistance, ports.TripDistance{
				TripID:   tripID,
				Distance: step.Distance - base,
			})
			if tripID.IsTemp() {
				result.DistanceToNewEnd = step.Distance
				result.DurationToNewEnd = step.Duration
			}
		}
	}

	return result
}

func findStop(stops []domain.Stop, tripID domain.TripID, pt domain.PointType) int {
	for i, s := range stops {
		if s.TripID == tripID && s.PointType == pt {
			return i
		}
	}
	return -1
}
