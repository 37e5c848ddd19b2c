package optimizer

import (
	"context"
	"sync"

	"shared-itinerary-service/internal/ports"
)

// MockOptimizer returns canned results keyed by vehicle id. Vehicles without
// an entry get the zero ("no feasible route") result. Calls are recorded for
// assertion.
type MockOptimizer struct {
	ByVehicle map[string]ports.OptimizeResult
	ErrFor    map[string]error

	mu       sync.Mutex
	requests []ports.OptimizeRequest
}

func (m *MockOptimizer) ComputeItinerary(_ context.Context, req ports.OptimizeRequest) (ports.OptimizeResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err, ok := m.ErrFor[req.VehicleID]; ok {
		return ports.OptimizeResult{}, err
	}
	return m.ByVehicle[req.VehicleID], nil
}

// Requests returns the optimize requests seen so far.
func (m *MockOptimizer) Requests() []ports.OptimizeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.OptimizeRequest(nil), m.requests...)
}
