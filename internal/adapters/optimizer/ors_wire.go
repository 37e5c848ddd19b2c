package optimizer

// Wire types for the optimization endpoint. Trip ids travel in the
// free-form description fields so the step sequence can be mapped back.

const (
	stepPickup   = "pickup"
	stepDelivery = "delivery"
)

type optimizationRequest struct {
	Vehicles  []vehicle  `json:"vehicles"`
	Shipments []shipment `json:"shipments"`
	Options   options    `json:"options"`
}

type vehicle struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Profile     string    `json:"profile"`
	Start       []float64 `json:"start"`
	Capacity    []int     `json:"capacity"`
}

type shipment struct {
	ID       int          `json:"id"`
	Pickup   shipmentStep `json:"pickup"`
	Delivery shipmentStep `json:"delivery"`
	Amount   []int        `json:"amount"`
}

type shipmentStep struct {
	ID          int       `json:"id"`
	Location    []float64 `json:"location"`
	Description string    `json:"description"`
}

type options struct {
	Geometry bool     `json:"g"`
	Metrics  []string `json:"metrics"`
}

type optimizationResponse struct {
	Routes []route `json:"routes"`
}

type route struct {
	Steps   []routeStep  `json:"steps"`
	Summary routeSummary `json:"summary"`
}

// routeStep distances/durations are cumulative from the route start.
type routeStep struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
}

type routeSummary struct {
	Distance float64 `json:"distance"`
}
