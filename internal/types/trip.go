package types

// TransportMode is one of the fixed modes a route segment can use.
type TransportMode string

const (
	ModeCar   TransportMode = "car"
	ModeTrain TransportMode = "train"
	ModeBus   TransportMode = "bus"
)

// Coordinates is a resolved (latitude, longitude) pair for a free-text place name.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RouteSegment is one leg of a route plan using a single transport mode.
type RouteSegment struct {
	Mode       TransportMode `json:"mode"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	DistanceKm float64       `json:"distance_km"`
	TimeMin    int           `json:"time_min"`
}

// RoutePlan is one alternative multi-modal journey between two places.
// Geometry is the shared road-route polyline as [lon, lat] pairs; it may be
// empty when no real route was available.
type RoutePlan struct {
	TotalDistanceKm float64        `json:"total_distance_km"`
	TotalTimeMin    int            `json:"total_time_min"`
	Geometry        [][]float64    `json:"geometry"`
	Segments        []RouteSegment `json:"segments"`
}

// RoutesResult bundles the three named plans always produced together.
type RoutesResult struct {
	Recommended RoutePlan `json:"recommended"`
	Fastest     RoutePlan `json:"fastest"`
	Cheapest    RoutePlan `json:"cheapest"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Name      string `json:"name,omitempty"`
}

// ChatResponse carries the assistant reply back to the frontend.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// RoutesRequest is the body of POST /routes.
type RoutesRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// ItineraryRequest is the body of POST /generate_itinerary.
type ItineraryRequest struct {
	SessionID       string   `json:"session_id"`
	Destination     string   `json:"destination"`
	Days            int      `json:"days"`
	Budget          float64  `json:"budget"`
	Interests       []string `json:"interests"`
	FoodPreferences string   `json:"food_preferences,omitempty"`
}

// ItineraryResponse carries the generated markdown itinerary.
type ItineraryResponse struct {
	ItineraryText string `json:"itinerary_text"`
}
