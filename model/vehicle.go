package model

// NED is a position or displacement in local north/east/down metres.
type NED struct {
	North float64
	East  float64
	Down  float64
}

// VehicleDefinition represents a guided asset (aircraft, rover, surface
// vessel). Identity and pose only; guidance state lives in the store.
type VehicleDefinition struct {
	ID   string
	Name string
	Kind string // e.g. "AIRCRAFT", "ROVER"

	Position NED

	// AcceptRadius is the distance (metres) within which an endpoint leg
	// counts as reached by the mission planner.
	AcceptRadius float64
}
