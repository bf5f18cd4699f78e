// Package scenario loads simulation scenarios (vehicles plus their mission
// legs) from JSON and can generate them from orbital ground tracks.
package scenario

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fieldworks/guidance-simulator/kb"
	"github.com/fieldworks/guidance-simulator/model"
)

// Scenario is the on-disk shape: a set of vehicles and, per vehicle ID, an
// ordered list of mission legs.
type Scenario struct {
	Vehicles []VehicleSpec        `json:"vehicles"`
	Missions map[string][]LegSpec `json:"missions"`
}

// VehicleSpec describes one vehicle in a scenario file.
type VehicleSpec struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	AcceptRadius float64 `json:"accept_radius"`
	Position     NEDSpec `json:"position"`
}

// LegSpec describes one mission leg in a scenario file.
type LegSpec struct {
	Mode  string  `json:"mode"`
	Start NEDSpec `json:"start"`
	End   NEDSpec `json:"end"`
	Speed float64 `json:"speed"`
}

// NEDSpec is a local-frame position in metres.
type NEDSpec struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	Down  float64 `json:"down"`
}

// Load reads a JSON scenario from r. It fails only on JSON or structural
// errors; geometric plausibility is the kernel's problem, not the loader's.
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: decode failed: %w", err)
	}

	seen := make(map[string]bool, len(s.Vehicles))
	for _, v := range s.Vehicles {
		if v.ID == "" {
			return nil, fmt.Errorf("scenario: vehicle with empty id")
		}
		seen[v.ID] = true
	}
	for id, legs := range s.Missions {
		if !seen[id] {
			return nil, fmt.Errorf("scenario: mission for unknown vehicle %q", id)
		}
		if len(legs) == 0 {
			return nil, fmt.Errorf("scenario: empty mission for vehicle %q", id)
		}
	}
	return &s, nil
}

// Write encodes the scenario as indented JSON.
func (s *Scenario) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("scenario: encode failed: %w", err)
	}
	return nil
}

// Populate adds the scenario's vehicles to the store and returns the parsed
// mission legs per vehicle ID.
func (s *Scenario) Populate(store *kb.Store) (map[string][]model.PathLeg, error) {
	if store == nil {
		return nil, fmt.Errorf("scenario: store is nil")
	}

	for _, v := range s.Vehicles {
		def := &model.VehicleDefinition{
			ID:           v.ID,
			Name:         v.Name,
			Kind:         v.Kind,
			AcceptRadius: v.AcceptRadius,
			Position:     v.Position.toNED(),
		}
		if err := store.AddVehicle(def); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
	}

	missions := make(map[string][]model.PathLeg, len(s.Missions))
	for id, specs := range s.Missions {
		legs := make([]model.PathLeg, 0, len(specs))
		for _, spec := range specs {
			legs = append(legs, model.PathLeg{
				Mode:  model.ParsePathMode(spec.Mode),
				Start: spec.Start.toNED(),
				End:   spec.End.toNED(),
				Speed: spec.Speed,
			})
		}
		missions[id] = legs
	}
	return missions, nil
}

// FromMission builds a single-vehicle scenario around generated legs, e.g.
// from the ground-track generator.
func FromMission(vehicle VehicleSpec, legs []model.PathLeg) *Scenario {
	specs := make([]LegSpec, 0, len(legs))
	for _, leg := range legs {
		specs = append(specs, LegSpec{
			Mode:  leg.Mode.String(),
			Start: nedSpec(leg.Start),
			End:   nedSpec(leg.End),
			Speed: leg.Speed,
		})
	}
	return &Scenario{
		Vehicles: []VehicleSpec{vehicle},
		Missions: map[string][]LegSpec{vehicle.ID: specs},
	}
}

func (n NEDSpec) toNED() model.NED {
	return model.NED{North: n.North, East: n.East, Down: n.Down}
}

func nedSpec(n model.NED) NEDSpec {
	return NEDSpec{North: n.North, East: n.East, Down: n.Down}
}
