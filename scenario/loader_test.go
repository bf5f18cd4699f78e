package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fieldworks/guidance-simulator/kb"
	"github.com/fieldworks/guidance-simulator/model"
)

const sampleScenario = `{
  "vehicles": [
    {
      "id": "uav1",
      "name": "Survey-1",
      "kind": "AIRCRAFT",
      "accept_radius": 5,
      "position": {"north": 0, "east": 20, "down": -100}
    }
  ],
  "missions": {
    "uav1": [
      {"mode": "fly_vector", "start": {"north": 0, "east": 0, "down": -100}, "end": {"north": 500, "east": 0, "down": -100}, "speed": 12},
      {"mode": "fly_circle_left", "start": {"north": 500, "east": 0, "down": -100}, "end": {"north": 500, "east": 80, "down": -100}, "speed": 12}
    ]
  }
}`

func TestLoadAndPopulate(t *testing.T) {
	s, err := Load(strings.NewReader(sampleScenario))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	store := kb.NewStore()
	missions, err := s.Populate(store)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}

	v := store.GetVehicle("uav1")
	if v == nil {
		t.Fatalf("vehicle not added to store")
	}
	if v.Position != (model.NED{East: 20, Down: -100}) {
		t.Fatalf("vehicle position = %#v", v.Position)
	}
	if v.AcceptRadius != 5 {
		t.Fatalf("accept radius = %v, want 5", v.AcceptRadius)
	}

	legs := missions["uav1"]
	if len(legs) != 2 {
		t.Fatalf("mission legs = %d, want 2", len(legs))
	}
	if legs[0].Mode != model.PathModeFlyVector || legs[0].Speed != 12 {
		t.Fatalf("leg 0 = %#v", legs[0])
	}
	if legs[1].Mode != model.PathModeFlyCircleLeft {
		t.Fatalf("leg 1 mode = %v, want fly_circle_left", legs[1].Mode)
	}
	if legs[0].End != (model.NED{North: 500, Down: -100}) {
		t.Fatalf("leg 0 end = %#v", legs[0].End)
	}
}

func TestLoadUnknownModeFallsBack(t *testing.T) {
	s, err := Load(strings.NewReader(`{
  "vehicles": [{"id": "v1", "position": {}}],
  "missions": {"v1": [{"mode": "teleport", "end": {"north": 1}, "speed": 1}]}
}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	missions, err := s.Populate(kb.NewStore())
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if got := missions["v1"][0].Mode; got != model.PathModeDriveEndpoint {
		t.Fatalf("unknown mode parsed to %v, want drive_endpoint fallback", got)
	}
}

func TestLoadRejectsStructuralErrors(t *testing.T) {
	cases := map[string]string{
		"bad json":        `{"vehicles": [`,
		"empty id":        `{"vehicles": [{"id": ""}]}`,
		"unknown mission": `{"vehicles": [{"id": "v1"}], "missions": {"nope": [{"mode": "fly_vector"}]}}`,
		"empty mission":   `{"vehicles": [{"id": "v1"}], "missions": {"v1": []}}`,
	}
	for name, raw := range cases {
		if _, err := Load(strings.NewReader(raw)); err == nil {
			t.Fatalf("%s: expected Load to fail", name)
		}
	}
}

func TestPopulateDuplicateVehicle(t *testing.T) {
	s, err := Load(strings.NewReader(sampleScenario))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := kb.NewStore()
	if _, err := s.Populate(store); err != nil {
		t.Fatalf("first Populate: %v", err)
	}
	if _, err := s.Populate(store); err == nil {
		t.Fatalf("expected duplicate Populate to fail")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	legs := []model.PathLeg{
		{Mode: model.PathModeDriveVector, End: model.NED{North: 100}, Speed: 8},
		{Mode: model.PathModeDriveEndpoint, Start: model.NED{North: 100}, End: model.NED{North: 100, East: 40}, Speed: 8},
	}
	s := FromMission(VehicleSpec{ID: "rover1", Kind: "ROVER", AcceptRadius: 3}, legs)

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reloaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load after Write: %v", err)
	}
	missions, err := reloaded.Populate(kb.NewStore())
	if err != nil {
		t.Fatalf("Populate after round trip: %v", err)
	}
	got := missions["rover1"]
	if len(got) != 2 || got[0].Mode != model.PathModeDriveVector || got[1].End != legs[1].End {
		t.Fatalf("round-tripped mission = %#v", got)
	}
}
