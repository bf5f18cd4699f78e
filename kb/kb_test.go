package kb

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fieldworks/guidance-simulator/guidance"
	"github.com/fieldworks/guidance-simulator/model"
)

func TestAddAndGetVehicle(t *testing.T) {
	store := NewStore()
	v := &model.VehicleDefinition{
		ID:   "v1",
		Name: "Rover1",
	}
	if err := store.AddVehicle(v); err != nil {
		t.Fatalf("AddVehicle error: %v", err)
	}
	got := store.GetVehicle("v1")
	if got == nil || got.Name != "Rover1" {
		t.Fatalf("GetVehicle returned %#v, want name Rover1", got)
	}
}

func TestAddVehicleDuplicate(t *testing.T) {
	store := NewStore()
	if err := store.AddVehicle(&model.VehicleDefinition{ID: "v1"}); err != nil {
		t.Fatalf("first AddVehicle error: %v", err)
	}
	if err := store.AddVehicle(&model.VehicleDefinition{ID: "v1"}); err == nil {
		t.Fatalf("expected duplicate AddVehicle to fail")
	}
}

func TestListVehicles(t *testing.T) {
	store := NewStore()
	for i := range 3 {
		id := fmt.Sprintf("v-%d", i)
		if err := store.AddVehicle(&model.VehicleDefinition{ID: id}); err != nil {
			t.Fatalf("AddVehicle error: %v", err)
		}
	}
	if got := len(store.ListVehicles()); got != 3 {
		t.Fatalf("ListVehicles len=%d, want 3", got)
	}
}

func TestUpdateVehiclePositionAndSubscribe(t *testing.T) {
	store := NewStore()
	if err := store.AddVehicle(&model.VehicleDefinition{ID: "v1"}); err != nil {
		t.Fatalf("AddVehicle error: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var got Event
	store.Subscribe(func(e Event) {
		got = e
		wg.Done()
	})

	pos := model.NED{North: 1, East: 2, Down: 3}
	if err := store.UpdateVehiclePosition("v1", pos); err != nil {
		t.Fatalf("UpdateVehiclePosition error: %v", err)
	}

	wg.Wait()
	if got.Type != EventVehicleMoved {
		t.Fatalf("got event type %v, want EventVehicleMoved", got.Type)
	}
	if got.Vehicle.Position != pos {
		t.Fatalf("event position = %#v, want %#v", got.Vehicle.Position, pos)
	}
}

func TestSetAndGetPathStatus(t *testing.T) {
	store := NewStore()
	if err := store.AddVehicle(&model.VehicleDefinition{ID: "v1"}); err != nil {
		t.Fatalf("AddVehicle error: %v", err)
	}

	if _, ok := store.GetPathStatus("v1"); ok {
		t.Fatalf("expected no status before the first tick")
	}

	st := guidance.Status{
		FractionalProgress: 0.5,
		Error:              2,
		PathDirection:      guidance.Vec3{North: 1},
	}
	if err := store.SetPathStatus("v1", st); err != nil {
		t.Fatalf("SetPathStatus error: %v", err)
	}

	got, ok := store.GetPathStatus("v1")
	if !ok || got != st {
		t.Fatalf("GetPathStatus = %#v ok=%v, want %#v", got, ok, st)
	}
}

func TestSetPathStatusUnknownVehicle(t *testing.T) {
	store := NewStore()
	if err := store.SetPathStatus("ghost", guidance.Status{}); err == nil {
		t.Fatalf("expected error for unknown vehicle")
	}
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	store := NewStore()
	if err := store.AddVehicle(&model.VehicleDefinition{ID: "v1"}); err != nil {
		t.Fatalf("AddVehicle error: %v", err)
	}

	calls := 0
	unsubscribe := store.Subscribe(func(Event) { calls++ })

	if err := store.UpdateVehiclePosition("v1", model.NED{North: 1}); err != nil {
		t.Fatalf("UpdateVehiclePosition error: %v", err)
	}
	unsubscribe()
	if err := store.UpdateVehiclePosition("v1", model.NED{North: 2}); err != nil {
		t.Fatalf("UpdateVehiclePosition error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("subscriber called %d times, want 1", calls)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	if err := store.AddVehicle(&model.VehicleDefinition{ID: "v1"}); err != nil {
		t.Fatalf("AddVehicle error: %v", err)
	}

	var wg sync.WaitGroup
	// Concurrent readers/writers
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.GetVehicle("v1")
			_, _ = store.GetPathStatus("v1")
			_ = store.ListVehicles()
		}()
		go func() {
			defer wg.Done()
			_ = store.UpdateVehiclePosition("v1", model.NED{North: float64(i)})
			_ = store.SetPathStatus("v1", guidance.Status{FractionalProgress: float64(i) / 10})
		}()
	}
	wg.Wait()
}
