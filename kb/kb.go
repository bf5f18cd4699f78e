package kb

import (
	"fmt"
	"sync"

	"github.com/fieldworks/guidance-simulator/guidance"
	"github.com/fieldworks/guidance-simulator/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventVehicleMoved EventType = iota
	EventPathStatusUpdated
)

// Event is emitted to subscribers when guidance state changes.
type Event struct {
	Type    EventType
	Vehicle model.VehicleDefinition
	Status  guidance.Status
}

// Store is an in-memory, thread-safe object bus for vehicles and their
// latest guidance status. It is the boundary between the estimation side
// (which writes positions) and the control side (which writes statuses).
type Store struct {
	mu sync.RWMutex

	vehicles map[string]*model.VehicleDefinition
	statuses map[string]guidance.Status

	subs []func(Event)
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		vehicles: make(map[string]*model.VehicleDefinition),
		statuses: make(map[string]guidance.Status),
	}
}

// AddVehicle adds a new vehicle. It returns an error if the ID already exists.
func (s *Store) AddVehicle(v *model.VehicleDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vehicles[v.ID]; exists {
		return fmt.Errorf("vehicle with ID %q already exists", v.ID)
	}
	// store pointer so the follower can update pose in-place
	s.vehicles[v.ID] = v
	return nil
}

// GetVehicle returns the vehicle with the given ID, or nil if not found.
func (s *Store) GetVehicle(id string) *model.VehicleDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vehicles[id]
}

// ListVehicles returns a snapshot slice of all vehicles.
func (s *Store) ListVehicles() []*model.VehicleDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.VehicleDefinition, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		res = append(res, v)
	}
	return res
}

// UpdateVehiclePosition updates a vehicle's pose and notifies subscribers.
func (s *Store) UpdateVehiclePosition(id string, pos model.NED) error {
	s.mu.Lock()
	v, ok := s.vehicles[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("vehicle with ID %q not found", id)
	}
	v.Position = pos
	event := Event{
		Type:    EventVehicleMoved,
		Vehicle: *v, // copy for safety
	}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// SetPathStatus records the latest guidance status for a vehicle and
// notifies subscribers. The stored value is fully overwritten each tick.
func (s *Store) SetPathStatus(id string, st guidance.Status) error {
	s.mu.Lock()
	v, ok := s.vehicles[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("vehicle with ID %q not found", id)
	}
	s.statuses[id] = st
	event := Event{
		Type:    EventPathStatusUpdated,
		Vehicle: *v,
		Status:  st,
	}
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// GetPathStatus returns the latest guidance status for a vehicle. The bool
// reports whether a status has been published yet.
func (s *Store) GetPathStatus(id string) (guidance.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[id]
	return st, ok
}

// Subscribe registers a callback for store events. It returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
		idx = -1
	}
}
