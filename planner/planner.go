// Package planner sequences mission legs. The guidance kernel reports
// progress and deviation but never decides when a leg is done; that decision
// lives here.
package planner

import (
	"sync"

	"github.com/fieldworks/guidance-simulator/guidance"
	"github.com/fieldworks/guidance-simulator/model"
)

// Criteria controls when the planner considers the active leg complete.
type Criteria struct {
	// MinProgress is the fractional progress at or above which a vector or
	// circle leg counts as flown out.
	MinProgress float64

	// AcceptRadius is the maximum remaining distance (metres) for an
	// endpoint leg to count as reached.
	AcceptRadius float64
}

// DefaultCriteria matches a small UAV: a leg is done at 99.9% progress, an
// endpoint once within five metres.
var DefaultCriteria = Criteria{
	MinProgress:  0.999,
	AcceptRadius: 5,
}

// Mission is an ordered list of path legs with a cursor over the active one.
type Mission struct {
	mu sync.Mutex

	legs     []model.PathLeg
	index    int
	criteria Criteria
}

// NewMission builds a mission over the given legs. A nil or empty leg list
// yields a mission that is already complete.
func NewMission(legs []model.PathLeg, criteria Criteria) *Mission {
	copied := make([]model.PathLeg, len(legs))
	copy(copied, legs)
	return &Mission{legs: copied, criteria: criteria}
}

// ActiveLeg returns the current leg and its index. The bool is false once
// the mission is complete.
func (m *Mission) ActiveLeg() (model.PathLeg, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index >= len(m.legs) {
		return model.PathLeg{}, m.index, false
	}
	return m.legs[m.index], m.index, true
}

// Complete reports whether every leg has been flown out.
func (m *Mission) Complete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index >= len(m.legs)
}

// Len returns the total number of legs.
func (m *Mission) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.legs)
}

// Observe feeds the latest guidance status for the active leg into the
// planner and advances the cursor when the completion criteria are met. It
// returns true when the active leg was completed by this observation.
func (m *Mission) Observe(st guidance.Status) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index >= len(m.legs) {
		return false
	}
	if !m.legDone(m.legs[m.index].Mode, st) {
		return false
	}
	m.index++
	return true
}

func (m *Mission) legDone(mode model.PathMode, st guidance.Status) bool {
	switch mode {
	case model.PathModeFlyEndpoint, model.PathModeDriveEndpoint:
		// Endpoint progress approaches 1 asymptotically; the remaining
		// distance is the meaningful completion signal.
		return st.Error <= m.criteria.AcceptRadius
	case model.PathModeFlyCircleLeft, model.PathModeFlyCircleRight,
		model.PathModeDriveCircleLeft, model.PathModeDriveCircleRight:
		// An orbit never completes on its own; it holds until the mission
		// is rewritten. Matches loiter behaviour in the flight stack.
		return false
	default:
		return st.FractionalProgress >= m.criteria.MinProgress
	}
}
