// Package timectrl drives the simulated control-loop clock. The follower
// registers a listener and gets called once per tick with the simulation
// time; in accelerated mode ticks fire as fast as the listeners return.
package timectrl

import (
	"sync"
	"time"
)

// Clock is a read-only view of simulation time, letting components depend on
// an abstraction rather than the concrete controller.
type Clock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime paces ticks against wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the listeners can run, still
	// stepping simulation time by Tick.
	Accelerated
)

// TimeController drives simulation time and notifies registered listeners.
// Listeners run on the controller's goroutine, one tick at a time, so a
// guidance loop registered here never sees overlapping ticks.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements Clock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime forces the current simulation time, e.g. to replay a recorded run.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick. Listeners must be
// registered before Start.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller for the specified duration in a separate
// goroutine and returns a channel that is closed when it finishes. A zero or
// negative duration runs a single tick.
func (tc *TimeController) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.mu.Lock()
		simTime := tc.StartTime
		tc.currentTime = simTime
		mode := tc.Mode
		tick := tc.Tick
		tc.mu.Unlock()

		var ticker *time.Ticker
		if mode == RealTime {
			ticker = time.NewTicker(tick)
			defer ticker.Stop()
		}

		for elapsed := time.Duration(0); elapsed < duration || elapsed == 0; {
			if ticker != nil {
				<-ticker.C
			}
			simTime = simTime.Add(tick)
			elapsed += tick

			tc.mu.Lock()
			tc.currentTime = simTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(simTime)
			}
		}
	}()
	return done
}
