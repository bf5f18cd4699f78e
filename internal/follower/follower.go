// Package follower runs the guidance control loop: once per tick it reads
// the vehicle's estimated position, computes path progress and deviation,
// publishes the status, and steps the simulated vehicle along the commanded
// velocity.
package follower

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fieldworks/guidance-simulator/guidance"
	"github.com/fieldworks/guidance-simulator/internal/logging"
	"github.com/fieldworks/guidance-simulator/internal/observability"
	"github.com/fieldworks/guidance-simulator/kb"
	"github.com/fieldworks/guidance-simulator/planner"
)

// Config wires a Runner. Store, Mission, and VehicleID are required;
// Collector and Logger may be nil.
type Config struct {
	Store     *kb.Store
	Mission   *planner.Mission
	VehicleID string

	// CorrectionGain scales how aggressively deviation is steered out; see
	// guidance.DesiredVelocity.
	CorrectionGain float64

	Collector *observability.GuidanceCollector
	Logger    logging.Logger
}

// Runner drives one vehicle through its mission. It is single-threaded by
// construction: OnTick is meant to be invoked from a timectrl listener, which
// serializes ticks.
type Runner struct {
	store     *kb.Store
	mission   *planner.Mission
	vehicleID string
	gain      float64

	collector *observability.GuidanceCollector
	log       logging.Logger
	tracer    trace.Tracer

	lastTick     time.Time
	doneReported bool
}

// NewRunner constructs a Runner from the config.
func NewRunner(cfg Config) *Runner {
	log := cfg.Logger
	if log == nil {
		log = logging.Noop()
	}
	gain := cfg.CorrectionGain
	if gain <= 0 {
		gain = 0.1
	}
	return &Runner{
		store:     cfg.Store,
		mission:   cfg.Mission,
		vehicleID: cfg.VehicleID,
		gain:      gain,
		collector: cfg.Collector,
		log:       log.With(logging.String("vehicle", cfg.VehicleID)),
		tracer:    otel.Tracer("guidance-simulator/follower"),
	}
}

// Listener adapts the Runner to a timectrl tick callback bound to ctx.
func (r *Runner) Listener(ctx context.Context) func(time.Time) {
	return func(simTime time.Time) {
		r.OnTick(ctx, simTime)
	}
}

// OnTick runs one control tick at the given simulation time. The first tick
// establishes the time base and does not move the vehicle.
func (r *Runner) OnTick(ctx context.Context, simTime time.Time) {
	var dt time.Duration
	if !r.lastTick.IsZero() {
		dt = simTime.Sub(r.lastTick)
	}
	r.lastTick = simTime

	vehicle := r.store.GetVehicle(r.vehicleID)
	if vehicle == nil {
		r.log.Warn(ctx, "vehicle missing from store; skipping tick")
		return
	}

	leg, legIndex, ok := r.mission.ActiveLeg()
	if !ok {
		if !r.doneReported {
			r.doneReported = true
			r.log.Info(ctx, "mission complete", logging.Int("legs", r.mission.Len()))
		}
		return
	}

	started := time.Now()
	ctx, span := r.tracer.Start(ctx, "guidance.tick",
		trace.WithAttributes(
			attribute.String("vehicle.id", r.vehicleID),
			attribute.String("path.mode", leg.Mode.String()),
			attribute.Int("mission.leg", legIndex),
		),
	)
	defer span.End()

	st := guidance.Progress(
		guidance.FromNED(leg.Start),
		guidance.FromNED(leg.End),
		guidance.FromNED(vehicle.Position),
		leg.Mode,
	)
	span.SetAttributes(
		attribute.Float64("path.progress", st.FractionalProgress),
		attribute.Float64("path.error_metres", st.Error),
	)

	if err := r.store.SetPathStatus(r.vehicleID, st); err != nil {
		r.log.Warn(ctx, "failed to publish path status", logging.String("error", err.Error()))
	}

	velocity := guidance.DesiredVelocity(st, leg.Speed, r.gain)
	if dt > 0 {
		next := StepPosition(vehicle.Position, velocity, dt)
		if err := r.store.UpdateVehiclePosition(r.vehicleID, next); err != nil {
			r.log.Warn(ctx, "failed to update vehicle position", logging.String("error", err.Error()))
		}
	}

	if r.mission.Observe(st) {
		r.collector.ObserveLegComplete(r.vehicleID)
		r.log.Info(ctx, "leg complete",
			logging.Int("leg", legIndex),
			logging.String("mode", leg.Mode.String()),
			logging.Float64("error_metres", st.Error),
		)
	}

	r.collector.ObserveTick(
		r.vehicleID,
		leg.Mode.String(),
		time.Since(started).Seconds(),
		st.Error,
		st.FractionalProgress,
	)
	r.log.Debug(ctx, "tick",
		logging.Int("leg", legIndex),
		logging.Float64("progress", st.FractionalProgress),
		logging.Float64("error_metres", st.Error),
	)
}
