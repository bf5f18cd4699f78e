package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GuidanceCollector bundles Prometheus metrics for the guidance control loop
// and provides a ready-to-use /metrics handler.
type GuidanceCollector struct {
	gatherer prometheus.Gatherer

	Ticks        *prometheus.CounterVec
	TickDuration prometheus.Histogram
	PathError    *prometheus.GaugeVec
	PathProgress *prometheus.GaugeVec
	LegsDone     *prometheus.CounterVec

	ScenarioVehicles prometheus.Gauge
}

// NewGuidanceCollector registers guidance metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewGuidanceCollector(reg prometheus.Registerer) (*GuidanceCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guidance_ticks_total",
		Help: "Total number of guidance control ticks, labeled by vehicle and path mode.",
	}, []string{"vehicle", "mode"})
	ticks, err := registerCounterVec(reg, ticks, "guidance_ticks_total")
	if err != nil {
		return nil, err
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "guidance_tick_duration_seconds",
		Help:    "Wall time spent inside one guidance tick.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
	tickDuration, err = registerHistogram(reg, tickDuration, "guidance_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	pathError := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "guidance_path_error_metres",
		Help: "Latest deviation from the commanded path per vehicle.",
	}, []string{"vehicle"})
	pathError, err = registerGaugeVec(reg, pathError, "guidance_path_error_metres")
	if err != nil {
		return nil, err
	}

	pathProgress := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "guidance_path_progress_ratio",
		Help: "Latest fractional progress along the active leg per vehicle.",
	}, []string{"vehicle"})
	pathProgress, err = registerGaugeVec(reg, pathProgress, "guidance_path_progress_ratio")
	if err != nil {
		return nil, err
	}

	legsDone := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guidance_legs_completed_total",
		Help: "Cumulative number of mission legs the planner marked complete.",
	}, []string{"vehicle"})
	legsDone, err = registerCounterVec(reg, legsDone, "guidance_legs_completed_total")
	if err != nil {
		return nil, err
	}

	vehicles, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_vehicles",
		Help: "Current number of vehicles in the store.",
	}), "scenario_vehicles")
	if err != nil {
		return nil, err
	}

	return &GuidanceCollector{
		gatherer:         gatherer,
		Ticks:            ticks,
		TickDuration:     tickDuration,
		PathError:        pathError,
		PathProgress:     pathProgress,
		LegsDone:         legsDone,
		ScenarioVehicles: vehicles,
	}, nil
}

// ObserveTick records one control tick for a vehicle.
func (c *GuidanceCollector) ObserveTick(vehicle, mode string, seconds, pathError, progress float64) {
	if c == nil {
		return
	}
	if c.Ticks != nil {
		c.Ticks.WithLabelValues(vehicle, mode).Inc()
	}
	if c.TickDuration != nil {
		c.TickDuration.Observe(seconds)
	}
	if c.PathError != nil {
		c.PathError.WithLabelValues(vehicle).Set(pathError)
	}
	if c.PathProgress != nil {
		c.PathProgress.WithLabelValues(vehicle).Set(progress)
	}
}

// ObserveLegComplete records a completed mission leg.
func (c *GuidanceCollector) ObserveLegComplete(vehicle string) {
	if c == nil || c.LegsDone == nil {
		return
	}
	c.LegsDone.WithLabelValues(vehicle).Inc()
}

// SetVehicleCount drives the scenario gauge from the store.
func (c *GuidanceCollector) SetVehicleCount(n int) {
	if c == nil || c.ScenarioVehicles == nil {
		return
	}
	c.ScenarioVehicles.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *GuidanceCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
