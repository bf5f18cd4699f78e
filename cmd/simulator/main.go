package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fieldworks/guidance-simulator/internal/follower"
	"github.com/fieldworks/guidance-simulator/internal/logging"
	"github.com/fieldworks/guidance-simulator/internal/observability"
	"github.com/fieldworks/guidance-simulator/kb"
	"github.com/fieldworks/guidance-simulator/planner"
	"github.com/fieldworks/guidance-simulator/scenario"
	"github.com/fieldworks/guidance-simulator/timectrl"
)

// defaultScenario is used when no -scenario file is given: a survey aircraft
// that starts off track, flies a dogleg, and settles into a left orbit.
const defaultScenario = `{
  "vehicles": [
    {
      "id": "uav1",
      "name": "Survey-1",
      "kind": "AIRCRAFT",
      "accept_radius": 5,
      "position": {"north": 0, "east": 30, "down": -100}
    }
  ],
  "missions": {
    "uav1": [
      {"mode": "fly_vector", "start": {"north": 0, "east": 0, "down": -100}, "end": {"north": 600, "east": 0, "down": -100}, "speed": 15},
      {"mode": "fly_vector", "start": {"north": 600, "east": 0, "down": -100}, "end": {"north": 600, "east": 400, "down": -120}, "speed": 15},
      {"mode": "fly_endpoint", "start": {"north": 600, "east": 400, "down": -120}, "end": {"north": 800, "east": 500, "down": -120}, "speed": 15},
      {"mode": "fly_circle_left", "start": {"north": 800, "east": 500, "down": -120}, "end": {"north": 800, "east": 580, "down": -120}, "speed": 15}
    ]
  }
}`

func main() {
	duration := flag.Duration("duration", 120*time.Second, "total simulated duration")
	tick := flag.Duration("tick", 50*time.Millisecond, "control tick interval")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time)")
	scenarioPath := flag.String("scenario", "", "path to a JSON scenario (built-in demo when empty)")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")
	gain := flag.Float64("gain", 0.1, "correction weight per metre of deviation (saturates at 1)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, log := logging.WithRunLogger(context.Background(), log)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewGuidanceCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	s, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}

	store := kb.NewStore()
	missionLegs, err := s.Populate(store)
	if err != nil {
		log.Error(ctx, "failed to populate store", logging.String("error", err.Error()))
		os.Exit(1)
	}
	collector.SetVehicleCount(len(store.ListVehicles()))

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(time.Now().UTC(), *tick, mode)

	missions := make(map[string]*planner.Mission, len(missionLegs))
	for vehicleID, legs := range missionLegs {
		criteria := planner.DefaultCriteria
		if v := store.GetVehicle(vehicleID); v != nil && v.AcceptRadius > 0 {
			criteria.AcceptRadius = v.AcceptRadius
		}
		mission := planner.NewMission(legs, criteria)
		missions[vehicleID] = mission

		runner := follower.NewRunner(follower.Config{
			Store:          store,
			Mission:        mission,
			VehicleID:      vehicleID,
			CorrectionGain: *gain,
			Collector:      collector,
			Logger:         log,
		})
		tc.AddListener(runner.Listener(ctx))

		log.Info(ctx, "mission loaded",
			logging.String("vehicle", vehicleID),
			logging.Int("legs", len(legs)),
		)
	}

	log.Info(ctx, "starting simulation",
		logging.String("duration", duration.String()),
		logging.String("tick", tick.String()),
		logging.Int("vehicles", len(missions)),
	)
	<-tc.Start(*duration)

	for vehicleID, mission := range missions {
		st, _ := store.GetPathStatus(vehicleID)
		log.Info(ctx, "simulation finished",
			logging.String("vehicle", vehicleID),
			logging.Any("mission_complete", mission.Complete()),
			logging.Float64("final_progress", st.FractionalProgress),
			logging.Float64("final_error_metres", st.Error),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Load(strings.NewReader(defaultScenario))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()
	return scenario.Load(f)
}

func serveMetrics(addr string, collector *observability.GuidanceCollector, log logging.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()
	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
