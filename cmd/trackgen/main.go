// Command trackgen turns a TLE into a guidance scenario: it samples the
// subsatellite ground track and emits a chain of vector legs a vehicle can
// follow with cmd/simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fieldworks/guidance-simulator/internal/logging"
	"github.com/fieldworks/guidance-simulator/scenario"
)

func main() {
	tlePath := flag.String("tle", "", "path to a TLE file (2 or 3 lines)")
	startRaw := flag.String("start", "", "epoch of the first sample (RFC3339, default now)")
	interval := flag.Duration("interval", 30*time.Second, "simulated time between track samples")
	count := flag.Int("count", 20, "number of track samples")
	speed := flag.Float64("speed", 15, "cruise speed written onto every leg (m/s)")
	vehicleID := flag.String("vehicle", "uav1", "vehicle ID for the generated scenario")
	outPath := flag.String("out", "", "output file (stdout when empty)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if *tlePath == "" {
		log.Error(ctx, "missing required -tle flag")
		os.Exit(2)
	}

	line1, line2, err := readTLE(*tlePath)
	if err != nil {
		log.Error(ctx, "failed to read TLE", logging.String("error", err.Error()))
		os.Exit(1)
	}

	start := time.Now().UTC()
	if *startRaw != "" {
		start, err = time.Parse(time.RFC3339, *startRaw)
		if err != nil {
			log.Error(ctx, "invalid -start", logging.String("error", err.Error()))
			os.Exit(2)
		}
	}

	legs, err := scenario.GroundTrack(scenario.GroundTrackConfig{
		TLE1:     line1,
		TLE2:     line2,
		Start:    start,
		Interval: *interval,
		Count:    *count,
		Speed:    *speed,
	})
	if err != nil {
		log.Error(ctx, "ground track generation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	s := scenario.FromMission(scenario.VehicleSpec{
		ID:           *vehicleID,
		Name:         "Track-Follower",
		Kind:         "AIRCRAFT",
		AcceptRadius: 5,
		Position:     scenario.NEDSpec{},
	}, legs)

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Error(ctx, "failed to create output", logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := s.Write(out); err != nil {
		log.Error(ctx, "failed to write scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "scenario generated",
		logging.Int("legs", len(legs)),
		logging.String("vehicle", *vehicleID),
	)
}

// readTLE accepts standard 2-line elements, optionally preceded by a name
// line, and ignores blank lines.
func readTLE(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read %q: %w", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	switch len(lines) {
	case 2:
		return lines[0], lines[1], nil
	case 3:
		return lines[1], lines[2], nil
	default:
		return "", "", fmt.Errorf("TLE file %q has %d non-empty lines, want 2 or 3", path, len(lines))
	}
}
