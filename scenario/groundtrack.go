package scenario

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/fieldworks/guidance-simulator/model"
)

// earthRadiusM is the mean Earth radius used for the flat local-frame
// projection of the ground track (metres).
const earthRadiusM = 6371000.0

// GroundTrackConfig controls TLE-based mission generation.
type GroundTrackConfig struct {
	TLE1, TLE2 string

	// Start is the epoch of the first sample.
	Start time.Time
	// Interval is the simulated time between track samples.
	Interval time.Duration
	// Count is the number of samples; Count-1 legs are produced.
	Count int

	// Speed is the cruise speed (m/s) written onto every leg.
	Speed float64
}

// GroundTrack propagates the TLE with SGP4 and converts the subsatellite
// track into a chain of straight vector legs in the local frame anchored at
// the first sample. It is how we get realistic, gently curving missions
// without hand-writing waypoints.
func GroundTrack(cfg GroundTrackConfig) ([]model.PathLeg, error) {
	if cfg.Count < 2 {
		return nil, fmt.Errorf("groundtrack: need at least 2 samples, got %d", cfg.Count)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("groundtrack: interval must be positive")
	}
	if cfg.Speed <= 0 {
		return nil, fmt.Errorf("groundtrack: speed must be positive")
	}

	sat := satellite.TLEToSat(cfg.TLE1, cfg.TLE2, satellite.GravityWGS72)

	points := make([]model.NED, 0, cfg.Count)
	var lat0, lon0 float64
	for i := 0; i < cfg.Count; i++ {
		ts := cfg.Start.Add(time.Duration(i) * cfg.Interval).UTC()
		year, month, day := ts.Date()
		hour, min, sec := ts.Clock()

		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))
		_, _, ll := satellite.ECIToLLA(posECI, gmst)

		if i == 0 {
			lat0, lon0 = ll.Latitude, ll.Longitude
		}
		points = append(points, model.NED{
			North: (ll.Latitude - lat0) * earthRadiusM,
			East:  wrapLongitude(ll.Longitude-lon0) * math.Cos(lat0) * earthRadiusM,
		})
	}

	legs := make([]model.PathLeg, 0, cfg.Count-1)
	for i := 1; i < cfg.Count; i++ {
		legs = append(legs, model.PathLeg{
			Mode:  model.PathModeDriveVector,
			Start: points[i-1],
			End:   points[i],
			Speed: cfg.Speed,
		})
	}
	return legs, nil
}

// wrapLongitude maps a longitude difference into (-pi, pi] so tracks that
// cross the antimeridian do not produce 40000 km legs.
func wrapLongitude(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
