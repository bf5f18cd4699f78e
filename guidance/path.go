package guidance

import (
	"math"

	"github.com/fieldworks/guidance-simulator/model"
)

// DegeneracyThreshold is the magnitude below which a path, radius, or
// deviation is treated as zero and the fixed fallback outputs apply.
// Tunable per vehicle; the solvers never divide by anything smaller.
const DegeneracyThreshold = 1e-6

// Status describes where the vehicle stands relative to the commanded leg.
// It is recomputed from scratch on every call; nothing carries over between
// ticks.
type Status struct {
	// FractionalProgress is nominally in [0,1]. Endpoint and degenerate
	// cases report exactly 1; callers must not assume clamping for every
	// mode.
	FractionalProgress float64

	// Error is the distance to the end point (endpoint mode) or the
	// perpendicular/radial deviation magnitude (vector/circle modes).
	// Never negative.
	Error float64

	// PathDirection is the unit direction of travel along the leg at the
	// current position, or a fixed fallback in degenerate cases.
	PathDirection Vec3

	// CorrectionDirection is the unit direction that reduces Error. Zero in
	// endpoint mode, where PathDirection already points at the target.
	CorrectionDirection Vec3
}

// Progress computes progress along a path leg and deviation from it. It is a
// pure function: any finite input yields a fully populated Status, never an
// error. Unknown modes fall back to horizontal endpoint guidance so that a
// bad mode code still steers toward the target instead of halting.
func Progress(start, end, current Vec3, mode model.PathMode) Status {
	switch mode {
	case model.PathModeFlyVector:
		return pathVector(start, end, current, true)
	case model.PathModeDriveVector:
		return pathVector(start, end, current, false)
	case model.PathModeFlyCircleRight, model.PathModeDriveCircleRight:
		return pathCircle(start, end, current, true)
	case model.PathModeFlyCircleLeft, model.PathModeDriveCircleLeft:
		return pathCircle(start, end, current, false)
	case model.PathModeFlyEndpoint:
		return pathEndpoint(start, end, current, true)
	case model.PathModeDriveEndpoint:
		return pathEndpoint(start, end, current, false)
	default:
		// Fail-safe for unknown mode codes.
		return pathEndpoint(start, end, current, false)
	}
}

// pathEndpoint computes progress toward a single target point. Deviation
// equals remaining distance; there is no separate correction axis.
func pathEndpoint(start, end, current Vec3, mode3D bool) Status {
	path := end.Sub(start)
	diff := end.Sub(current)
	if !mode3D {
		path.Down = 0
		diff.Down = 0
	}

	distDiff := diff.Norm()
	distPath := path.Norm()

	if distDiff < DegeneracyThreshold {
		// Effectively at the end point: direction is immaterial but must
		// stay a defined unit vector.
		return Status{
			FractionalProgress: 1,
			PathDirection:      Vec3{Down: 1},
		}
	}

	var st Status
	if distPath+1 > distDiff {
		// The +1 keeps progress stable for very short paths.
		st.FractionalProgress = 1 - distDiff/(1+distPath)
	} else {
		// Saturate at zero so overshoot never reports negative progress.
		st.FractionalProgress = 0
	}
	st.Error = distDiff
	st.PathDirection = diff.Scale(1 / distDiff)
	return st
}

// pathVector computes progress along a straight segment and the
// perpendicular correction back onto it.
func pathVector(start, end, current Vec3, mode3D bool) Status {
	path := end.Sub(start)
	diff := current.Sub(start)
	if !mode3D {
		path.Down = 0
		diff.Down = 0
	}

	dot := path.Dot(diff)
	distPath := path.Norm()

	var st Status
	if distPath > DegeneracyThreshold {
		st.PathDirection = path.Scale(1 / distPath)
		st.FractionalProgress = dot / (distPath * distPath)
	} else {
		// Too short to define a direction; treat the leg as complete.
		st.FractionalProgress = 1
	}

	// Clamp after the division so overshoot past either end is detected and
	// then pinned, keeping the track point on the bounded segment.
	st.FractionalProgress = clamp(st.FractionalProgress, 0, 1)

	trackPoint := start.Add(path.Scale(st.FractionalProgress))
	st.CorrectionDirection = trackPoint.Sub(current)
	st.Error = st.CorrectionDirection.Norm()

	if st.Error > DegeneracyThreshold {
		st.CorrectionDirection = st.CorrectionDirection.Scale(1 / st.Error)
	} else {
		// On track: downstream consumers still need a defined unit vector.
		st.CorrectionDirection = Vec3{Down: 1}
	}
	return st
}

// pathCircle computes angular progress around an arc centred on end and the
// radial correction onto it. The solver is inherently horizontal; the down
// components of its outputs are always zero.
func pathCircle(start, end, current Vec3, clockwise bool) Status {
	radiusNorth := end.North - start.North
	radiusEast := end.East - start.East

	diffNorth := current.North - end.North
	diffEast := current.East - end.East

	radius := math.Hypot(radiusNorth, radiusEast)
	cradius := math.Hypot(diffNorth, diffEast)

	if cradius < DegeneracyThreshold {
		// At the centre the bearing is undefined; hand back fixed unit
		// vectors so the caller still gets something flyable.
		return Status{
			FractionalProgress:  1,
			Error:               radius,
			CorrectionDirection: Vec3{East: 1},
			PathDirection:       Vec3{North: 1},
		}
	}

	// Tangential travel direction: the horizontal normal to the current
	// radius, rotated per the winding sense.
	var st Status
	if clockwise {
		st.PathDirection = Vec3{North: -diffEast / cradius, East: diffNorth / cradius}
	} else {
		st.PathDirection = Vec3{North: diffEast / cradius, East: -diffNorth / cradius}
	}

	aDiff := math.Atan2(diffNorth, diffEast)
	aRadius := math.Atan2(radiusNorth, radiusEast)
	if aDiff < 0 {
		aDiff += 2 * math.Pi
	}
	if aRadius < 0 {
		aRadius += 2 * math.Pi
	}

	// Offset the zero-progress point to the start radius and wrap across
	// the 0/2pi boundary.
	progress := (aDiff - aRadius + math.Pi) / (2 * math.Pi)
	if progress < 0 {
		progress += 1
	} else if progress >= 1 {
		progress -= 1
	}
	if clockwise {
		// Clockwise traversal consumes angle in the opposite sense.
		progress = 1 - progress
	}
	st.FractionalProgress = progress

	// Positive when inside the commanded radius: correct outward. Negative
	// when outside: correct inward. Only the sign picks the direction; the
	// reported error is the magnitude.
	signedError := radius - cradius
	dir := 1.0
	if signedError <= 0 {
		dir = -1
	}
	st.CorrectionDirection = Vec3{North: dir * diffNorth / cradius, East: dir * diffEast / cradius}
	st.Error = math.Abs(signedError)
	return st
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
