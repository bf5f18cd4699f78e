package guidance

import (
	"math"
	"testing"
)

func TestDesiredVelocityOnTrackFollowsPath(t *testing.T) {
	st := Status{PathDirection: Vec3{North: 1}, CorrectionDirection: Vec3{Down: 1}}

	v := DesiredVelocity(st, 12, 0.1)
	if !vecApprox(v, Vec3{North: 12}) {
		t.Fatalf("DesiredVelocity = %#v, want 12 m/s along the path", v)
	}
}

func TestDesiredVelocityFarOffTrackCorrectsFully(t *testing.T) {
	st := Status{
		Error:               50,
		PathDirection:       Vec3{North: 1},
		CorrectionDirection: Vec3{East: -1},
	}

	// Error*gain saturates at 1: all correction, no along-path component.
	v := DesiredVelocity(st, 10, 0.1)
	if !vecApprox(v, Vec3{East: -10}) {
		t.Fatalf("DesiredVelocity = %#v, want full correction", v)
	}
}

func TestDesiredVelocityBlendsAndKeepsSpeed(t *testing.T) {
	st := Status{
		Error:               2.5, // weight 0.25 with gain 0.1
		PathDirection:       Vec3{North: 1},
		CorrectionDirection: Vec3{East: 1},
	}

	v := DesiredVelocity(st, 8, 0.1)
	if got := v.Norm(); math.Abs(got-8) > 1e-9 {
		t.Fatalf("|DesiredVelocity| = %v, want commanded speed 8", got)
	}
	if v.North <= 0 || v.East <= 0 || v.North <= v.East {
		t.Fatalf("DesiredVelocity = %#v, want mostly along-path with some correction", v)
	}
}

func TestDesiredVelocityDegenerateBlendFallsBackToPath(t *testing.T) {
	// Opposed unit vectors at weight 0.5 cancel exactly.
	st := Status{
		Error:               5, // weight 0.5 with gain 0.1
		PathDirection:       Vec3{North: 1},
		CorrectionDirection: Vec3{North: -1},
	}

	v := DesiredVelocity(st, 10, 0.1)
	if !vecApprox(v, Vec3{North: 10}) {
		t.Fatalf("DesiredVelocity = %#v, want path fallback", v)
	}
}

func TestDesiredVelocityZeroSpeed(t *testing.T) {
	st := Status{PathDirection: Vec3{North: 1}}
	if v := DesiredVelocity(st, 0, 0.1); v != (Vec3{}) {
		t.Fatalf("DesiredVelocity = %#v, want zero at zero speed", v)
	}
}
