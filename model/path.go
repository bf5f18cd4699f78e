package model

import "strings"

// PathMode selects the geometric shape of a commanded path leg and whether
// the down axis participates in distance and progress computation. "Fly"
// variants are 3D; "Drive" variants project onto the horizontal plane.
type PathMode int

const (
	// PathModeDriveEndpoint heads for the end point in the horizontal plane.
	// It is the zero value on purpose: it is also the fail-safe the
	// dispatcher falls back to for unknown mode codes.
	PathModeDriveEndpoint PathMode = iota
	// PathModeFlyEndpoint heads straight for the end point, altitude included.
	PathModeFlyEndpoint
	// PathModeFlyVector follows the straight segment from start to end in 3D.
	PathModeFlyVector
	// PathModeDriveVector follows the segment projected onto the horizontal plane.
	PathModeDriveVector
	// PathModeFlyCircleLeft orbits the end point counter-clockwise.
	PathModeFlyCircleLeft
	// PathModeFlyCircleRight orbits the end point clockwise.
	PathModeFlyCircleRight
	// PathModeDriveCircleLeft orbits counter-clockwise, horizontal only.
	PathModeDriveCircleLeft
	// PathModeDriveCircleRight orbits clockwise, horizontal only.
	PathModeDriveCircleRight
)

// String returns the scenario-file spelling of the mode.
func (m PathMode) String() string {
	switch m {
	case PathModeFlyEndpoint:
		return "fly_endpoint"
	case PathModeDriveEndpoint:
		return "drive_endpoint"
	case PathModeFlyVector:
		return "fly_vector"
	case PathModeDriveVector:
		return "drive_vector"
	case PathModeFlyCircleLeft:
		return "fly_circle_left"
	case PathModeFlyCircleRight:
		return "fly_circle_right"
	case PathModeDriveCircleLeft:
		return "drive_circle_left"
	case PathModeDriveCircleRight:
		return "drive_circle_right"
	}
	return "drive_endpoint"
}

// ParsePathMode maps a scenario-file string to a PathMode. Unrecognised
// spellings fall back to drive_endpoint, mirroring the kernel's fail-safe
// dispatch for unknown mode codes.
func ParsePathMode(s string) PathMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fly_endpoint":
		return PathModeFlyEndpoint
	case "drive_endpoint":
		return PathModeDriveEndpoint
	case "fly_vector":
		return PathModeFlyVector
	case "drive_vector":
		return PathModeDriveVector
	case "fly_circle_left":
		return PathModeFlyCircleLeft
	case "fly_circle_right":
		return PathModeFlyCircleRight
	case "drive_circle_left":
		return PathModeDriveCircleLeft
	case "drive_circle_right":
		return PathModeDriveCircleRight
	}
	return PathModeDriveEndpoint
}

// PathLeg is one commanded segment of a mission. For vector and endpoint
// legs Start and End are the segment ends; for circle legs End is the orbit
// centre and Start fixes the radius and the zero-progress bearing.
type PathLeg struct {
	Mode  PathMode
	Start NED
	End   NED

	// Speed is the cruise speed (m/s) the follower commands along this leg.
	Speed float64
}
