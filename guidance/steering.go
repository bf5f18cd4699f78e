package guidance

// DesiredVelocity synthesizes a velocity command from a path status by
// blending travel along the path with correction back toward it. The
// correction weight grows with the deviation, saturating at full correction
// once Error*gain reaches 1, so a vehicle far off track flies straight back
// to the path and an on-track vehicle flies straight along it.
func DesiredVelocity(st Status, speed, gain float64) Vec3 {
	if speed <= 0 {
		return Vec3{}
	}

	weight := st.Error * gain
	if weight > 1 {
		weight = 1
	} else if weight < 0 {
		weight = 0
	}

	blended := st.PathDirection.Scale(1 - weight).Add(st.CorrectionDirection.Scale(weight))
	norm := blended.Norm()
	if norm < DegeneracyThreshold {
		// Opposed unit vectors can cancel; fall back to following the path.
		return st.PathDirection.Scale(speed)
	}
	return blended.Scale(speed / norm)
}
