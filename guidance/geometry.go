package guidance

import (
	"math"

	"github.com/fieldworks/guidance-simulator/model"
)

// Vec3 is a vector in the local north/east/down tangent frame (metres).
type Vec3 struct {
	North, East, Down float64
}

// FromNED converts a stored model position into a kernel vector.
func FromNED(p model.NED) Vec3 {
	return Vec3{North: p.North, East: p.East, Down: p.Down}
}

// NED converts back to the storage representation.
func (v Vec3) NED() model.NED {
	return model.NED{North: v.North, East: v.East, Down: v.Down}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{North: v.North + other.North, East: v.East + other.East, Down: v.Down + other.Down}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{North: v.North - other.North, East: v.East - other.East, Down: v.Down - other.Down}
}

// Scale returns v multiplied by k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{North: v.North * k, East: v.East * k, Down: v.Down * k}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.North*other.North + v.East*other.East + v.Down*other.Down
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.North*v.North + v.East*v.East + v.Down*v.Down)
}

// Horizontal returns the vector with its down component zeroed.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{North: v.North, East: v.East}
}
