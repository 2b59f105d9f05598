package keyframe

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose represents placement of the displayed model
type Pose struct {
	Position mgl64.Vec3 `yaml:"position,flow"` // World-space position
	Rotation mgl64.Vec3 `yaml:"rotation,flow"` // Euler angles in radians
	Scale    float64    `yaml:"scale"`         // Uniform scale (1.0 = natural size)
}

// Identity is the pose returned for an empty table
var Identity = Pose{Scale: 1.0}

// Keyframe represents a reference pose tied to one scroll zone
type Keyframe struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"` // Description of the section (hero, about, ...)
	Pose  Pose   `yaml:",inline"`
}

// Table is an ordered keyframe list; zone i rests on Table[i]
type Table []Keyframe

// Validate checks that the table is non-empty and indices are contiguous 0..N-1
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("keyframe table is empty")
	}
	for i, kf := range t {
		if kf.Index != i {
			return fmt.Errorf("keyframe %q has index %d, expected %d", kf.Name, kf.Index, i)
		}
	}
	return nil
}

// Last returns the final keyframe, or a zero keyframe with the identity pose
func (t Table) Last() Keyframe {
	if len(t) == 0 {
		return Keyframe{Pose: Identity}
	}
	return t[len(t)-1]
}

// At returns keyframe i, clamping out-of-range indices to the last keyframe
func (t Table) At(i int) Keyframe {
	if i < 0 && len(t) > 0 {
		return t[0]
	}
	if i >= len(t) {
		return t.Last()
	}
	return t[i]
}

// Lerp interpolates every channel of p toward to independently
func (p Pose) Lerp(to Pose, t float64) Pose {
	return Pose{
		Position: lerpVec(p.Position, to.Position, t),
		Rotation: lerpVec(p.Rotation, to.Rotation, t),
		Scale:    lerp(p.Scale, to.Scale, t),
	}
}

// Near reports whether position and rotation are each within eps (Euclidean)
// and scale differs by less than eps
func (p Pose) Near(other Pose, eps float64) bool {
	if p.Position.Sub(other.Position).Len() >= eps {
		return false
	}
	if p.Rotation.Sub(other.Rotation).Len() >= eps {
		return false
	}
	return abs(p.Scale-other.Scale) < eps
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
