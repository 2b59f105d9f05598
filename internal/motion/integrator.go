// Package motion smooths the live model pose toward the scroll-driven target.
package motion

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollstage/internal/keyframe"
)

// Model is the externally owned 3D model handle the integrator writes to
type Model interface {
	SetPose(p keyframe.Pose)
}

// Ease holds per-channel exponential smoothing factors in (0, 1]
type Ease struct {
	Position float64 `yaml:"position"`
	Rotation float64 `yaml:"rotation"`
	Scale    float64 `yaml:"scale"`
}

// Pointer configures the pointer-driven rotation perturbation
type Pointer struct {
	// Amplitude is the rotation (radians) added at full pointer deflection:
	// X tilts with vertical pointer movement, Y turns with horizontal movement.
	Amplitude mgl64.Vec2 `yaml:"amplitude,flow"`
	// Falloff is the scroll distance, in viewport units, at which the
	// pointer influence has decayed to zero.
	Falloff float64 `yaml:"falloff"`
}

// Config bundles the integrator's tunable parameters
type Config struct {
	Ease    Ease    `yaml:"ease"`
	Pointer Pointer `yaml:"pointer"`
}

// Integrator owns the live pose and eases it toward the interpolated target
type Integrator struct {
	table   keyframe.Table
	cfg     Config
	model   Model
	current keyframe.Pose
	offset  mgl64.Vec3 // smoothed pointer rotation offset
	ticks   uint64
}

// NewIntegrator creates an integrator resting on the first keyframe
func NewIntegrator(table keyframe.Table, cfg Config) *Integrator {
	in := &Integrator{table: table, cfg: cfg}
	in.Reset()
	return in
}

// Bind attaches the model handle; nil unbinds it
func (in *Integrator) Bind(m Model) {
	in.model = m
}

// Bound reports whether a model handle is attached
func (in *Integrator) Bound() bool {
	return in.model != nil
}

// Reset re-seeds the live pose at the first keyframe and drops pointer offset
func (in *Integrator) Reset() {
	if len(in.table) > 0 {
		in.current = in.table[0].Pose
	} else {
		in.current = keyframe.Identity
	}
	in.offset = mgl64.Vec3{}
}

// Current returns the smoothed pose without pointer perturbation
func (in *Integrator) Current() keyframe.Pose {
	return in.current
}

// Output returns the pose written to the model: Current plus pointer offset
func (in *Integrator) Output() keyframe.Pose {
	out := in.current
	out.Rotation = out.Rotation.Add(in.offset)
	return out
}

// Ticks returns how many ticks have been integrated
func (in *Integrator) Ticks() uint64 {
	return in.ticks
}

// Tick advances the live pose one frame toward the target for scroll.
// Without a bound model the tick is a no-op.
func (in *Integrator) Tick(scroll, viewportUnit float64, pointer mgl64.Vec2) {
	if in.model == nil {
		return
	}

	target := keyframe.Interpolate(in.table, scroll, viewportUnit)
	e := in.cfg.Ease

	in.current.Position = approach(in.current.Position, target.Position, e.Position)
	in.current.Rotation = approach(in.current.Rotation, target.Rotation, e.Rotation)
	in.current.Scale += (target.Scale - in.current.Scale) * e.Scale

	influence := Influence(keyframe.SectionFloat(scroll, viewportUnit), in.cfg.Pointer.Falloff)
	amp := in.cfg.Pointer.Amplitude
	desired := mgl64.Vec3{-pointer.Y() * amp.X(), pointer.X() * amp.Y(), 0}.Mul(influence)
	in.offset = approach(in.offset, desired, e.Rotation)

	in.ticks++
	in.model.SetPose(in.Output())
}

// Influence returns the pointer weight at a section position: 1 at the top of
// the page, falling linearly to 0 at falloff. A non-positive falloff disables it.
func Influence(section, falloff float64) float64 {
	if falloff <= 0 {
		return 0
	}
	return mgl64.Clamp(1-section/falloff, 0, 1)
}

func approach(cur, target mgl64.Vec3, f float64) mgl64.Vec3 {
	return cur.Add(target.Sub(cur).Mul(f))
}
