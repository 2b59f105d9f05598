// Package settle detects when the scroll-driven target pose comes to rest on
// the milestone keyframe.
package settle

import "github.com/ivlev/scrollstage/internal/keyframe"

// State of the detector
type State int

const (
	Idle State = iota
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Signal reports the transitions produced by one Update
type Signal struct {
	Entered bool // zone changed into the milestone zone
	Left    bool // zone changed out of the milestone zone
	Settled bool // one-shot Idle -> Settled transition
}

// Detector is the Idle/Settled state machine for one milestone
type Detector struct {
	zone      int
	milestone keyframe.Pose
	epsilon   float64

	state  State
	inZone bool
}

// NewDetector creates a detector for the milestone zone. The milestone pose is
// the keyframe the target must approach; epsilon bounds each channel distance.
func NewDetector(zone int, milestone keyframe.Pose, epsilon float64) *Detector {
	return &Detector{zone: zone, milestone: milestone, epsilon: epsilon}
}

// State returns the current state
func (d *Detector) State() State {
	return d.state
}

// InZone reports whether the last update was inside the milestone zone
func (d *Detector) InZone() bool {
	return d.inZone
}

// Update feeds the current zone and the interpolated target pose
func (d *Detector) Update(zone int, target keyframe.Pose) Signal {
	var sig Signal

	inZone := zone == d.zone
	switch {
	case inZone && !d.inZone:
		sig.Entered = true
	case !inZone && d.inZone:
		sig.Left = true
	}
	d.inZone = inZone

	if !inZone {
		d.state = Idle
		return sig
	}

	if d.state == Idle && target.Near(d.milestone, d.epsilon) {
		d.state = Settled
		sig.Settled = true
	}
	return sig
}

// Reset forgets zone membership and returns to Idle
func (d *Detector) Reset() {
	d.state = Idle
	d.inZone = false
}
