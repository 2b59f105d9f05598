package keyframe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// maxSection keeps floor(f) representable as an int
const maxSection = float64(math.MaxInt32)

// Section splits a scroll coordinate into a zone index and a phase in [0, 1].
// A non-positive or NaN viewport unit is treated as 1.
func Section(scroll, viewportUnit float64) (zone int, phase float64) {
	f := SectionFloat(scroll, viewportUnit)
	idx := math.Floor(f)
	return int(idx), mgl64.Clamp(f-idx, 0, 1)
}

// SectionFloat returns scroll measured in viewport units, clamped to >= 0
func SectionFloat(scroll, viewportUnit float64) float64 {
	if !(viewportUnit > 0) {
		viewportUnit = 1
	}
	f := scroll / viewportUnit
	if !(f > 0) {
		// Also catches NaN
		return 0
	}
	if f > maxSection {
		return maxSection
	}
	return f
}

// Zone returns floor(scroll / viewportUnit)
func Zone(scroll, viewportUnit float64) int {
	z, _ := Section(scroll, viewportUnit)
	return z
}

// Interpolate calculates the target pose for a scroll coordinate.
// Past the last keyframe the last pose is returned exactly.
func Interpolate(table Table, scroll, viewportUnit float64) Pose {
	if len(table) == 0 {
		return Identity
	}

	idx, t := Section(scroll, viewportUnit)
	if idx >= len(table)-1 {
		return table.Last().Pose
	}

	from := table.At(idx).Pose
	to := table.At(idx + 1).Pose
	return from.Lerp(to, t)
}
