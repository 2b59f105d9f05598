package director

import "time"

// Script represents a recorded or generated scroll session
type Script struct {
	Version      string           `yaml:"version"`
	Name         string           `yaml:"name"`
	Duration     float64          `yaml:"duration"`      // Total duration in seconds
	ViewportUnit float64          `yaml:"viewport_unit"` // Zone length the script was written for
	Keyframes    []ScrollKeyframe `yaml:"keyframes"`
}

// ScrollKeyframe represents the scroll and pointer position at a specific time
type ScrollKeyframe struct {
	Time    float64    `yaml:"time"`         // Time offset in seconds
	Focus   string     `yaml:"focus"`        // Description of what is on screen
	Scroll  float64    `yaml:"scroll"`       // Scroll coordinate in pixels
	Pointer [2]float64 `yaml:"pointer,flow"` // Normalized device coordinates
}

// Sample is the input state at one instant of a script
type Sample struct {
	Scroll  float64
	Pointer [2]float64
}

// Length returns the script duration, falling back to the last keyframe time
func (s *Script) Length() time.Duration {
	d := s.Duration
	if d <= 0 && len(s.Keyframes) > 0 {
		d = s.Keyframes[len(s.Keyframes)-1].Time
	}
	return time.Duration(d * float64(time.Second))
}

// SampleAt calculates scroll and pointer at a given time by interpolating
// between keyframes. Scroll is eased like a smooth-scrolling browser; the
// pointer moves linearly.
func (s *Script) SampleAt(at time.Duration) Sample {
	keyframes := s.Keyframes
	if len(keyframes) == 0 {
		return Sample{}
	}
	currentTime := at.Seconds()

	// If before first keyframe, use first keyframe
	if currentTime <= keyframes[0].Time {
		kf := keyframes[0]
		return Sample{Scroll: kf.Scroll, Pointer: kf.Pointer}
	}

	// If after last keyframe, use last keyframe
	if currentTime >= keyframes[len(keyframes)-1].Time {
		kf := keyframes[len(keyframes)-1]
		return Sample{Scroll: kf.Scroll, Pointer: kf.Pointer}
	}

	// Find surrounding keyframes
	var prevKf, nextKf ScrollKeyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		timeDelta = 0.001 // Avoid division by zero
	}
	t := (currentTime - prevKf.Time) / timeDelta

	return Sample{
		Scroll: lerp(prevKf.Scroll, nextKf.Scroll, easeInOutCubic(t)),
		Pointer: [2]float64{
			lerp(prevKf.Pointer[0], nextKf.Pointer[0], t),
			lerp(prevKf.Pointer[1], nextKf.Pointer[1], t),
		},
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
