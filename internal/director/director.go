// Package director writes and plays scroll scripts: timed scroll and pointer
// keyframes that stand in for a visitor when rendering a storyboard.
package director

import (
	"fmt"
	"math"

	"github.com/ivlev/scrollstage/internal/keyframe"
)

// Director generates tour scripts that visit every section of a keyframe table
type Director struct {
	ViewportUnit float64
	MinDwell     float64 // Minimum time resting on a section (seconds)
	MaxDwell     float64 // Maximum time resting on a section (seconds)
	Travel       float64 // Time spent scrolling between sections (seconds)
	Revisit      int     // Section scrolled back to at the end; -1 disables
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportUnit float64) *Director {
	return &Director{
		ViewportUnit: viewportUnit,
		MinDwell:     1.0,
		MaxDwell:     3.0,
		Travel:       0.8,
		Revisit:      -1,
	}
}

// GenerateScript creates a tour: a short intro at the top, then a scroll to
// and a dwell on every section in order, optionally returning to Revisit.
func (d *Director) GenerateScript(table keyframe.Table, name string, totalDuration float64) (*Script, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("no keyframes to visit")
	}
	if d.ViewportUnit <= 0 {
		return nil, fmt.Errorf("viewport unit must be positive, got %g", d.ViewportUnit)
	}

	stops := make([]keyframe.Keyframe, 0, len(table)+1)
	stops = append(stops, table[1:]...)
	if d.Revisit >= 0 && d.Revisit < len(table) {
		stops = append(stops, table[d.Revisit])
	}

	dwellTime := d.calculateDwellTime(totalDuration, len(stops))
	keyframes := d.generateKeyframes(table[0], stops, dwellTime)

	return &Script{
		Version:      "1.0",
		Name:         name,
		Duration:     keyframes[len(keyframes)-1].Time,
		ViewportUnit: d.ViewportUnit,
		Keyframes:    keyframes,
	}, nil
}

// calculateDwellTime determines how long to rest on each section
func (d *Director) calculateDwellTime(totalDuration float64, stopCount int) float64 {
	if stopCount == 0 {
		return d.MinDwell
	}

	// Reserve time for the intro and for travelling between sections
	introDuration := 1.0
	availableDuration := totalDuration - introDuration - float64(stopCount)*d.Travel

	if availableDuration <= 0 {
		availableDuration = totalDuration
	}

	dwellTime := availableDuration / float64(stopCount)

	// Clamp to min/max
	if dwellTime < d.MinDwell {
		dwellTime = d.MinDwell
	}
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}

	return dwellTime
}

// generateKeyframes creates travel and dwell keyframes for every stop
func (d *Director) generateKeyframes(start keyframe.Keyframe, stops []keyframe.Keyframe, dwellTime float64) []ScrollKeyframe {
	keyframes := []ScrollKeyframe{
		{Time: 0.0, Focus: start.Name, Scroll: 0, Pointer: [2]float64{0, 0}},
	}

	currentTime := 1.0 // 1s intro
	keyframes = append(keyframes, ScrollKeyframe{
		Time:    currentTime,
		Focus:   start.Name,
		Scroll:  0,
		Pointer: pointerSweep(0),
	})

	for i, stop := range stops {
		scroll := float64(stop.Index) * d.ViewportUnit

		// Arrive at the top of the section
		currentTime += d.Travel
		keyframes = append(keyframes, ScrollKeyframe{
			Time:    round(currentTime),
			Focus:   stop.Name,
			Scroll:  scroll,
			Pointer: pointerSweep(i + 1),
		})

		// Rest there
		currentTime += dwellTime
		keyframes = append(keyframes, ScrollKeyframe{
			Time:    round(currentTime),
			Focus:   stop.Name,
			Scroll:  scroll,
			Pointer: pointerSweep(i + 1),
		})
	}

	return keyframes
}

// pointerSweep places the pointer on a slow circle so each stop differs
func pointerSweep(step int) [2]float64 {
	angle := float64(step) * math.Pi / 3
	return [2]float64{round(0.6 * math.Cos(angle)), round(0.4 * math.Sin(angle))}
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
