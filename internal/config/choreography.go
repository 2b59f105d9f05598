package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/scrollstage/internal/cascade"
	"github.com/ivlev/scrollstage/internal/keyframe"
	"github.com/ivlev/scrollstage/internal/motion"
)

// Text reveal modes
const (
	ModeTypewriter = "typewriter"
	ModeFlip       = "flip"
)

// Choreography is the declarative description of the scroll-driven page
type Choreography struct {
	ViewportUnit float64        `yaml:"viewport_unit"` // Default zone length in pixels
	Keyframes    keyframe.Table `yaml:"keyframes"`
	Motion       motion.Config  `yaml:"motion"`
	Settle       Settle         `yaml:"settle"`
	Cascade      cascade.Config `yaml:"cascade"`
	Texts        []Text         `yaml:"texts"`
}

// Settle configures the milestone the settle detector watches
type Settle struct {
	Milestone int     `yaml:"milestone"` // Zone index, also the keyframe compared against
	Epsilon   float64 `yaml:"epsilon"`
}

// Text binds a reveal engine to a stage flag
type Text struct {
	Name     string        `yaml:"name"`
	Mode     string        `yaml:"mode"`
	Text     string        `yaml:"text"`
	Interval time.Duration `yaml:"interval"`
	Hold     time.Duration `yaml:"hold,omitempty"`
	Stage    int           `yaml:"stage"`
}

// Default returns the portfolio choreography
func Default() *Choreography {
	ms := time.Millisecond
	return &Choreography{
		ViewportUnit: 900,
		Keyframes: keyframe.Table{
			{Index: 0, Name: "hero", Pose: keyframe.Pose{Position: mgl64.Vec3{0, -0.4, 0}, Rotation: mgl64.Vec3{0, 0, 0}, Scale: 1.0}},
			{Index: 1, Name: "about", Pose: keyframe.Pose{Position: mgl64.Vec3{1.6, -0.2, 0.4}, Rotation: mgl64.Vec3{0.1, -0.6, 0}, Scale: 1.25}},
			{Index: 2, Name: "projects", Pose: keyframe.Pose{Position: mgl64.Vec3{-1.8, 0.1, -0.2}, Rotation: mgl64.Vec3{-0.05, 0.9, 0.05}, Scale: 0.9}},
			{Index: 3, Name: "experience", Pose: keyframe.Pose{Position: mgl64.Vec3{1.2, 0.3, -0.8}, Rotation: mgl64.Vec3{0.2, 2.1, 0}, Scale: 0.8}},
			{Index: 4, Name: "contact", Pose: keyframe.Pose{Position: mgl64.Vec3{0, -0.1, 0.6}, Rotation: mgl64.Vec3{0, 3.14159, 0}, Scale: 1.1}},
		},
		Motion: motion.Config{
			Ease:    motion.Ease{Position: 0.08, Rotation: 0.08, Scale: 0.05},
			Pointer: motion.Pointer{Amplitude: mgl64.Vec2{0.15, 0.3}, Falloff: 1.0},
		},
		Settle: Settle{Milestone: 1, Epsilon: 0.1},
		Cascade: cascade.Config{
			SettleDelay: 800 * ms,
			Stages:      cascade.StagesAt(300*ms, 800*ms, 1300*ms, 1800*ms),
			ExitPolicy:  cascade.ExitHide,
		},
		Texts: []Text{
			{Name: "greeting", Mode: ModeTypewriter, Text: "Hi, I build things for the web.", Interval: 45 * ms, Hold: 500 * ms, Stage: 0},
			{Name: "role", Mode: ModeFlip, Text: "Software Engineer", Interval: 40 * ms, Stage: 1},
			{Name: "focus", Mode: ModeTypewriter, Text: "Distributed systems, tooling and motion.", Interval: 35 * ms, Hold: 500 * ms, Stage: 2},
			{Name: "cta", Mode: ModeFlip, Text: "Say hello", Interval: 40 * ms, Stage: 3},
		},
	}
}

// Validate reports every problem in the choreography at once
func (c *Choreography) Validate() error {
	var errs []error

	if c.ViewportUnit < 0 {
		errs = append(errs, fmt.Errorf("viewport_unit must not be negative, got %g", c.ViewportUnit))
	}
	if err := c.Keyframes.Validate(); err != nil {
		errs = append(errs, err)
	}

	e := c.Motion.Ease
	eases := []struct {
		name string
		v    float64
	}{
		{"position", e.Position},
		{"rotation", e.Rotation},
		{"scale", e.Scale},
	}
	for _, ease := range eases {
		if ease.v <= 0 || ease.v > 1 {
			errs = append(errs, fmt.Errorf("motion.ease.%s must be in (0, 1], got %g", ease.name, ease.v))
		}
	}
	if c.Motion.Pointer.Falloff < 0 {
		errs = append(errs, fmt.Errorf("motion.pointer.falloff must not be negative, got %g", c.Motion.Pointer.Falloff))
	}

	if c.Settle.Milestone < 0 || c.Settle.Milestone >= len(c.Keyframes) {
		errs = append(errs, fmt.Errorf("settle.milestone %d is outside the keyframe table", c.Settle.Milestone))
	}
	if c.Settle.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("settle.epsilon must be positive, got %g", c.Settle.Epsilon))
	}

	if c.Cascade.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("cascade.settle_delay must not be negative, got %s", c.Cascade.SettleDelay))
	}
	if err := c.Cascade.Stages.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cascade.stages: %w", err))
	}
	if c.Cascade.ExitPolicy != "" {
		if err := c.Cascade.ExitPolicy.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("cascade: %w", err))
		}
	}

	for i, t := range c.Texts {
		if t.Mode != ModeTypewriter && t.Mode != ModeFlip {
			errs = append(errs, fmt.Errorf("texts[%d] %q: unknown mode %q", i, t.Name, t.Mode))
		}
		if t.Interval <= 0 {
			errs = append(errs, fmt.Errorf("texts[%d] %q: interval must be positive", i, t.Name))
		}
		if t.Stage < 0 || t.Stage >= len(c.Cascade.Stages) {
			errs = append(errs, fmt.Errorf("texts[%d] %q: stage %d has no cascade stage", i, t.Name, t.Stage))
		}
	}

	return errors.Join(errs...)
}

// Milestone returns the keyframe the settle detector compares against
func (c *Choreography) Milestone() keyframe.Keyframe {
	return c.Keyframes.At(c.Settle.Milestone)
}

// Load reads a choreography from a YAML file; omitted sections keep their defaults
func Load(path string) (*Choreography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML choreography data over the defaults
func Parse(data []byte) (*Choreography, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode choreography: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid choreography: %w", err)
	}
	return c, nil
}

// Write writes a choreography to a YAML file
func Write(c *Choreography, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
