package engine

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollstage/internal/cascade"
	"github.com/ivlev/scrollstage/internal/config"
	"github.com/ivlev/scrollstage/internal/keyframe"
	"github.com/ivlev/scrollstage/internal/motion"
	"github.com/ivlev/scrollstage/internal/reveal"
	"github.com/ivlev/scrollstage/internal/settle"
	"github.com/ivlev/scrollstage/internal/timing"
)

// Orchestrator maps scroll and pointer samples onto the model pose, the
// settle progress, the staged reveal flags and the revealed texts.
// It is single-threaded: the host calls every method from its frame loop.
type Orchestrator struct {
	cfg *config.Choreography
	log *log.Logger

	tl         *timing.Timeline
	integrator *motion.Integrator
	detector   *settle.Detector
	cascade    *cascade.Scheduler
	texts      []*textBlock

	scroll   float64
	viewport float64
	pointer  mgl64.Vec2

	target  keyframe.Pose
	zone    int
	phase   float64
	mounted bool
	played  bool
}

// textBlock binds one reveal engine to its stage flag
type textBlock struct {
	cfg        config.Text
	typewriter *reveal.Typewriter
	flip       *reveal.Flip
	shown      bool
	rises      int
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger logs zone, settle and cascade transitions to l
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// New creates an unmounted orchestrator for a validated choreography
func New(c *config.Choreography, opts ...Option) (*Orchestrator, error) {
	if c == nil {
		return nil, fmt.Errorf("choreography is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid choreography: %w", err)
	}

	tl := timing.NewTimeline()
	o := &Orchestrator{
		cfg:        c,
		log:        log.New(io.Discard, "", 0),
		tl:         tl,
		integrator: motion.NewIntegrator(c.Keyframes, c.Motion),
		detector:   settle.NewDetector(c.Settle.Milestone, c.Milestone().Pose, c.Settle.Epsilon),
		viewport:   c.ViewportUnit,
	}
	o.cascade = cascade.NewScheduler(tl, c.Cascade, o.syncTexts)

	for _, t := range c.Texts {
		b := &textBlock{cfg: t}
		switch t.Mode {
		case config.ModeTypewriter:
			b.typewriter = reveal.NewTypewriter(tl, t.Text, t.Interval, t.Hold)
		case config.ModeFlip:
			b.flip = reveal.NewFlip(tl, t.Text, t.Interval)
		}
		o.texts = append(o.texts, b)
	}

	for _, opt := range opts {
		opt(o)
	}

	o.target = keyframe.Interpolate(c.Keyframes, 0, o.viewport)
	return o, nil
}

// Mount arms the orchestrator for a rendering surface. model may be nil while
// the asset is still loading; bind it later with BindModel.
func (o *Orchestrator) Mount(model motion.Model) {
	if o.mounted {
		o.integrator.Bind(model)
		return
	}
	o.mounted = true
	o.integrator.Reset()
	o.integrator.Bind(model)
	// Flags kept through teardown (exit policy keep) drive the texts again.
	o.syncTexts()
	o.log.Printf("[*] mounted (model bound: %t)", model != nil)
}

// BindModel attaches or replaces the model handle; nil detaches it
func (o *Orchestrator) BindModel(model motion.Model) {
	o.integrator.Bind(model)
}

// Unmount cancels every pending timer and stops ticking. Safe to call twice.
func (o *Orchestrator) Unmount() {
	if !o.mounted {
		return
	}
	o.mounted = false

	o.cascade.Teardown()
	for _, b := range o.texts {
		if b.typewriter != nil {
			b.typewriter.Stop()
		}
		if b.flip != nil {
			b.flip.Stop()
		}
		b.shown = false
	}
	o.tl.Clear()
	o.integrator.Bind(nil)
	o.detector.Reset()
	o.log.Printf("[*] unmounted")
}

// Mounted reports whether the orchestrator is armed
func (o *Orchestrator) Mounted() bool {
	return o.mounted
}

// OnScroll records the latest scroll sample in pixels
func (o *Orchestrator) OnScroll(v float64) {
	o.scroll = v
}

// OnPointer records the latest pointer sample in normalized device coordinates
func (o *Orchestrator) OnPointer(x, y float64) {
	o.pointer = mgl64.Vec2{mgl64.Clamp(x, -1, 1), mgl64.Clamp(y, -1, 1)}
}

// OnResize records the viewport unit (zone length in pixels)
func (o *Orchestrator) OnResize(viewportUnit float64) {
	o.viewport = viewportUnit
}

// Tick advances one frame by dt: due timers fire first, then the pose is
// integrated and the settle detector drives the cascade.
func (o *Orchestrator) Tick(dt time.Duration) {
	if !o.mounted {
		return
	}

	o.tl.Advance(dt)
	o.integrator.Tick(o.scroll, o.viewport, o.pointer)

	o.target = keyframe.Interpolate(o.cfg.Keyframes, o.scroll, o.viewport)
	o.zone, o.phase = keyframe.Section(o.scroll, o.viewport)

	sig := o.detector.Update(o.zone, o.target)
	if sig.Left {
		o.log.Printf("[*] left milestone zone %d at %s", o.cfg.Settle.Milestone, o.tl.Now())
		o.cascade.LeaveZone()
	}
	if sig.Entered {
		o.log.Printf("[*] entered milestone zone %d at %s", o.cfg.Settle.Milestone, o.tl.Now())
		o.cascade.EnterZone()
	}
	if sig.Settled {
		o.log.Printf("[*] settled on %q at %s", o.cfg.Milestone().Name, o.tl.Now())
		o.cascade.Settle()
	}
}

// syncTexts follows the stage flags; it runs after every cascade mutation
func (o *Orchestrator) syncTexts() {
	flags := o.cascade.Flags()
	for _, b := range o.texts {
		on := b.cfg.Stage < len(flags) && flags[b.cfg.Stage]
		if b.typewriter != nil {
			b.typewriter.SetTrigger(on)
		}
		if b.flip != nil && on && !b.shown {
			b.rises++
			b.flip.Restart(strconv.Itoa(b.rises))
		}
		b.shown = on
	}

	if played := o.cascade.HasPlayedEver(); played != o.played {
		o.played = played
		o.log.Printf("[*] staged reveal latched at %s", o.tl.Now())
	}
}

// Now returns the orchestrator's virtual time
func (o *Orchestrator) Now() time.Duration {
	return o.tl.Now()
}

// Pose returns the live pose as written to the model
func (o *Orchestrator) Pose() keyframe.Pose {
	return o.integrator.Output()
}

// Target returns the interpolated pose for the latest scroll sample
func (o *Orchestrator) Target() keyframe.Pose {
	return o.target
}

// Zone returns the zone evaluated by the last tick
func (o *Orchestrator) Zone() int {
	return o.zone
}

// Progress returns the settle progress in [0, 1]
func (o *Orchestrator) Progress() float64 {
	return o.cascade.Progress()
}

// Flags returns a copy of the stage flags
func (o *Orchestrator) Flags() []bool {
	return o.cascade.Flags()
}

// HasPlayedEver reports whether the staged reveal has latched for the session
func (o *Orchestrator) HasPlayedEver() bool {
	return o.cascade.HasPlayedEver()
}

// Settled reports whether the detector is in the Settled state
func (o *Orchestrator) Settled() bool {
	return o.detector.State() == settle.Settled
}

// Texts returns the displayed state of every text block in config order
func (o *Orchestrator) Texts() []TextState {
	out := make([]TextState, 0, len(o.texts))
	for _, b := range o.texts {
		s := TextState{Name: b.cfg.Name, Mode: b.cfg.Mode, Stage: b.cfg.Stage, Shown: b.shown}
		switch {
		case b.typewriter != nil:
			s.Displayed = b.typewriter.Displayed()
			s.Cursor = b.typewriter.Cursor()
			s.Active = b.typewriter.Active()
			s.Done = b.typewriter.Done()
		case b.flip != nil:
			s.Displayed = b.flip.Displayed()
			s.Active = b.flip.Active()
			s.Done = b.flip.Settled()
		}
		out = append(out, s)
	}
	return out
}

// Snapshot captures everything a host needs to draw the current frame
func (o *Orchestrator) Snapshot() Snapshot {
	return Snapshot{
		Time:          o.tl.Now(),
		Scroll:        o.scroll,
		ViewportUnit:  o.viewport,
		Zone:          o.zone,
		Phase:         o.phase,
		Section:       o.sectionName(),
		Pose:          o.Pose(),
		Target:        o.target,
		Progress:      o.cascade.Progress(),
		Flags:         o.cascade.Flags(),
		HasPlayedEver: o.cascade.HasPlayedEver(),
		Settled:       o.Settled(),
		Texts:         o.Texts(),
		Mounted:       o.mounted,
		ModelBound:    o.integrator.Bound(),
	}
}

func (o *Orchestrator) sectionName() string {
	return o.cfg.Keyframes.At(o.zone).Name
}
