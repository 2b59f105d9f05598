package cascade

import (
	"fmt"
	"time"

	"github.com/ivlev/scrollstage/internal/timing"
)

// ExitPolicy decides what happens to revealed stages when the milestone zone is left
type ExitPolicy string

const (
	// ExitHide clears every flag on leave; re-entry after a full play shows them at once
	ExitHide ExitPolicy = "hide"
	// ExitKeep leaves a completed reveal on screen; partial reveals are still cleared
	ExitKeep ExitPolicy = "keep"
)

// Validate rejects unknown policies
func (p ExitPolicy) Validate() error {
	switch p {
	case ExitHide, ExitKeep:
		return nil
	default:
		return fmt.Errorf("unknown exit policy %q", string(p))
	}
}

// Config holds the cascade timings
type Config struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
	Stages      Plan          `yaml:"stages"`
	ExitPolicy  ExitPolicy    `yaml:"exit_policy"`
}

// State is the per-session cascade state
type State struct {
	HasPlayedEver bool
	Flags         []bool
}

// Scheduler runs the settle-progress and staged-reveal cascades
type Scheduler struct {
	cfg Config
	tl  *timing.Timeline

	state    State
	progress float64
	entries  int
	complete bool // every flag was set by the current play

	progressTimer *timing.Timer
	stages        *timing.Group

	onChange func()
}

// NewScheduler creates a scheduler on tl. onChange, if non-nil, runs after every
// mutation of progress or flags, including those made by timers.
func NewScheduler(tl *timing.Timeline, cfg Config, onChange func()) *Scheduler {
	if cfg.ExitPolicy == "" {
		cfg.ExitPolicy = ExitHide
	}
	return &Scheduler{
		cfg:      cfg,
		tl:       tl,
		state:    State{Flags: make([]bool, len(cfg.Stages))},
		onChange: onChange,
	}
}

// Progress returns the settle-progress value in [0, 1]
func (s *Scheduler) Progress() float64 {
	return s.progress
}

// Flags returns a copy of the stage flags
func (s *Scheduler) Flags() []bool {
	out := make([]bool, len(s.state.Flags))
	copy(out, s.state.Flags)
	return out
}

// HasPlayedEver reports whether the staged reveal has latched for the session
func (s *Scheduler) HasPlayedEver() bool {
	return s.state.HasPlayedEver
}

// Pending returns the number of armed timers
func (s *Scheduler) Pending() int {
	n := s.stages.Pending()
	if s.progressTimer.Active() {
		n++
	}
	return n
}

// Settle handles the settle event
func (s *Scheduler) Settle() {
	if s.state.HasPlayedEver {
		s.progressTimer.Stop()
		s.setProgress(1)
		return
	}
	if s.progressTimer.Active() {
		return
	}
	s.progressTimer = s.tl.After(s.cfg.SettleDelay, func() {
		s.setProgress(1)
	})
}

// EnterZone handles entry into the milestone zone
func (s *Scheduler) EnterZone() {
	s.entries++
	s.stages.CancelAll()

	if s.state.HasPlayedEver || s.entries > 1 {
		s.state.HasPlayedEver = true
		s.revealAll()
		return
	}

	s.complete = false
	s.stages = s.cfg.Stages.Schedule(s.tl, s.reveal)
	if len(s.cfg.Stages) == 0 {
		s.state.HasPlayedEver = true
		s.complete = true
	}
}

// LeaveZone handles leaving the milestone zone
func (s *Scheduler) LeaveZone() {
	s.cancel()
}

// Teardown cancels every pending timer when the owning surface goes away
func (s *Scheduler) Teardown() {
	s.cancel()
}

func (s *Scheduler) cancel() {
	s.progressTimer.Stop()
	s.progressTimer = nil
	s.stages.CancelAll()

	s.progress = 0
	if !s.complete || s.cfg.ExitPolicy == ExitHide {
		s.clearFlags()
	}
	s.changed()
}

// reveal is the callback of stage k: flags 0..k turn on
func (s *Scheduler) reveal(k int) {
	for i := 0; i <= k && i < len(s.state.Flags); i++ {
		s.state.Flags[i] = true
	}
	if k == len(s.state.Flags)-1 {
		s.state.HasPlayedEver = true
		s.complete = true
	}
	s.changed()
}

func (s *Scheduler) revealAll() {
	for i := range s.state.Flags {
		s.state.Flags[i] = true
	}
	s.complete = true
	s.changed()
}

func (s *Scheduler) clearFlags() {
	for i := range s.state.Flags {
		s.state.Flags[i] = false
	}
	s.complete = false
}

func (s *Scheduler) setProgress(v float64) {
	s.progress = v
	s.changed()
}

func (s *Scheduler) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
