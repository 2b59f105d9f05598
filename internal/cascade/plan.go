// Package cascade sequences the timed, staged UI reveals triggered by the
// milestone zone and its settle event.
package cascade

import (
	"fmt"
	"time"

	"github.com/ivlev/scrollstage/internal/timing"
)

// Stage is one entry of a staged reveal: after Delay, flags 0..Index turn on
type Stage struct {
	Delay time.Duration `yaml:"delay"`
	Index int           `yaml:"index"`
}

// Plan is an ordered list of stages
type Plan []Stage

// StagesAt builds a plan with one stage per delay, indexed in order
func StagesAt(delays ...time.Duration) Plan {
	p := make(Plan, len(delays))
	for i, d := range delays {
		p[i] = Stage{Delay: d, Index: i}
	}
	return p
}

// Validate checks that indices are 0..N-1 and delays strictly increase
func (p Plan) Validate() error {
	for i, s := range p {
		if s.Index != i {
			return fmt.Errorf("stage %d has index %d", i, s.Index)
		}
		if s.Delay < 0 {
			return fmt.Errorf("stage %d has negative delay %s", i, s.Delay)
		}
		if i > 0 && s.Delay <= p[i-1].Delay {
			return fmt.Errorf("stage %d delay %s does not follow %s", i, s.Delay, p[i-1].Delay)
		}
	}
	return nil
}

// Schedule arms every stage as one timer set; onStage receives the stage index
func (p Plan) Schedule(tl *timing.Timeline, onStage func(index int)) *timing.Group {
	g := timing.NewGroup(tl)
	for _, s := range p {
		idx := s.Index
		g.After(s.Delay, func() { onStage(idx) })
	}
	return g
}
