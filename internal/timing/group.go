package timing

import "time"

// Group tracks timers scheduled together so they can be cancelled together
type Group struct {
	tl     *Timeline
	timers []*Timer
}

// NewGroup creates an empty timer set on tl
func NewGroup(tl *Timeline) *Group {
	return &Group{tl: tl}
}

// After schedules a one-shot timer as a member of the group
func (g *Group) After(d time.Duration, fn func()) *Timer {
	t := g.tl.After(d, fn)
	g.timers = append(g.timers, t)
	return t
}

// Pending returns how many member timers have not yet fired or been stopped
func (g *Group) Pending() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, t := range g.timers {
		if t.Active() {
			n++
		}
	}
	return n
}

// CancelAll stops every member timer. Safe on a nil or already cancelled group.
func (g *Group) CancelAll() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, t := range g.timers {
		if t.Stop() {
			n++
		}
	}
	g.timers = g.timers[:0]
	return n
}
