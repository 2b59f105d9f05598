// Package timing provides cooperative timers for single-threaded frame loops.
//
// A Timeline holds virtual time that only moves when its owner calls Advance,
// normally once per rendered frame. Callbacks run synchronously inside Advance,
// in deadline order, so they never race with the frame that observes them.
package timing

import (
	"container/heap"
	"time"
)

// Timeline is a virtual clock with a queue of pending timers
type Timeline struct {
	now     time.Duration
	seq     uint64
	pending timerHeap
}

// NewTimeline creates a timeline starting at zero
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Now returns elapsed virtual time
func (tl *Timeline) Now() time.Duration {
	return tl.now
}

// Pending returns the number of scheduled timers
func (tl *Timeline) Pending() int {
	return len(tl.pending)
}

// After schedules fn to run once, d after the current virtual time
func (tl *Timeline) After(d time.Duration, fn func()) *Timer {
	return tl.schedule(d, 0, fn)
}

// Every schedules fn to run each interval until the timer is stopped.
// Non-positive intervals are raised to one nanosecond.
func (tl *Timeline) Every(interval time.Duration, fn func()) *Timer {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return tl.schedule(interval, interval, fn)
}

func (tl *Timeline) schedule(d, interval time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	tl.seq++
	t := &Timer{
		tl:       tl,
		deadline: tl.now + d,
		interval: interval,
		seq:      tl.seq,
		fn:       fn,
		index:    -1,
	}
	heap.Push(&tl.pending, t)
	return t
}

// Advance moves virtual time forward by dt, firing every timer whose deadline
// falls inside the window. Each callback observes Now() equal to its own
// deadline; timers scheduled from a callback are relative to that instant and
// fire in the same Advance call if they fall inside the window.
func (tl *Timeline) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	end := tl.now + dt

	for len(tl.pending) > 0 {
		next := tl.pending[0]
		if next.deadline > end {
			break
		}
		heap.Pop(&tl.pending)
		tl.now = next.deadline

		if next.interval > 0 {
			// Re-arm before running so the callback may Stop it
			next.deadline += next.interval
			tl.seq++
			next.seq = tl.seq
			heap.Push(&tl.pending, next)
		} else {
			next.fired = true
		}
		next.fn()
	}

	tl.now = end
}

// Clear drops every pending timer without running it
func (tl *Timeline) Clear() {
	for _, t := range tl.pending {
		t.index = -1
		t.stopped = true
	}
	tl.pending = tl.pending[:0]
}

// Timer is a handle to a scheduled callback
type Timer struct {
	tl       *Timeline
	deadline time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
	index    int
	fired    bool
	stopped  bool
}

// Stop cancels the timer. It reports whether the call prevented a future run;
// stopping a fired, stopped or nil timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped || t.index < 0 {
		return false
	}
	heap.Remove(&t.tl.pending, t.index)
	t.stopped = true
	return true
}

// Active reports whether the timer will still run
func (t *Timer) Active() bool {
	return t != nil && !t.stopped && t.index >= 0
}

// Fired reports whether a one-shot timer has run
func (t *Timer) Fired() bool {
	return t != nil && t.fired
}

// timerHeap orders timers by deadline, then by scheduling order
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline == h[j].deadline {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline < h[j].deadline
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
