// Package reveal implements character-level text reveal animations driven by
// a timing.Timeline.
package reveal

import (
	"time"

	"github.com/ivlev/scrollstage/internal/timing"
)

// DefaultHold is how long the cursor lingers after a typewriter completes
const DefaultHold = 500 * time.Millisecond

// Typewriter reveals its text one rune per interval while triggered
type Typewriter struct {
	tl       *timing.Timeline
	text     []rune
	interval time.Duration
	hold     time.Duration

	active bool
	shown  int
	cursor bool

	ticker    *timing.Timer
	holdTimer *timing.Timer
}

// NewTypewriter creates an idle typewriter. A non-positive hold uses DefaultHold.
func NewTypewriter(tl *timing.Timeline, text string, interval, hold time.Duration) *Typewriter {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Typewriter{
		tl:       tl,
		text:     []rune(text),
		interval: interval,
		hold:     hold,
	}
}

// SetTrigger applies the trigger input; only edges have an effect
func (w *Typewriter) SetTrigger(on bool) {
	if on == w.active {
		return
	}
	w.active = on
	if on {
		w.start()
		return
	}
	w.cancel()
	w.shown = 0
	w.cursor = false
}

// SetText replaces the target text, restarting the reveal if it is running
func (w *Typewriter) SetText(text string) {
	if string(w.text) == text {
		return
	}
	w.text = []rune(text)
	w.restart()
}

// SetInterval changes the tick interval, restarting the reveal if it is running
func (w *Typewriter) SetInterval(interval time.Duration) {
	if interval == w.interval {
		return
	}
	w.interval = interval
	w.restart()
}

// Stop cancels both timers and clears the display
func (w *Typewriter) Stop() {
	w.cancel()
	w.active = false
	w.shown = 0
	w.cursor = false
}

// Displayed returns the revealed prefix
func (w *Typewriter) Displayed() string {
	return string(w.text[:w.shown])
}

// Cursor reports whether the trailing cursor is visible
func (w *Typewriter) Cursor() bool {
	return w.cursor
}

// Active reports the trigger level
func (w *Typewriter) Active() bool {
	return w.active
}

// Done reports whether the full text is shown
func (w *Typewriter) Done() bool {
	return w.active && w.shown == len(w.text)
}

// Text returns the target text
func (w *Typewriter) Text() string {
	return string(w.text)
}

func (w *Typewriter) restart() {
	w.cancel()
	w.shown = 0
	w.cursor = false
	if w.active {
		w.start()
	}
}

func (w *Typewriter) start() {
	w.cancel()
	w.shown = 0
	w.cursor = true
	if len(w.text) == 0 {
		w.finish()
		return
	}
	w.ticker = w.tl.Every(w.interval, w.step)
}

func (w *Typewriter) step() {
	if w.shown < len(w.text) {
		w.shown++
	}
	if w.shown == len(w.text) {
		w.ticker.Stop()
		w.finish()
	}
}

func (w *Typewriter) finish() {
	w.holdTimer = w.tl.After(w.hold, func() {
		w.cursor = false
	})
}

func (w *Typewriter) cancel() {
	w.ticker.Stop()
	w.holdTimer.Stop()
	w.ticker = nil
	w.holdTimer = nil
}
