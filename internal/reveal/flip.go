package reveal

import (
	"strings"
	"time"

	"github.com/ivlev/scrollstage/internal/timing"
)

const ringSize = 26

// Flip converges every character of its display toward the target by stepping
// through the alphabet, like a split-flap board
type Flip struct {
	tl       *timing.Timeline
	target   []rune
	interval time.Duration

	displayed []rune
	key       string
	started   bool
	ticks     int

	ticker *timing.Timer
}

// NewFlip creates an idle flip whose display is blank. Ticking begins on the
// first Restart.
func NewFlip(tl *timing.Timeline, target string, interval time.Duration) *Flip {
	f := &Flip{
		tl:       tl,
		target:   []rune(target),
		interval: interval,
	}
	f.displayed = pad(nil, len(f.target))
	return f
}

// Restart applies the restart key. A new key re-seeds from the current display
// and resumes ticking; the same key is a no-op.
func (f *Flip) Restart(key string) {
	if f.started && key == f.key {
		return
	}
	f.started = true
	f.key = key
	f.reseed()
}

// SetTarget replaces the target text and continues converging from the current display
func (f *Flip) SetTarget(target string) {
	if string(f.target) == target {
		return
	}
	f.target = []rune(target)
	if f.started {
		f.reseed()
		return
	}
	f.displayed = pad(f.displayed, len(f.target))
}

// Stop cancels the shared ticker
func (f *Flip) Stop() {
	f.ticker.Stop()
	f.ticker = nil
}

// Displayed returns the current display, always as long as the target
func (f *Flip) Displayed() string {
	return string(f.displayed)
}

// Active reports whether the ticker is running
func (f *Flip) Active() bool {
	return f.ticker.Active()
}

// Settled reports whether every position equals its target
func (f *Flip) Settled() bool {
	return string(f.displayed) == string(f.target)
}

// Ticks returns how many ticks ran since the last reseed
func (f *Flip) Ticks() int {
	return f.ticks
}

// Text returns the target text
func (f *Flip) Text() string {
	return string(f.target)
}

func (f *Flip) reseed() {
	f.Stop()
	f.displayed = pad(f.displayed, len(f.target))
	f.ticks = 0
	f.ticker = f.tl.Every(f.interval, f.tick)
}

func (f *Flip) tick() {
	f.ticks++
	if Step(f.displayed, f.target) {
		f.Stop()
	}
}

// Step advances every position of displayed one ring step toward target and
// reports whether all positions now match. Both slices must be the same length.
func Step(displayed, target []rune) bool {
	settled := true
	for i, want := range target {
		cur := displayed[i]
		switch {
		case !isLetter(want):
			displayed[i] = want
		case cur == want:
		default:
			base := 'a'
			if isUpper(want) {
				base = 'A'
			}
			pos := -1
			if isLetter(cur) {
				pos = int(toLower(cur) - 'a')
			}
			displayed[i] = base + rune((pos+1)%ringSize)
		}
		if displayed[i] != want {
			settled = false
		}
	}
	return settled
}

// pad right-pads (or truncates) s with spaces to n runes
func pad(s []rune, n int) []rune {
	out := []rune(strings.Repeat(" ", n))
	copy(out, s)
	return out
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
