package reveal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scrollstage/internal/timing"
)

func TestFlipFromBlank(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "b", 1*ms)
	assert.Equal(t, " ", f.Displayed())

	f.Restart("first")

	tl.Advance(1 * ms)
	assert.Equal(t, "a", f.Displayed())
	assert.True(t, f.Active())

	tl.Advance(1 * ms)
	assert.Equal(t, "b", f.Displayed())
	assert.False(t, f.Active())
	assert.Equal(t, 2, f.Ticks())
	assert.Zero(t, tl.Pending())
}

func TestFlipIdleUntilRestart(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "abc", 1*ms)
	tl.Advance(time.Second)
	assert.Equal(t, "   ", f.Displayed())
	assert.False(t, f.Active())
}

func TestFlipNonLettersSnapOnFirstTick(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "2-!", 10*ms)
	f.Restart("k")

	tl.Advance(10 * ms)
	assert.Equal(t, "2-!", f.Displayed())
	assert.True(t, f.Settled())
	assert.Equal(t, 1, f.Ticks())
}

func TestFlipCaseRings(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "Ab", 1*ms)
	f.Restart("k")

	tl.Advance(1 * ms)
	assert.Equal(t, "Aa", f.Displayed(), "upper target uses the upper ring")

	tl.Advance(1 * ms)
	assert.Equal(t, "Ab", f.Displayed())
	assert.True(t, f.Settled())
}

func TestFlipConvergesInRingDistance(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "Zoe", 1*ms)
	f.Restart("k")

	// From blank, each letter needs its ring index + 1 ticks; 'Z' is the slowest
	tl.Advance(25 * ms)
	assert.False(t, f.Settled())
	tl.Advance(1 * ms)
	assert.Equal(t, "Zoe", f.Displayed())
	assert.Equal(t, 26, f.Ticks())
}

func TestFlipWraps(t *testing.T) {
	displayed := []rune("zZ")
	target := []rune("aA")

	settled := Step(displayed, target)
	assert.True(t, settled)
	assert.Equal(t, "aA", string(displayed))
}

func TestFlipOppositeCaseContinuesFromFoldedPosition(t *testing.T) {
	displayed := []rune("B")
	Step(displayed, []rune("d"))
	assert.Equal(t, "c", string(displayed))
}

func TestFlipRestartReseedsFromCurrent(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "e", 1*ms)
	f.Restart("one")
	tl.Advance(3 * ms)
	require.Equal(t, "c", f.Displayed())

	f.Restart("one") // same key
	assert.Equal(t, "c", f.Displayed())

	f.Restart("two")
	assert.Equal(t, "c", f.Displayed(), "restart does not blank the display")
	tl.Advance(2 * ms)
	assert.Equal(t, "e", f.Displayed())
	assert.Equal(t, 2, f.Ticks())
	assert.False(t, f.Active())
}

func TestFlipRestartWhenSettledStopsAfterOneTick(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "ok", 1*ms)
	f.Restart("a")
	tl.Advance(time.Second)
	require.True(t, f.Settled())

	f.Restart("b")
	tl.Advance(1 * ms)
	assert.False(t, f.Active())
	assert.Equal(t, 1, f.Ticks())
}

func TestFlipSetTargetPadsAndTruncates(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "ab", 1*ms)
	f.Restart("k")
	tl.Advance(time.Second)
	require.Equal(t, "ab", f.Displayed())

	f.SetTarget("abcd")
	assert.Equal(t, "ab  ", f.Displayed())
	tl.Advance(time.Second)
	assert.Equal(t, "abcd", f.Displayed())

	f.SetTarget("x")
	assert.Equal(t, "a", f.Displayed())
	tl.Advance(time.Second)
	assert.Equal(t, "x", f.Displayed())

	idle := NewFlip(tl, "abc", 1*ms)
	idle.SetTarget("hello")
	assert.Equal(t, "     ", idle.Displayed())
	assert.False(t, idle.Active())
}

func TestFlipStop(t *testing.T) {
	tl := timing.NewTimeline()
	f := NewFlip(tl, "zzz", 1*ms)
	f.Restart("k")
	tl.Advance(3 * ms)
	f.Stop()
	f.Stop()
	snapshot := f.Displayed()
	tl.Advance(time.Second)
	assert.Equal(t, snapshot, f.Displayed())
	assert.Zero(t, tl.Pending())
}
