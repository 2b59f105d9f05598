package cascade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scrollstage/internal/timing"
)

const ms = time.Millisecond

func defaultConfig() Config {
	return Config{
		SettleDelay: 800 * ms,
		Stages:      StagesAt(300*ms, 800*ms, 1300*ms, 1800*ms),
		ExitPolicy:  ExitHide,
	}
}

func newScheduler(cfg Config) (*Scheduler, *timing.Timeline, *int) {
	tl := timing.NewTimeline()
	changes := 0
	return NewScheduler(tl, cfg, func() { changes++ }), tl, &changes
}

func TestStagedRevealFirstPlay(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()

	tl.Advance(250 * ms)
	assert.Equal(t, []bool{false, false, false, false}, s.Flags())

	tl.Advance(100 * ms) // t=350
	assert.Equal(t, []bool{true, false, false, false}, s.Flags())

	tl.Advance(500 * ms) // t=850
	assert.Equal(t, []bool{true, true, false, false}, s.Flags())
	assert.False(t, s.HasPlayedEver())

	tl.Advance(1000 * ms) // t=1850
	assert.Equal(t, []bool{true, true, true, true}, s.Flags())
	assert.True(t, s.HasPlayedEver())
	assert.Zero(t, s.Pending())
}

func TestStagedRevealReplayIsImmediate(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()
	tl.Advance(2 * time.Second)
	s.LeaveZone()
	assert.Equal(t, []bool{false, false, false, false}, s.Flags(), "hide policy clears on leave")

	s.EnterZone()
	assert.Equal(t, []bool{true, true, true, true}, s.Flags())
	assert.Zero(t, s.Pending())
}

func TestLeavingCancelsPartialReveal(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()
	tl.Advance(900 * ms)
	require.Equal(t, []bool{true, true, false, false}, s.Flags())

	s.LeaveZone()
	assert.Equal(t, []bool{false, false, false, false}, s.Flags())
	assert.Zero(t, s.Pending())

	tl.Advance(5 * time.Second)
	assert.Equal(t, []bool{false, false, false, false}, s.Flags(), "cancelled timers never fire")
	assert.False(t, s.HasPlayedEver())
}

func TestSecondEntryLatchesAfterInterruptedPlay(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()
	tl.Advance(400 * ms)
	s.LeaveZone()

	s.EnterZone()
	assert.True(t, s.HasPlayedEver())
	assert.Equal(t, []bool{true, true, true, true}, s.Flags())
}

func TestKeepPolicy(t *testing.T) {
	cfg := defaultConfig()
	cfg.ExitPolicy = ExitKeep
	s, tl, _ := newScheduler(cfg)

	s.EnterZone()
	tl.Advance(500 * ms)
	s.LeaveZone()
	assert.Equal(t, []bool{false, false, false, false}, s.Flags(), "partial reveals are cleared even when keeping")

	s.EnterZone()
	s.LeaveZone()
	assert.Equal(t, []bool{true, true, true, true}, s.Flags(), "completed reveal stays shown")
	assert.Zero(t, s.Progress())
}

func TestSettleProgress(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()
	s.Settle()

	tl.Advance(799 * ms)
	assert.Zero(t, s.Progress())

	tl.Advance(1 * ms)
	assert.Equal(t, 1.0, s.Progress())
}

func TestSettleProgressCancelledOnLeave(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()
	s.Settle()
	tl.Advance(400 * ms)

	s.LeaveZone()
	tl.Advance(time.Second)
	assert.Zero(t, s.Progress())
	assert.Zero(t, s.Pending())
}

func TestSettleProgressReplayIsImmediate(t *testing.T) {
	s, tl, _ := newScheduler(defaultConfig())
	s.EnterZone()
	s.Settle()
	tl.Advance(2 * time.Second)
	s.LeaveZone()

	s.EnterZone()
	s.Settle()
	assert.Equal(t, 1.0, s.Progress())
}

func TestTeardownCancelsEverything(t *testing.T) {
	s, tl, changes := newScheduler(defaultConfig())
	s.EnterZone()
	s.Settle()
	tl.Advance(350 * ms)
	before := *changes

	s.Teardown()
	assert.Zero(t, s.Pending())
	assert.Equal(t, []bool{false, false, false, false}, s.Flags())
	assert.Greater(t, *changes, before)

	tl.Advance(5 * time.Second)
	assert.Zero(t, s.Progress())
	assert.Zero(t, tl.Pending())
}

func TestEmptyPlanLatchesImmediately(t *testing.T) {
	cfg := defaultConfig()
	cfg.Stages = nil
	s, _, _ := newScheduler(cfg)
	s.EnterZone()
	assert.True(t, s.HasPlayedEver())
	assert.Empty(t, s.Flags())
}

func TestPlanValidate(t *testing.T) {
	require.NoError(t, StagesAt(300*ms, 800*ms).Validate())
	assert.Error(t, StagesAt(300*ms, 300*ms).Validate())
	assert.Error(t, StagesAt(-1*ms).Validate())
	assert.Error(t, Plan{{Delay: 10 * ms, Index: 1}}.Validate())

	assert.NoError(t, ExitKeep.Validate())
	assert.Error(t, ExitPolicy("fade").Validate())
}
