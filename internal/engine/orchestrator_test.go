package engine

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scrollstage/internal/cascade"
	"github.com/ivlev/scrollstage/internal/config"
	"github.com/ivlev/scrollstage/internal/keyframe"
)

const ms = time.Millisecond

type fakeModel struct {
	last  keyframe.Pose
	calls int
}

func (m *fakeModel) SetPose(p keyframe.Pose) {
	m.last = p
	m.calls++
}

func testChoreography() *config.Choreography {
	c := config.Default()
	c.ViewportUnit = 100
	c.Texts = []config.Text{
		{Name: "title", Mode: config.ModeTypewriter, Text: "AB", Interval: 50 * ms, Hold: 500 * ms, Stage: 0},
		{Name: "tag", Mode: config.ModeFlip, Text: "b", Interval: 1 * ms, Stage: 1},
	}
	return c
}

func newMounted(t *testing.T) (*Orchestrator, *fakeModel) {
	t.Helper()
	o, err := New(testChoreography())
	require.NoError(t, err)
	m := &fakeModel{}
	o.Mount(m)
	return o, m
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	c := config.Default()
	c.Settle.Epsilon = 0
	_, err = New(c)
	assert.ErrorContains(t, err, "settle.epsilon")
}

func TestTickBeforeMountIsNoop(t *testing.T) {
	o, err := New(testChoreography())
	require.NoError(t, err)

	o.OnScroll(100)
	o.Tick(time.Second)

	assert.Zero(t, o.Now())
	assert.Equal(t, []bool{false, false, false, false}, o.Flags())
}

func TestStagedRevealThroughOrchestrator(t *testing.T) {
	o, _ := newMounted(t)

	o.OnScroll(100) // top of the milestone zone
	o.Tick(0)
	assert.True(t, o.Settled())

	o.Tick(250 * ms)
	assert.Equal(t, []bool{false, false, false, false}, o.Flags())

	o.Tick(100 * ms) // t=350: stage 0 at 300, typewriter ticked once at 350
	assert.Equal(t, []bool{true, false, false, false}, o.Flags())
	texts := o.Texts()
	assert.Equal(t, "A", texts[0].Displayed)
	assert.True(t, texts[0].Cursor)

	o.Tick(50 * ms) // t=400
	assert.Equal(t, "AB", o.Texts()[0].Displayed)

	o.Tick(400 * ms) // t=800: stage 1 and settle progress
	assert.Equal(t, 1.0, o.Progress())
	assert.Equal(t, []bool{true, true, false, false}, o.Flags())

	o.Tick(2 * ms) // flip converges in two ticks
	assert.Equal(t, "b", o.Texts()[1].Displayed)
	assert.True(t, o.Texts()[1].Done)

	o.Tick(1050 * ms) // t=1852
	assert.Equal(t, []bool{true, true, true, true}, o.Flags())
	assert.True(t, o.HasPlayedEver())
	assert.False(t, o.Texts()[0].Cursor, "cursor hidden 500ms after completion")
}

func TestLeavingResetsAndReplayIsImmediate(t *testing.T) {
	o, _ := newMounted(t)
	o.OnScroll(100)
	o.Tick(0)
	o.Tick(2 * time.Second)
	require.True(t, o.HasPlayedEver())

	o.OnScroll(250)
	o.Tick(16 * ms)
	assert.Equal(t, []bool{false, false, false, false}, o.Flags())
	assert.Zero(t, o.Progress())
	assert.Equal(t, "", o.Texts()[0].Displayed, "typewriter clears on falling edge")
	assert.Equal(t, "b", o.Texts()[1].Displayed, "flip keeps its display")

	o.OnScroll(100)
	o.Tick(16 * ms)
	assert.Equal(t, []bool{true, true, true, true}, o.Flags())
	assert.Equal(t, 1.0, o.Progress())
}

func TestLeavingMidCascadeCancelsTimers(t *testing.T) {
	o, _ := newMounted(t)
	o.OnScroll(100)
	o.Tick(0)
	o.Tick(900 * ms)
	require.Equal(t, []bool{true, true, false, false}, o.Flags())

	o.OnScroll(0)
	o.Tick(16 * ms)
	assert.Equal(t, []bool{false, false, false, false}, o.Flags())

	o.Tick(5 * time.Second)
	assert.Equal(t, []bool{false, false, false, false}, o.Flags())
	assert.Zero(t, o.Progress())
}

func TestPoseFollowsScroll(t *testing.T) {
	o, m := newMounted(t)
	c := testChoreography()

	o.OnScroll(250)
	for i := 0; i < 400; i++ {
		o.Tick(16 * ms)
	}

	want := keyframe.Interpolate(c.Keyframes, 250, 100)
	got := o.Pose()
	assert.InDelta(t, want.Scale, got.Scale, 1e-6)
	assert.True(t, want.Position.ApproxEqualThreshold(got.Position, 1e-6))
	assert.Equal(t, 400, m.calls)
	assert.Equal(t, got, m.last)
	assert.Equal(t, "projects", o.Snapshot().Section)
}

func TestUnboundModelStillRunsCascade(t *testing.T) {
	o, err := New(testChoreography())
	require.NoError(t, err)
	o.Mount(nil)

	start := o.Pose()
	o.OnScroll(100)
	o.Tick(0)
	o.Tick(2 * time.Second)

	assert.Equal(t, start, o.Pose(), "no model, no integration")
	assert.True(t, o.HasPlayedEver())

	m := &fakeModel{}
	o.BindModel(m)
	o.Tick(16 * ms)
	assert.Equal(t, 1, m.calls)
}

func TestUnmountCancelsEverything(t *testing.T) {
	o, m := newMounted(t)
	o.OnScroll(100)
	o.Tick(0)
	o.Tick(500 * ms)

	o.Unmount()
	o.Unmount()

	assert.False(t, o.Mounted())
	assert.Equal(t, []bool{false, false, false, false}, o.Flags())
	assert.Zero(t, o.tl.Pending())

	calls := m.calls
	o.Tick(time.Second)
	assert.Equal(t, calls, m.calls)

	// Remounting on the milestone counts as a re-entry
	o.Mount(m)
	o.Tick(16 * ms)
	assert.Equal(t, []bool{true, true, true, true}, o.Flags())
}

func TestPointerIsClamped(t *testing.T) {
	o, _ := newMounted(t)
	o.OnPointer(4, -9)
	assert.Equal(t, mgl64.Vec2{1, -1}, o.pointer)
}

func TestKeepPolicyThroughOrchestrator(t *testing.T) {
	c := testChoreography()
	c.Cascade.ExitPolicy = cascade.ExitKeep
	o, err := New(c)
	require.NoError(t, err)
	o.Mount(&fakeModel{})

	o.OnScroll(100)
	o.Tick(0)
	o.Tick(2 * time.Second)
	o.OnScroll(300)
	o.Tick(16 * ms)

	assert.Equal(t, []bool{true, true, true, true}, o.Flags())
	assert.Equal(t, "AB", o.Texts()[0].Displayed)
}

func TestKeepPolicySurvivesRemount(t *testing.T) {
	c := testChoreography()
	c.Cascade.ExitPolicy = cascade.ExitKeep
	o, err := New(c)
	require.NoError(t, err)
	o.Mount(&fakeModel{})

	o.OnScroll(100)
	o.Tick(0)
	o.Tick(2 * time.Second)
	o.Unmount()

	o.OnScroll(300)
	o.Mount(&fakeModel{})
	o.Tick(16 * ms)
	o.Tick(200 * ms)

	assert.Equal(t, []bool{true, true, true, true}, o.Flags())
	texts := o.Texts()
	assert.True(t, texts[0].Shown)
	assert.Equal(t, "AB", texts[0].Displayed, "typewriter follows the kept flag")
	assert.True(t, texts[1].Shown)
	assert.Equal(t, "b", texts[1].Displayed)
}

func TestLoggerReceivesTransitions(t *testing.T) {
	var buf bytes.Buffer
	o, err := New(testChoreography(), WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)
	o.Mount(&fakeModel{})
	o.OnScroll(100)
	o.Tick(0)
	o.Tick(2 * time.Second)

	out := buf.String()
	assert.Contains(t, out, "entered milestone zone 1")
	assert.Contains(t, out, `settled on "about"`)
	assert.Contains(t, out, "staged reveal latched")
}

func TestSnapshot(t *testing.T) {
	o, _ := newMounted(t)
	o.OnScroll(150)
	o.Tick(16 * ms)

	s := o.Snapshot()
	assert.Equal(t, 1, s.Zone)
	assert.InDelta(t, 0.5, s.Phase, 1e-12)
	assert.Equal(t, "about", s.Section)
	assert.True(t, s.Mounted)
	assert.True(t, s.ModelBound)
	assert.Len(t, s.Texts, 2)
	assert.Equal(t, 16*ms, s.Time)

	s.Flags[0] = true
	assert.False(t, o.Flags()[0], "snapshot flags are a copy")
}
