package engine

import (
	"time"

	"github.com/ivlev/scrollstage/internal/keyframe"
)

// TextState is the displayed state of one text block
type TextState struct {
	Name      string
	Mode      string
	Stage     int
	Displayed string
	Cursor    bool // typewriter only
	Active    bool
	Done      bool
	Shown     bool // stage flag level
}

// Snapshot is an immutable copy of the orchestrator outputs for one frame
type Snapshot struct {
	Time          time.Duration
	Scroll        float64
	ViewportUnit  float64
	Zone          int
	Phase         float64
	Section       string
	Pose          keyframe.Pose
	Target        keyframe.Pose
	Progress      float64
	Flags         []bool
	HasPlayedEver bool
	Settled       bool
	Texts         []TextState
	Mounted       bool
	ModelBound    bool
}
