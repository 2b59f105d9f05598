package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scrollstage/internal/config"
)

func TestGenerateScript(t *testing.T) {
	table := config.Default().Keyframes
	d := NewDirector(900)
	d.Revisit = 1

	script, err := d.GenerateScript(table, "tour", 20.0)
	require.NoError(t, err)

	assert.Equal(t, "1.0", script.Version)
	assert.Equal(t, 900.0, script.ViewportUnit)

	// intro (2) + 4 sections + revisit, each arrive + dwell
	require.Len(t, script.Keyframes, 2+2*5)

	for i := 1; i < len(script.Keyframes); i++ {
		assert.GreaterOrEqual(t, script.Keyframes[i].Time, script.Keyframes[i-1].Time, "keyframe %d goes back in time", i)
	}

	last := script.Keyframes[len(script.Keyframes)-1]
	assert.Equal(t, "about", last.Focus)
	assert.Equal(t, 900.0, last.Scroll)
	assert.Equal(t, last.Time, script.Duration)

	for _, kf := range script.Keyframes {
		assert.LessOrEqual(t, kf.Pointer[0], 1.0)
		assert.GreaterOrEqual(t, kf.Pointer[0], -1.0)
	}

	t.Logf("Generated script with %d keyframes over %.1fs", len(script.Keyframes), script.Duration)
}

func TestGenerateScriptErrors(t *testing.T) {
	_, err := NewDirector(900).GenerateScript(nil, "empty", 10)
	assert.Error(t, err)

	_, err = NewDirector(0).GenerateScript(config.Default().Keyframes, "flat", 10)
	assert.Error(t, err)
}

func TestCalculateDwellTime(t *testing.T) {
	d := NewDirector(900)

	tests := []struct {
		total float64
		stops int
		want  float64
	}{
		{total: 100, stops: 2, want: d.MaxDwell},
		{total: 1, stops: 10, want: d.MinDwell},
		{total: 1 + 4*0.8 + 4*2, stops: 4, want: 2},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, d.calculateDwellTime(tt.total, tt.stops), 1e-9)
	}
}
