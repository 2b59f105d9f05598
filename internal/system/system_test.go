package system

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 32, 16)

	img := p.Get(rect)
	require.NotNil(t, img)
	assert.Equal(t, rect, img.Rect)

	p.Put(img)
	p.Put(nil)
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3))) // unknown size is dropped

	again := p.Get(rect)
	assert.Equal(t, rect, again.Rect)
}

func TestDefaultQuality(t *testing.T) {
	assert.Equal(t, 75, DefaultQuality("h264_videotoolbox"))
	assert.Equal(t, 28, DefaultQuality("h264_nvenc"))
	assert.Equal(t, 23, DefaultQuality("libx264"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "3.0 MiB", FormatBytes(3*1024*1024))
}

func TestReadUsage(t *testing.T) {
	u, err := ReadUsage()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	assert.Greater(t, u.RSS, uint64(0))
}
