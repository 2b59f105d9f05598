package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scrollstage/internal/engine"
	"github.com/ivlev/scrollstage/internal/system"
)

// Theme holds the colors of a diagnostic frame
type Theme struct {
	Background color.RGBA
	Foreground color.RGBA
	Accent     color.RGBA
	Dim        color.RGBA
}

var DefaultTheme = Theme{
	Background: color.RGBA{R: 14, G: 16, B: 22, A: 255},
	Foreground: color.RGBA{R: 220, G: 224, B: 232, A: 255},
	Accent:     color.RGBA{R: 255, G: 170, B: 60, A: 255},
	Dim:        color.RGBA{R: 70, G: 76, B: 90, A: 255},
}

const (
	lineHeight = 16
	margin     = 12
)

// FrameRenderer draws orchestrator snapshots as storyboard frames.
// It is safe for concurrent use; every Render works on its own image.
type FrameRenderer struct {
	Width  int
	Height int
	Theme  Theme
	face   font.Face
}

// NewFrameRenderer creates a renderer for frames of the given size
func NewFrameRenderer(width, height int) *FrameRenderer {
	return &FrameRenderer{
		Width:  width,
		Height: height,
		Theme:  DefaultTheme,
		face:   basicfont.Face7x13,
	}
}

// Render draws s into a pooled frame. Return it with system.PutImage when done.
func (r *FrameRenderer) Render(s engine.Snapshot) *image.RGBA {
	img := system.GetImage(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Theme.Background), image.Point{}, draw.Src)

	y := margin + lineHeight
	y = r.text(img, margin, y, r.Theme.Accent, fmt.Sprintf("t=%-8s scroll=%.0f zone=%d %s phase=%.2f",
		s.Time.Truncate(time.Millisecond), s.Scroll, s.Zone, s.Section, s.Phase))
	y = r.text(img, margin, y, r.Theme.Foreground, "pose   "+formatPose(s.Pose.Position.X(), s.Pose.Position.Y(), s.Pose.Position.Z(),
		s.Pose.Rotation.X(), s.Pose.Rotation.Y(), s.Pose.Rotation.Z(), s.Pose.Scale))
	y = r.text(img, margin, y, r.Theme.Dim, "target "+formatPose(s.Target.Position.X(), s.Target.Position.Y(), s.Target.Position.Z(),
		s.Target.Rotation.X(), s.Target.Rotation.Y(), s.Target.Rotation.Z(), s.Target.Scale))

	status := "idle"
	if s.Settled {
		status = "settled"
	}
	if s.HasPlayedEver {
		status += " played"
	}
	y = r.text(img, margin, y, r.Theme.Foreground, fmt.Sprintf("progress %3.0f%%  %s", s.Progress*100, status))

	y += lineHeight / 2
	r.bar(img, image.Rect(margin, y, r.Width-margin, y+8), s.Progress)
	y += 8 + lineHeight/2
	y = r.flags(img, y, s.Flags)

	y += lineHeight
	for _, t := range s.Texts {
		c := r.Theme.Dim
		if t.Shown {
			c = r.Theme.Foreground
		}
		line := t.Displayed
		if t.Cursor {
			line += "_"
		}
		y = r.text(img, margin, y, c, fmt.Sprintf("%-10s %s", t.Name, line))
	}

	r.marker(img, s)
	return img
}

func (r *FrameRenderer) text(dst draw.Image, x, y int, c color.RGBA, s string) int {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
	return y + lineHeight
}

func (r *FrameRenderer) bar(img *image.RGBA, rect image.Rectangle, v float64) {
	draw.Draw(img, rect, image.NewUniform(r.Theme.Dim), image.Point{}, draw.Src)
	v = math.Max(0, math.Min(1, v))
	fill := rect
	fill.Max.X = rect.Min.X + int(float64(rect.Dx())*v)
	draw.Draw(img, fill, image.NewUniform(r.Theme.Accent), image.Point{}, draw.Src)
}

func (r *FrameRenderer) flags(img *image.RGBA, y int, flags []bool) int {
	const size = 14
	x := margin
	for _, on := range flags {
		c := r.Theme.Dim
		if on {
			c = r.Theme.Accent
		}
		draw.Draw(img, image.Rect(x, y, x+size, y+size), image.NewUniform(c), image.Point{}, draw.Src)
		x += size + 6
	}
	return y + size
}

// marker projects the pose onto the right half of the frame: position moves it,
// scale sizes it, and rotation around Z tilts a tick from its center.
func (r *FrameRenderer) marker(img *image.RGBA, s engine.Snapshot) {
	cx := float64(r.Width) * 0.75
	cy := float64(r.Height) * 0.5
	unit := float64(min(r.Width, r.Height)) / 8

	px := cx + s.Pose.Position.X()*unit
	py := cy - s.Pose.Position.Y()*unit
	half := math.Max(2, s.Pose.Scale*unit/2)

	rect := image.Rect(int(px-half), int(py-half), int(px+half), int(py+half)).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(img, rect, image.NewUniform(r.Theme.Foreground), image.Point{}, draw.Src)

	angle := s.Pose.Rotation.Z()
	for i := 0.0; i < half*1.5; i++ {
		x := int(px + math.Cos(angle)*i)
		y := int(py - math.Sin(angle)*i)
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetRGBA(x, y, r.Theme.Accent)
		}
	}
}

func formatPose(px, py, pz, rx, ry, rz, scale float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pos(%+.2f %+.2f %+.2f) ", px, py, pz)
	fmt.Fprintf(&b, "rot(%+.2f %+.2f %+.2f) ", rx, ry, rz)
	fmt.Fprintf(&b, "scale %.2f", scale)
	return b.String()
}

// WritePNG encodes img to path
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return f.Close()
}

// WriteFrame renders s and writes it as a PNG to path
func (r *FrameRenderer) WriteFrame(s engine.Snapshot, path string) error {
	img := r.Render(s)
	defer system.PutImage(img)
	return WritePNG(path, img)
}
