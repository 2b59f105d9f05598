package system

import (
	"image"
	"sync"
)

// ImagePool hands out RGBA frames per frame size. The storyboard renders every
// frame at one size, so in practice a single sync.Pool carries the load.
type ImagePool struct {
	mu    sync.Mutex
	sizes map[image.Rectangle]*sync.Pool
}

var frames = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{sizes: make(map[image.Rectangle]*sync.Pool)}
}

// GetImage takes a frame from the shared pool
func GetImage(rect image.Rectangle) *image.RGBA {
	return frames.Get(rect)
}

// PutImage returns a frame to the shared pool
func PutImage(img *image.RGBA) {
	frames.Put(img)
}

func (p *ImagePool) pool(rect image.Rectangle, create bool) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp := p.sizes[rect]
	if sp == nil && create {
		sp = &sync.Pool{New: func() any { return image.NewRGBA(rect) }}
		p.sizes[rect] = sp
	}
	return sp
}

// Get returns a frame with bounds rect. Its pixels are whatever the previous
// user left; callers paint the whole frame.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	return p.pool(rect, true).Get().(*image.RGBA)
}

// Put recycles img. Frames of a size never requested through Get are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	if sp := p.pool(img.Rect, false); sp != nil {
		sp.Put(img)
	}
}
