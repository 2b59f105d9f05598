package timing

import (
	"sync"
	"time"
)

// TimeProvider supplies wall-clock readings to a host frame loop
type TimeProvider interface {
	Now() time.Time
}

// SystemTimeProvider returns the real time with monotonic clock readings
type SystemTimeProvider struct{}

// Now returns time.Now()
func (SystemTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider provides a controllable time source for testing
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTimeProvider creates a new mock time provider with the given start time
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{currentTime: startTime}
}

// Now returns the current mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Advance advances the current time by the given duration
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// FrameClock turns successive wall-clock readings into per-frame deltas
type FrameClock struct {
	provider TimeProvider
	last     time.Time
	maxDelta time.Duration
}

// NewFrameClock creates a frame clock. Deltas larger than maxDelta are capped
// (zero disables the cap) so a stalled host does not replay a burst of timers.
func NewFrameClock(provider TimeProvider, maxDelta time.Duration) *FrameClock {
	if provider == nil {
		provider = SystemTimeProvider{}
	}
	return &FrameClock{provider: provider, maxDelta: maxDelta}
}

// Step returns the time elapsed since the previous Step; the first call returns 0
func (c *FrameClock) Step() time.Duration {
	now := c.provider.Now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	dt := now.Sub(c.last)
	c.last = now
	if dt < 0 {
		return 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		return c.maxDelta
	}
	return dt
}
