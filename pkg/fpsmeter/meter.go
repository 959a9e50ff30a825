// Package fpsmeter measures frame throughput over a sliding window.
//
// The meter is an observer of frame-completion events; it lives outside the
// processing core and is sampled by whoever drives the frame loop.
package fpsmeter

import (
	"fmt"
	"sync"
	"time"
)

// DefaultWindow is the sliding window used by New.
const DefaultWindow = 2 * time.Second

// Meter counts frame-completion samples inside a sliding time window.
// It is safe for concurrent use.
type Meter struct {
	mu      sync.Mutex
	window  time.Duration
	samples []time.Time
	now     func() time.Time
}

// New creates a meter with the given sliding window.
// Windows below one millisecond fall back to DefaultWindow.
func New(window time.Duration) *Meter {
	if window < time.Millisecond {
		window = DefaultWindow
	}
	return &Meter{
		window: window,
		now:    time.Now,
	}
}

// Sample records one completed frame.
func (m *Meter) Sample() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.samples = append(m.samples, now)
	m.trim(now)
}

// Rate returns the frame rate over the window, in frames per second.
// Before a full window has elapsed the rate is measured over the span
// actually covered, so short runs are not understated.
func (m *Meter) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.trim(now)
	if len(m.samples) == 0 {
		return 0
	}
	span := now.Sub(m.samples[0])
	if span <= 0 || span > m.window {
		span = m.window
	}
	return float64(len(m.samples)) / span.Seconds()
}

// String formats the current rate as an overlay label.
func (m *Meter) String() string {
	return fmt.Sprintf("%.1f fps", m.Rate())
}

// trim drops samples that fell out of the window. Callers hold mu.
func (m *Meter) trim(now time.Time) {
	cutoff := now.Add(-m.window)
	i := 0
	for i < len(m.samples) && m.samples[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		m.samples = append(m.samples[:0], m.samples[i:]...)
	}
}
