// Package gate implements the frame throttling policy for inference.
package gate

// Gate amortizes an expensive per-frame step by running it only once every
// period frames. The counter keeps its remainder across runs, so observing
// M frames triggers exactly M/period runs.
type Gate struct {
	period  int
	counter int
}

// New creates a gate that fires once every period frames.
// Periods below 1 are clamped to 1, which fires on every frame.
func New(period int) *Gate {
	if period < 1 {
		period = 1
	}
	return &Gate{period: period}
}

// Observe counts one processed frame. It is called once per frame,
// regardless of the gating decision.
func (g *Gate) Observe() {
	g.counter++
}

// ShouldRun reports whether the expensive step is due this frame.
// When due, the counter is reduced modulo period rather than reset to zero.
func (g *Gate) ShouldRun() bool {
	if g.counter < g.period {
		return false
	}
	g.counter %= g.period
	return true
}

// Period returns the configured period.
func (g *Gate) Period() int {
	return g.period
}
