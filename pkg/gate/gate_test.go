package gate

import (
	"testing"
)

// runs feeds n frames through the gate and counts how often it fires.
func runs(g *Gate, n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		g.Observe()
		if g.ShouldRun() {
			fired++
		}
	}
	return fired
}

func TestShouldRun_EveryFrameWithPeriodOne(t *testing.T) {
	g := New(1)

	if got := runs(g, 10); got != 10 {
		t.Errorf("period 1: expected 10 runs for 10 frames, got %d", got)
	}
}

func TestShouldRun_FloorOfFramesOverPeriod(t *testing.T) {
	// Locks in the modulo reset: M frames at period N fire floor(M/N)
	// times, not M times.
	cases := []struct {
		period, frames, want int
	}{
		{2, 10, 5},
		{3, 10, 3},
		{4, 3, 0},
		{4, 4, 1},
		{5, 23, 4},
	}

	for _, tc := range cases {
		g := New(tc.period)
		if got := runs(g, tc.frames); got != tc.want {
			t.Errorf("period %d, %d frames: expected %d runs, got %d",
				tc.period, tc.frames, tc.want, got)
		}
	}
}

func TestShouldRun_RemainderCarriesOver(t *testing.T) {
	g := New(3)

	// Frames 1, 2 do not fire; frame 3 fires and resets to 0.
	for i := 0; i < 2; i++ {
		g.Observe()
		if g.ShouldRun() {
			t.Fatalf("gate fired early at frame %d", i+1)
		}
	}
	g.Observe()
	if !g.ShouldRun() {
		t.Fatal("gate did not fire at frame 3")
	}

	// A second burst fires again after exactly 3 more frames.
	if got := runs(g, 3); got != 1 {
		t.Errorf("expected exactly 1 run in the next 3 frames, got %d", got)
	}
}

func TestNew_ClampsPeriod(t *testing.T) {
	if got := New(0).Period(); got != 1 {
		t.Errorf("expected period 0 to clamp to 1, got %d", got)
	}
	if got := New(-5).Period(); got != 1 {
		t.Errorf("expected negative period to clamp to 1, got %d", got)
	}
}
