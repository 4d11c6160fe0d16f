package annotate

import "time"

// minDelta guards the reciprocal against division by near-zero when two
// renders land on the same millisecond.
const minDelta = time.Millisecond

// fpsMeter estimates frames per second from the wall-clock spacing of
// consecutive ticks. It is a raw instantaneous reciprocal, not smoothed:
// uneven detector latency should be visible, not averaged away.
type fpsMeter struct {
	prev time.Time
}

// Tick records a render at t and returns the instantaneous FPS.
// The first tick has no delta to measure and returns ok=false.
func (m *fpsMeter) Tick(t time.Time) (fps float64, ok bool) {
	if m.prev.IsZero() {
		m.prev = t
		return 0, false
	}

	delta := t.Sub(m.prev)
	if delta < minDelta {
		delta = minDelta
	}
	m.prev = t

	return float64(time.Second) / float64(delta), true
}
