// Package game holds the multiplier curve shared by display logic and
// the settlement engine's fraud check. Both sides must use the same
// Oracle value; a divergence between them is a correctness bug.
package game

// Oracle maps elapsed time to the expected payout multiplier. It must be
// deterministic and monotonically non-decreasing over non-negative input.
type Oracle interface {
	Expected(elapsedSeconds float64) float64
}

// LinearCurve grows the multiplier by Rate per second from 1.0,
// capped at Max to keep payout arithmetic bounded.
type LinearCurve struct {
	Rate float64
	Max  float64
}

func (c LinearCurve) Expected(elapsedSeconds float64) float64 {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	m := 1 + elapsedSeconds*c.Rate
	if c.Max > 0 && m > c.Max {
		return c.Max
	}
	return m
}
