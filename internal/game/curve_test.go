package game

import (
	"math"
	"testing"
)

func TestLinearCurveExpected(t *testing.T) {
	c := LinearCurve{Rate: 0.15, Max: 1000}

	if got := c.Expected(0); got != 1 {
		t.Fatalf("Expected(0) = %v, want 1", got)
	}
	if got := c.Expected(10); math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("Expected(10) = %v, want 2.5", got)
	}
}

func TestLinearCurveNegativeElapsed(t *testing.T) {
	c := LinearCurve{Rate: 0.15, Max: 1000}
	if got := c.Expected(-5); got != 1 {
		t.Fatalf("Expected(-5) = %v, want 1 (clock skew must fail closed)", got)
	}
}

func TestLinearCurveClamp(t *testing.T) {
	c := LinearCurve{Rate: 0.15, Max: 3}
	if got := c.Expected(1000); got != 3 {
		t.Fatalf("Expected(1000) = %v, want clamp at 3", got)
	}
}

func TestLinearCurveMonotonic(t *testing.T) {
	c := LinearCurve{Rate: 0.15, Max: 1000}
	prev := c.Expected(0)
	for s := 1; s <= 10000; s++ {
		cur := c.Expected(float64(s) / 10)
		if cur < prev {
			t.Fatalf("curve decreased at %vs: %v -> %v", float64(s)/10, prev, cur)
		}
		prev = cur
	}
}
