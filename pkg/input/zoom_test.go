package input

import (
	"math"
	"testing"
)

func TestZoomSettlesOnTarget(t *testing.T) {
	z := NewZoom(60)
	if !z.Settled() {
		t.Fatal("new zoom should be settled")
	}
	if d := z.Step(); d != 0 {
		t.Errorf("settled Step = %v, want 0", d)
	}

	z.Add(-3 * WheelNotch)
	var total float64
	for range 600 {
		d := z.Step()
		if d > 1e-12 {
			t.Fatalf("critically damped spring overshot: step %v", d)
		}
		total += d
	}
	if math.Abs(total+36) > 1e-9 {
		t.Errorf("total change = %v, want -36", total)
	}
	if !z.Settled() {
		t.Error("zoom did not settle")
	}
}
