package input

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// WheelNotch is the scroll delta reported for one wheel notch.
	WheelNotch = 120

	// WheelDivisor converts scroll delta into observing distance.
	WheelDivisor = 10

	settleEpsilon = 0.01
)

// Zoom smooths scroll input with a critically damped spring. The spring
// position is the total observing distance change requested so far; each
// Step reports how far it moved since the previous one.
type Zoom struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// NewZoom creates a zoom spring stepped fps times per second.
func NewZoom(fps int) *Zoom {
	return &Zoom{
		// Frequency 6.0 settles in about half a second, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Add requests a change of delta scroll units.
func (z *Zoom) Add(delta float64) {
	z.target += delta / WheelDivisor
}

// Step advances the spring one tick and returns the distance moved.
func (z *Zoom) Step() float64 {
	if z.Settled() {
		return 0
	}
	prev := z.pos
	z.pos, z.vel = z.spring.Update(z.pos, z.vel, z.target)
	if math.Abs(z.target-z.pos) < settleEpsilon && math.Abs(z.vel) < settleEpsilon {
		z.pos, z.vel = z.target, 0
	}
	return z.pos - prev
}

// Settled reports whether the spring has reached its target.
func (z *Zoom) Settled() bool {
	return z.pos == z.target && z.vel == 0
}
