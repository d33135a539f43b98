package render

import (
	"math"

	"github.com/taigrr/eyesim/pkg/math3d"
)

// MaxElevation bounds the vertical angle away from the poles, where the
// horizontal angle stops meaning anything.
const MaxElevation = math.Pi/2 - 0.001

// Direction names one of the six movement flags.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Movement holds the six independent movement flags.
type Movement struct {
	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
}

// Camera is the viewer: a position plus a heading given as a horizontal
// angle (azimuth from +X toward +Y) and a vertical angle (elevation).
//
// A Camera is mutated only by its commands: Rotate and the drag helpers for
// orientation, SetMoving and Move for translation.
type Camera struct {
	position math3d.Vec3
	hor      float64 // [0, 2π)
	vert     float64 // [-MaxElevation, MaxElevation]

	anchor *math3d.Vec2 // non-nil while a drag is in progress
	moving Movement

	cfg CameraConfig
}

// NewCamera creates a camera at the origin looking along +X.
// A zero RotateScale falls back to the default of 100.
func NewCamera(cfg CameraConfig) *Camera {
	if cfg.RotateScale == 0 {
		cfg.RotateScale = DefaultCameraConfig().RotateScale
	}
	return &Camera{cfg: cfg}
}

// Config returns the camera's movement settings.
func (c *Camera) Config() CameraConfig {
	return c.cfg
}

// Position returns the camera position.
func (c *Camera) Position() math3d.Vec3 {
	return c.position
}

// SetPosition moves the camera to pos.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
}

// Heading returns the horizontal and vertical angles in radians.
func (c *Camera) Heading() (hor, vert float64) {
	return c.hor, c.vert
}

// SetHeading sets the view angles. hor is reduced modulo 2π into [0, 2π)
// and vert is clamped to [-MaxElevation, MaxElevation].
func (c *Camera) SetHeading(hor, vert float64) {
	c.hor = wrapAngle(hor)
	c.vert = clampElevation(vert)
}

// Direction returns the unit heading vector.
func (c *Camera) Direction() math3d.Vec3 {
	return math3d.FromAngles(c.hor, c.vert)
}

// Left returns the horizontal unit vector a quarter turn left of the heading.
func (c *Camera) Left() math3d.Vec3 {
	return math3d.FromAngles(c.hor+math.Pi/2, 0)
}

// UpVector returns the unit vector perpendicular to the heading in the
// vertical plane that contains it.
func (c *Camera) UpVector() math3d.Vec3 {
	return math3d.FromAngles(c.hor, c.vert+math.Pi/2)
}

// Dragging reports whether a rotation gesture is in progress.
func (c *Camera) Dragging() bool {
	return c.anchor != nil
}

// Rotate consumes one drag sample. While dragging, the offset from the
// previous sample divided by RotateScale is added to the angles. The sample
// then becomes the new anchor; a nil sample ends the drag.
func (c *Camera) Rotate(next *math3d.Vec2) {
	if c.anchor != nil && next != nil {
		d := next.Sub(*c.anchor).Scale(1 / c.cfg.RotateScale)
		c.SetHeading(c.hor+d.X, c.vert+d.Y)
	}
	if next == nil {
		c.anchor = nil
		return
	}
	p := *next
	c.anchor = &p
}

// StartDrag begins a rotation gesture at p without rotating, replacing any
// anchor left over from an unfinished gesture.
func (c *Camera) StartDrag(p math3d.Vec2) {
	c.anchor = &p
}

// DragTo continues (or starts) a rotation gesture at p.
func (c *Camera) DragTo(p math3d.Vec2) {
	c.Rotate(&p)
}

// EndDrag ends the rotation gesture.
func (c *Camera) EndDrag() {
	c.Rotate(nil)
}

// SetMoving sets or clears one movement flag.
func (c *Camera) SetMoving(dir Direction, on bool) {
	switch dir {
	case Forward:
		c.moving.Forward = on
	case Backward:
		c.moving.Backward = on
	case Left:
		c.moving.Left = on
	case Right:
		c.moving.Right = on
	case Up:
		c.moving.Up = on
	case Down:
		c.moving.Down = on
	}
}

// Moving returns the current movement flags.
func (c *Camera) Moving() Movement {
	return c.moving
}

// Move advances the position by one step of Speed along each axis pair on
// which exactly one flag is set:
//   - forward/backward along the heading (its horizontal part only when
//     VerticalMovement is off)
//   - right/left along the horizontal vector at hor - π/2
//   - up/down along +Z
func (c *Camera) Move() {
	m := c.moving
	step := c.cfg.Speed

	if m.Forward != m.Backward {
		vert := 0.0
		if c.cfg.VerticalMovement {
			vert = c.vert
		}
		c.position = c.position.Add(math3d.FromAngles(c.hor, vert).Scale(sign(m.Forward) * step))
	}
	if m.Left != m.Right {
		right := math3d.FromAngles(c.hor-math.Pi/2, 0)
		c.position = c.position.Add(right.Scale(sign(m.Right) * step))
	}
	if m.Up != m.Down {
		c.position = c.position.Add(math3d.Up().Scale(sign(m.Up) * step))
	}
}

func sign(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// a tiny negative input rounds up to exactly 2π
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

func clampElevation(v float64) float64 {
	return math.Max(-MaxElevation, math.Min(MaxElevation, v))
}
