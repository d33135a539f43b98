// Package input turns frontend events into camera commands. Frontends feed a
// Controller from their own event loop and call Tick once per frame.
package input

import (
	"context"
	"log/slog"

	"github.com/taigrr/eyesim/pkg/math3d"
	"github.com/taigrr/eyesim/pkg/render"
)

// DefaultBindings maps key names to movement directions.
func DefaultBindings() map[string]render.Direction {
	return map[string]render.Direction{
		"w":     render.Forward,
		"s":     render.Backward,
		"a":     render.Left,
		"d":     render.Right,
		"space": render.Up,
		"shift": render.Down,
	}
}

const numDirections = int(render.Down) + 1

// Controller drives a Renderer's camera from key, mouse and wheel input.
//
// Mouse samples are buffered and at most one is handed to the camera per
// Tick, so the rotation speed does not depend on how often the frontend
// reports motion.
type Controller struct {
	// Bindings maps key names to movement directions.
	Bindings map[string]render.Direction

	// HoldTicks, when positive, releases a pressed key after that many
	// ticks without another Press. Terminals that only report key repeats
	// and never releases rely on it.
	HoldTicks int

	renderer *render.Renderer
	zoom     *Zoom
	hold     [numDirections]int

	buttonDown bool
	sample     *math3d.Vec2
	dirty      bool
}

// NewController creates a controller for r ticking fps times per second.
func NewController(r *render.Renderer, fps int) *Controller {
	return &Controller{
		Bindings: DefaultBindings(),
		renderer: r,
		zoom:     NewZoom(fps),
	}
}

// SetRenderer swaps the renderer, for example after the output is resized.
// Buffered input and held keys carry over.
func (c *Controller) SetRenderer(r *render.Renderer) {
	c.renderer = r
}

// Renderer returns the renderer being driven.
func (c *Controller) Renderer() *render.Renderer {
	return c.renderer
}

func (c *Controller) camera() *render.Camera {
	return c.renderer.Scene().Camera
}

// Press starts moving in the direction bound to key. It reports whether key
// is bound.
func (c *Controller) Press(key string) bool {
	dir, ok := c.Bindings[key]
	if !ok {
		return false
	}
	c.camera().SetMoving(dir, true)
	c.hold[dir] = c.HoldTicks
	return true
}

// Release stops moving in the direction bound to key. It reports whether
// key is bound.
func (c *Controller) Release(key string) bool {
	dir, ok := c.Bindings[key]
	if !ok {
		return false
	}
	c.camera().SetMoving(dir, false)
	c.hold[dir] = 0
	return true
}

// ReleaseAll stops all movement, for example when the window loses focus.
func (c *Controller) ReleaseAll() {
	for dir := range render.Direction(numDirections) {
		c.camera().SetMoving(dir, false)
		c.hold[dir] = 0
	}
}

// MouseDown starts a rotation gesture at p.
func (c *Controller) MouseDown(p math3d.Vec2) {
	c.buttonDown = true
	c.setSample(&p)
}

// MouseMove continues the rotation gesture. Motion with the button up is
// ignored.
func (c *Controller) MouseMove(p math3d.Vec2) {
	if !c.buttonDown {
		return
	}
	c.setSample(&p)
}

// MouseUp ends the rotation gesture.
func (c *Controller) MouseUp() {
	c.buttonDown = false
	c.setSample(nil)
}

func (c *Controller) setSample(p *math3d.Vec2) {
	c.sample = p
	c.dirty = true
}

// Scroll zooms by delta scroll units; WheelNotch is one notch. Positive
// values narrow the field of view.
func (c *Controller) Scroll(delta float64) {
	c.zoom.Add(delta)
}

// Tick applies buffered input, advances the camera one step and renders a
// frame into sink.
func (c *Controller) Tick(sink render.Sink) render.FrameStats {
	if c.dirty {
		c.camera().Rotate(c.sample)
		c.dirty = false
	}

	if d := c.zoom.Step(); d != 0 {
		c.renderer.AdjustFOV(d)
	}

	stats := c.renderer.Frame(sink)
	c.expireHolds()

	if l := render.Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		hor, vert := c.camera().Heading()
		l.Debug("tick",
			"position", c.camera().Position(),
			"hor", hor,
			"vert", vert,
			"dragging", c.camera().Dragging(),
		)
	}
	return stats
}

func (c *Controller) expireHolds() {
	if c.HoldTicks <= 0 {
		return
	}
	for dir := range render.Direction(numDirections) {
		if c.hold[dir] == 0 {
			continue
		}
		c.hold[dir]--
		if c.hold[dir] == 0 {
			c.camera().SetMoving(dir, false)
		}
	}
}
