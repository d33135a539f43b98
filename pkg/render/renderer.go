// Package render casts one viewing ray per output cell through a scene of
// convex polygons and emits back-to-front paint instructions.
package render

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"

	"github.com/taigrr/eyesim/pkg/geom"
	"github.com/taigrr/eyesim/pkg/math3d"
)

// Hit is one polygon crossed by a viewing ray.
type Hit struct {
	Polygon   *geom.ConvexPolygon
	PolygonID string
	Point     math3d.Vec3
	T         float64 // Ray parameter; 1 is the view plane
	Distance  float64 // Distance from the eye
}

// FrameStats summarizes one Render call.
type FrameStats struct {
	Cells    int // Cells cast
	RayTests int // Ray-polygon intersection tests
	Hits     int // Paint instructions emitted
}

// Renderer draws a Scene. It keeps the view-plane distance, which field of
// view adjustments change, and scratch space reused between frames.
//
// The eye sits at the camera position. The view plane is perpendicular to
// the heading at ObservingDistance in front of the eye, with one world unit
// per output pixel, so the ray for pixel (x, y) passes through
//
//	eye + d·heading + (W/2 - x)·left + (H/2 - y)·up
//
// Every polygon crossed in front of the eye is painted, farthest first.
type Renderer struct {
	cfg      Config
	scene    *Scene
	distance float64
	hits     []Hit
}

// NewRenderer creates a renderer for scene. The scene must have a camera.
func NewRenderer(cfg Config, scene *Scene) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scene == nil || scene.Camera == nil {
		return nil, errors.New("render: scene has no camera")
	}
	return &Renderer{
		cfg:      cfg,
		scene:    scene,
		distance: cfg.observingDistance(),
	}, nil
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Scene returns the scene being rendered.
func (r *Renderer) Scene() *Scene {
	return r.scene
}

// ObservingDistance returns the current eye to view plane distance.
func (r *Renderer) ObservingDistance() float64 {
	return r.distance
}

// AdjustFOV adds delta to the observing distance. A larger distance narrows
// the field of view. The result never drops below MinObservingDistance.
func (r *Renderer) AdjustFOV(delta float64) {
	r.distance = max(r.distance+delta, MinObservingDistance)
}

// Advance integrates camera movement for one tick.
func (r *Renderer) Advance() {
	r.scene.Camera.Move()
}

// Frame advances the camera and renders into sink.
func (r *Renderer) Frame(sink Sink) FrameStats {
	r.Advance()
	return r.Render(sink)
}

// viewFrame is the per-frame ray basis.
type viewFrame struct {
	eye, center, left, up math3d.Vec3
	halfW, halfH          float64
}

func (r *Renderer) frame() viewFrame {
	cam := r.scene.Camera
	eye := cam.Position()
	return viewFrame{
		eye:    eye,
		center: eye.Add(cam.Direction().Scale(r.distance)),
		left:   cam.Left(),
		up:     cam.UpVector(),
		halfW:  float64(r.cfg.Width) / 2,
		halfH:  float64(r.cfg.Height) / 2,
	}
}

// through returns the view-plane point for output position (x, y).
func (f viewFrame) through(x, y float64) math3d.Vec3 {
	return f.center.
		Add(f.left.Scale(f.halfW - x)).
		Add(f.up.Scale(f.halfH - y))
}

// Render casts one ray per cell and paints every hit, farthest first, over
// the whole cell. Cells are visited row by row.
func (r *Renderer) Render(sink Sink) FrameStats {
	f := r.frame()
	cell := r.cfg.CellSize
	cols, rows := r.cfg.Width/cell, r.cfg.Height/cell
	half := float64(cell) / 2

	var stats FrameStats
	for j := range rows {
		for i := range cols {
			x, y := i*cell, j*cell
			r.hits = r.cast(f.eye, f.through(float64(x)+half, float64(y)+half), r.hits[:0])

			rect := image.Rect(x, y, x+cell, y+cell)
			for _, h := range r.hits {
				sink.Paint(PaintOp{
					Rect:      rect,
					Color:     h.Polygon.Fill(),
					PolygonID: h.PolygonID,
					Distance:  h.Distance,
				})
			}
			stats.Hits += len(r.hits)
		}
	}
	stats.Cells = rows * cols
	stats.RayTests = stats.Cells * r.scene.Len()

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("frame rendered",
			"cells", stats.Cells,
			"ray_tests", stats.RayTests,
			"hits", stats.Hits,
			"observing_distance", r.distance,
		)
	}
	return stats
}

// Cast returns the polygons hit by the ray through output position (x, y),
// sorted farthest first, in the order Render paints them.
func (r *Renderer) Cast(x, y float64) []Hit {
	f := r.frame()
	return r.cast(f.eye, f.through(x, y), nil)
}

// Pick returns the nearest polygon visible at output position (x, y).
func (r *Renderer) Pick(x, y float64) (Hit, bool) {
	hits := r.Cast(x, y)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[len(hits)-1], true
}

// cast appends to dst every polygon the ray from eye through p crosses in
// front of the eye, sorted by descending distance. Equal distances keep
// scene order, so of two coplanar polygons the later one is painted last.
func (r *Renderer) cast(eye, p math3d.Vec3, dst []Hit) []Hit {
	for i, poly := range r.scene.polygons {
		point, t, ok := poly.Intersection(eye, p)
		if !ok || t <= 0 {
			continue
		}
		dst = append(dst, Hit{
			Polygon:   poly,
			PolygonID: r.scene.ids[i],
			Point:     point,
			T:         t,
			Distance:  point.Distance(eye),
		})
	}
	slices.SortStableFunc(dst, func(a, b Hit) int {
		return cmp.Compare(b.Distance, a.Distance)
	})
	return dst
}

// String describes the renderer for logs.
func (r *Renderer) String() string {
	return fmt.Sprintf("Renderer(%dx%d cell=%d d=%.1f polygons=%d)",
		r.cfg.Width, r.cfg.Height, r.cfg.CellSize, r.distance, r.scene.Len())
}
