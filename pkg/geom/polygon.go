// Package geom provides the planar convex polygon primitive that eyesim
// scenes are built from.
package geom

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/eyesim/pkg/math3d"
)

// Construction errors. Every error returned by NewConvexPolygon and
// NewRegularPolygon wraps exactly one of these; test with errors.Is.
var (
	ErrInvalidPolygon        = errors.New("invalid polygon")
	ErrNonPlanarPolygon      = errors.New("polygon is not planar")
	ErrNonConvexPolygon      = errors.New("polygon is not convex")
	ErrDegenerateOrientation = errors.New("degenerate polygon orientation")
)

const (
	// Epsilon is the relative tolerance for ray and containment tests.
	// Products are compared against Epsilon times the magnitudes of the
	// vectors that formed them, so the test is independent of scene scale.
	Epsilon = 1e-9

	// PlanarTolerance is the largest sine of the angle between the polygon
	// plane and the direction to a vertex that still counts as coplanar.
	PlanarTolerance = 1e-6

	// windingTolerance bounds the error of the summed turning angle.
	windingTolerance = 1e-6
)

// ConvexPolygon is an immutable planar convex polygon with a flat fill color.
// The zero value is not usable; construct with NewConvexPolygon or
// NewRegularPolygon.
type ConvexPolygon struct {
	vertices  []math3d.Vec3
	normal    math3d.Vec3
	normalLen float64
	fill      color.Color
}

// NewConvexPolygon validates vertices and builds a polygon from them.
// The plane normal is (v1-v0) × (v2-v1); all other vertices must lie in that
// plane and every turn along the boundary must have the same orientation as
// the first one.
func NewConvexPolygon(fill color.Color, vertices ...math3d.Vec3) (*ConvexPolygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: %d vertices, need at least 3", ErrInvalidPolygon, len(vertices))
	}

	p := &ConvexPolygon{
		vertices: append([]math3d.Vec3(nil), vertices...),
		fill:     fill,
	}
	p.normal = vertices[1].Sub(vertices[0]).Cross(vertices[2].Sub(vertices[1]))
	p.normalLen = p.normal.Len()
	if p.normalLen == 0 {
		return nil, fmt.Errorf("%w: first three vertices are collinear", ErrInvalidPolygon)
	}

	if err := p.checkPlanar(); err != nil {
		return nil, err
	}
	if err := p.checkConvex(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewRegularPolygon builds a regular polygon with count vertices (at least 3)
// around center. radius is the vector from the center to the first vertex;
// normalHint only selects the plane and need not be perpendicular to radius.
// The stored normal is radius × right, where right is the in-plane vector
// perpendicular to radius with the same length.
func NewRegularPolygon(fill color.Color, count int, center, radius, normalHint math3d.Vec3) (*ConvexPolygon, error) {
	count = max(count, 3)

	r := radius.Len()
	side := radius.Cross(normalHint)
	sideLen := side.Len()
	if r == 0 || sideLen <= Epsilon*r*normalHint.Len() {
		return nil, fmt.Errorf("%w: radius %v is collinear with normal %v", ErrDegenerateOrientation, radius, normalHint)
	}
	right := side.Scale(r / sideLen)

	p := &ConvexPolygon{
		vertices: make([]math3d.Vec3, count),
		normal:   radius.Cross(right),
		fill:     fill,
	}
	p.normalLen = p.normal.Len()
	if p.normalLen == 0 {
		return nil, fmt.Errorf("%w: plane normal vanished", ErrDegenerateOrientation)
	}

	step := 2 * math.Pi / float64(count)
	for i := range p.vertices {
		s, c := math.Sincos(step * float64(i))
		p.vertices[i] = center.Add(radius.Scale(c)).Add(right.Scale(s))
	}
	return p, nil
}

// checkPlanar reports the first vertex that is off the plane through v0.
func (p *ConvexPolygon) checkPlanar() error {
	v0 := p.vertices[0]
	for i := 3; i < len(p.vertices); i++ {
		d := p.vertices[i].Sub(v0)
		off := p.normal.Dot(d)
		if math.Abs(off) > PlanarTolerance*p.normalLen*d.Len() {
			return fmt.Errorf("%w: vertex %d lies %.3g off the plane", ErrNonPlanarPolygon, i, off/p.normalLen)
		}
	}
	return nil
}

// checkConvex verifies that every turn agrees with the normal and that the
// boundary winds around the normal exactly once.
func (p *ConvexPolygon) checkConvex() error {
	unit := p.normal.Scale(1 / p.normalLen)

	var winding float64
	for i := range p.vertices {
		in := p.Vertex(i).Sub(p.Vertex(i - 1))
		out := p.Vertex(i + 1).Sub(p.Vertex(i))
		turn := unit.Dot(in.Cross(out))
		if turn < -Epsilon*in.Len()*out.Len() {
			return fmt.Errorf("%w: reflex turn at vertex %d", ErrNonConvexPolygon, i)
		}
		winding += math.Atan2(turn, in.Dot(out))
	}

	if math.Abs(winding-2*math.Pi) > windingTolerance {
		return fmt.Errorf("%w: boundary winds %.2f times around the normal", ErrNonConvexPolygon, winding/(2*math.Pi))
	}
	return nil
}

// Vertex returns vertex i. The index wraps modulo the vertex count, so -1 is
// the last vertex and Len() is the first one again.
func (p *ConvexPolygon) Vertex(i int) math3d.Vec3 {
	n := len(p.vertices)
	i %= n
	if i < 0 {
		i += n
	}
	return p.vertices[i]
}

// Vertices returns a copy of the vertex list.
func (p *ConvexPolygon) Vertices() []math3d.Vec3 {
	return append([]math3d.Vec3(nil), p.vertices...)
}

// Len returns the number of vertices.
func (p *ConvexPolygon) Len() int {
	return len(p.vertices)
}

// Normal returns the (unnormalized) plane normal.
func (p *ConvexPolygon) Normal() math3d.Vec3 {
	return p.normal
}

// Fill returns the polygon's fill color.
func (p *ConvexPolygon) Fill() color.Color {
	return p.fill
}

// Centroid returns the average of the vertices.
func (p *ConvexPolygon) Centroid() math3d.Vec3 {
	var sum math3d.Vec3
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p.vertices)))
}

// Intersection intersects the line through p1 and p2 with the polygon.
// It returns the hit point and the ray parameter t, where
// point = p1 + t·(p2-p1). If the line is parallel to the plane, ok is false
// and t is 0. If the line meets the plane outside the polygon, ok is false
// but t still locates the plane crossing.
func (p *ConvexPolygon) Intersection(p1, p2 math3d.Vec3) (point math3d.Vec3, t float64, ok bool) {
	dir := p2.Sub(p1)
	denom := p.normal.Dot(dir)
	if math.Abs(denom) <= Epsilon*p.normalLen*dir.Len() {
		return math3d.Vec3{}, 0, false
	}

	t = p.normal.Dot(p.vertices[0].Sub(p1)) / denom
	point = p1.Add(dir.Scale(t))
	if !p.Contains(point) {
		return math3d.Vec3{}, t, false
	}
	return point, t, true
}

// Contains reports whether point, assumed to lie in the polygon's plane, is
// inside the polygon or on its boundary.
func (p *ConvexPolygon) Contains(point math3d.Vec3) bool {
	for i := range p.vertices {
		next := p.Vertex(i + 1)
		edge := next.Sub(p.vertices[i])
		rel := point.Sub(next)
		side := p.normal.Dot(edge.Cross(rel))
		if side < -Epsilon*p.normalLen*edge.Len()*rel.Len() {
			return false
		}
	}
	return true
}
