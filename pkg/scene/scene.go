// Package scene assembles render scenes: the built-in demo room and meshes
// imported from glTF files.
package scene

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/taigrr/eyesim/pkg/geom"
	"github.com/taigrr/eyesim/pkg/math3d"
	"github.com/taigrr/eyesim/pkg/render"
)

// Demo room dimensions.
const (
	DemoCubeHalf     = 1000
	DemoMarkerDist   = 800
	DemoMarkerRadius = 400
)

// AddCube adds the six faces of an axis-aligned cube centred on the origin.
// The +X face is red, -X blue, +Y yellow, -Y magenta, -Z green and +Z gray.
func AddCube(s *render.Scene, half float64) error {
	w := half
	var (
		fdl = math3d.V3(w, -w, -w)
		ful = math3d.V3(w, w, -w)
		fur = math3d.V3(w, w, w)
		fdr = math3d.V3(w, -w, w)
		bdl = math3d.V3(-w, -w, -w)
		bul = math3d.V3(-w, w, -w)
		bur = math3d.V3(-w, w, w)
		bdr = math3d.V3(-w, -w, w)
	)

	faces := []struct {
		name     string
		fill     color.Color
		vertices []math3d.Vec3
	}{
		{"front", render.ColorRed, []math3d.Vec3{fdl, ful, fur, fdr}},
		{"back", render.ColorBlue, []math3d.Vec3{bdl, bul, bur, bdr}},
		{"left", render.ColorYellow, []math3d.Vec3{ful, fur, bur, bul}},
		{"right", render.ColorMagenta, []math3d.Vec3{fdl, fdr, bdr, bdl}},
		{"floor", render.ColorGreen, []math3d.Vec3{fdl, ful, bul, bdl}},
		{"ceiling", render.ColorGray, []math3d.Vec3{fdr, fur, bur, bdr}},
	}

	for _, f := range faces {
		p, err := geom.NewConvexPolygon(f.fill, f.vertices...)
		if err != nil {
			return fmt.Errorf("cube %s face: %w", f.name, err)
		}
		s.Add(p)
	}
	return nil
}

// AddMarkers adds black direction markers at dist along each positive axis:
// a heptagon on +X and triangles on +Y and +Z, each perpendicular to its
// axis and with circumradius radius.
func AddMarkers(s *render.Scene, dist, radius float64) error {
	markers := []struct {
		name           string
		count          int
		center, radius math3d.Vec3
		normal         math3d.Vec3
	}{
		{"+x", 7, math3d.V3(dist, 0, 0), math3d.V3(0, 0, radius), math3d.V3(1, 0, 0)},
		{"+y", 3, math3d.V3(0, dist, 0), math3d.V3(0, 0, radius), math3d.V3(0, 1, 0)},
		{"+z", 3, math3d.V3(0, 0, dist), math3d.V3(0, radius, 0), math3d.V3(0, 0, 1)},
	}

	for _, m := range markers {
		p, err := geom.NewRegularPolygon(render.ColorBlack, m.count, m.center, m.radius, m.normal)
		if err != nil {
			return fmt.Errorf("%s marker: %w", m.name, err)
		}
		s.Add(p)
	}
	return nil
}

// maxTriangleAttempts bounds the retries for one random triangle.
const maxTriangleAttempts = 16

// AddRandomTriangles adds n translucent triangles with integer vertices in
// the box [corner, corner+size). Alpha is drawn from [160, 255]. Triangles
// whose vertices happen to be collinear are redrawn.
func AddRandomTriangles(s *render.Scene, rng *rand.Rand, n int, corner, size math3d.Vec3) error {
	coord := func(extent float64) float64 {
		if extent < 1 {
			return 0
		}
		return float64(rng.IntN(int(extent)))
	}
	point := func() math3d.Vec3 {
		return corner.Add(math3d.V3(coord(size.X), coord(size.Y), coord(size.Z)))
	}

	for i := range n {
		fill := color.NRGBA{
			R: uint8(rng.IntN(256)),
			G: uint8(rng.IntN(256)),
			B: uint8(rng.IntN(256)),
			A: uint8(160 + rng.IntN(96)),
		}

		var err error
		for range maxTriangleAttempts {
			var p *geom.ConvexPolygon
			p, err = geom.NewConvexPolygon(fill, point(), point(), point())
			if err == nil {
				s.Add(p)
				break
			}
		}
		if err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	return nil
}

// Demo fills s with the demo room: a cube around the origin and the three
// axis markers inside it. A non-nil rng adds random translucent triangles
// inside the cube as well.
func Demo(s *render.Scene, rng *rand.Rand, triangles int) error {
	if err := AddCube(s, DemoCubeHalf); err != nil {
		return err
	}
	if err := AddMarkers(s, DemoMarkerDist, DemoMarkerRadius); err != nil {
		return err
	}
	if rng != nil && triangles > 0 {
		corner := math3d.V3(-DemoMarkerDist, -DemoMarkerDist, -DemoMarkerDist)
		size := math3d.V3(2*DemoMarkerDist, 2*DemoMarkerDist, 2*DemoMarkerDist)
		if err := AddRandomTriangles(s, rng, triangles, corner, size); err != nil {
			return err
		}
	}

	render.Logger().Info("demo scene assembled", "polygons", s.Len(), "triangles", triangles)
	return nil
}

// Build fills s from a scene source: the demo room when path is empty,
// otherwise the demo cube with the glTF binary at path placed inside it.
// triangles random triangles are added when rng is non-nil.
func Build(s *render.Scene, path string, rng *rand.Rand, triangles int) error {
	if path == "" {
		return Demo(s, rng, triangles)
	}

	if err := AddCube(s, DemoCubeHalf); err != nil {
		return err
	}
	if _, err := LoadGLB(s, path, DefaultGLBOptions()); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
