package scene

import (
	"fmt"
	"image/color"

	"github.com/taigrr/eyesim/pkg/math3d"
	"github.com/taigrr/eyesim/pkg/models"
	"github.com/taigrr/eyesim/pkg/render"
)

// GLBOptions controls how an imported mesh is placed in the scene.
type GLBOptions struct {
	// Size is the largest dimension of the mesh after import. Zero keeps the
	// model's own units and position.
	Size float64

	// Offset moves the mesh after fitting.
	Offset math3d.Vec3

	// Fill colors faces without a material.
	Fill color.Color
}

// DefaultGLBOptions fits the model to the demo marker size in front of the
// default camera.
func DefaultGLBOptions() GLBOptions {
	return GLBOptions{
		Size:   DemoMarkerRadius * 2,
		Offset: math3d.V3(DemoMarkerDist, 0, 0),
		Fill:   render.ColorGray,
	}
}

// LoadGLB imports every triangle of the glTF binary at path into s.
// Degenerate triangles are skipped and counted.
func LoadGLB(s *render.Scene, path string, opts GLBOptions) (skipped int, err error) {
	mesh, err := models.LoadGLB(path)
	if err != nil {
		return 0, err
	}
	return AddMesh(s, mesh, opts)
}

// AddMesh places a copy of mesh in s according to opts.
func AddMesh(s *render.Scene, mesh *models.Mesh, opts GLBOptions) (skipped int, err error) {
	mesh = mesh.Clone()
	if opts.Size > 0 {
		mesh.FitTo(opts.Size)
	}
	if opts.Offset != math3d.Zero3() {
		mesh.Transform(math3d.Translate(opts.Offset))
	}

	fill := opts.Fill
	if fill == nil {
		fill = render.ColorGray
	}
	polys, skipped, err := mesh.Polygons(fill)
	if err != nil {
		return 0, fmt.Errorf("mesh %q: %w", mesh.Name, err)
	}
	for _, p := range polys {
		s.Add(p)
	}

	log := render.Logger()
	log.Info("mesh imported", "name", mesh.Name, "faces", mesh.TriangleCount(), "polygons", len(polys))
	if skipped > 0 {
		log.Warn("degenerate triangles skipped", "name", mesh.Name, "skipped", skipped)
	}
	return skipped, nil
}
