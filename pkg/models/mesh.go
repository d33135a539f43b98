// Package models loads triangle meshes and turns them into scene polygons.
package models

import (
	"errors"
	"image/color"

	"github.com/taigrr/eyesim/pkg/geom"
	"github.com/taigrr/eyesim/pkg/math3d"
)

// Mesh is an indexed triangle mesh with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the flat color part of a glTF PBR material.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// Color converts the base color to a non-premultiplied 8-bit color.
func (m Material) Color() color.NRGBA {
	return color.NRGBA{
		R: unit8(m.BaseColor[0]),
		G: unit8(m.BaseColor[1]),
		B: unit8(m.BaseColor[2]),
		A: unit8(m.BaseColor[3]),
	}
}

func unit8(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// FitTo centres the mesh on the origin and scales it uniformly so that its
// largest dimension equals size. Empty and flat-to-a-point meshes are only
// centred.
func (m *Mesh) FitTo(size float64) {
	m.CalculateBounds()
	ext := m.Size()
	largest := max(ext.X, ext.Y, ext.Z)

	mat := math3d.Translate(m.Center().Negate())
	if largest > 0 {
		mat = math3d.ScaleUniform(size / largest).Mul(mat)
	}
	m.Transform(mat)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// FaceColor returns the color of face i, or fallback if the face has no
// material.
func (m *Mesh) FaceColor(i int, fallback color.Color) color.Color {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.Color()
	}
	return fallback
}

// Polygons converts every face to a triangle polygon. Faces with repeated or
// collinear vertices cannot form a polygon and are counted in skipped.
func (m *Mesh) Polygons(fallback color.Color) (polys []*geom.ConvexPolygon, skipped int, err error) {
	polys = make([]*geom.ConvexPolygon, 0, len(m.Faces))
	for i, f := range m.Faces {
		for _, v := range f.V {
			if v < 0 || v >= len(m.Vertices) {
				return nil, 0, errors.New("models: face index out of range")
			}
		}
		p, perr := geom.NewConvexPolygon(m.FaceColor(i, fallback),
			m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]])
		if errors.Is(perr, geom.ErrInvalidPolygon) {
			skipped++
			continue
		}
		if perr != nil {
			return nil, 0, perr
		}
		polys = append(polys, p)
	}
	return polys, skipped, nil
}
