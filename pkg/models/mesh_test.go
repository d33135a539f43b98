package models

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/eyesim/pkg/math3d"
)

func triangleMesh() *Mesh {
	mesh := NewMesh("test")
	mesh.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(4, 0, 0),
		math3d.V3(0, 2, 0),
		math3d.V3(8, 0, 0), // collinear with 0 and 1
		math3d.V3(0, 0, 1),
	}
	mesh.Materials = []Material{
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 1}},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{0, 1, 3}, Material: 0},  // degenerate
		{V: [3]int{0, 1, 4}, Material: -1}, // no material
	}
	mesh.CalculateBounds()
	return mesh
}

func TestMeshBounds(t *testing.T) {
	mesh := triangleMesh()
	if mesh.BoundsMin != math3d.V3(0, 0, 0) || mesh.BoundsMax != math3d.V3(8, 2, 1) {
		t.Errorf("bounds = %v - %v", mesh.BoundsMin, mesh.BoundsMax)
	}
	if got := mesh.Center(); got != math3d.V3(4, 1, 0.5) {
		t.Errorf("Center = %v", got)
	}
	if got := mesh.Size(); got != math3d.V3(8, 2, 1) {
		t.Errorf("Size = %v", got)
	}

	empty := NewMesh("empty")
	empty.CalculateBounds()
	if empty.Size() != math3d.Zero3() {
		t.Errorf("empty mesh size = %v", empty.Size())
	}
}

func TestMeshFitTo(t *testing.T) {
	mesh := triangleMesh()
	mesh.FitTo(100)

	if c := mesh.Center(); c.Len() > 1e-9 {
		t.Errorf("fitted mesh centre = %v, want origin", c)
	}
	size := mesh.Size()
	if math.Abs(size.X-100) > 1e-9 || math.Abs(size.Y-25) > 1e-9 {
		t.Errorf("fitted size = %v, want (100, 25, 12.5)", size)
	}
}

func TestMeshPolygons(t *testing.T) {
	mesh := triangleMesh()
	polys, skipped, err := mesh.Polygons(color.Black)
	if err != nil {
		t.Fatalf("Polygons: %v", err)
	}
	if len(polys) != 2 || skipped != 1 {
		t.Fatalf("got %d polygons, %d skipped, want 2 and 1", len(polys), skipped)
	}
	if got := polys[0].Fill(); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("material face color = %v", got)
	}
	if got := polys[1].Fill(); got != color.Black {
		t.Errorf("unmaterialed face color = %v, want fallback", got)
	}
}

func TestMeshPolygonsBadIndex(t *testing.T) {
	mesh := triangleMesh()
	mesh.Faces = append(mesh.Faces, Face{V: [3]int{0, 1, 99}, Material: -1})
	if _, _, err := mesh.Polygons(color.Black); err == nil {
		t.Error("expected error for out-of-range face index")
	}
}

func TestMeshClone(t *testing.T) {
	mesh := triangleMesh()
	clone := mesh.Clone()
	clone.Vertices[0] = math3d.V3(9, 9, 9)
	clone.Materials[0].Name = "changed"

	if mesh.Vertices[0] != math3d.Zero3() || mesh.Materials[0].Name != "green" {
		t.Error("Clone shares storage with the original")
	}
}

func TestGetMaterial(t *testing.T) {
	mesh := triangleMesh()
	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(5) != nil {
		t.Error("out-of-range material should be nil")
	}
	if m := mesh.GetMaterial(0); m == nil || m.Name != "green" {
		t.Errorf("GetMaterial(0) = %v", m)
	}
}
