package render

import (
	"fmt"

	"go.jetify.com/typeid/v2"

	"github.com/taigrr/eyesim/pkg/geom"
)

// PolygonPrefix is the TypeID prefix of scene polygon IDs.
const PolygonPrefix = "poly"

// Scene is a camera plus the polygons it looks at. Polygons are added while
// the scene is assembled and never removed; a Renderer only reads them.
type Scene struct {
	Camera *Camera

	polygons []*geom.ConvexPolygon
	ids      []string
	index    map[string]int
}

// NewScene creates an empty scene viewed by cam.
func NewScene(cam *Camera) *Scene {
	return &Scene{
		Camera: cam,
		index:  make(map[string]int),
	}
}

// Add appends p to the scene and returns its ID.
func (s *Scene) Add(p *geom.ConvexPolygon) string {
	id := typeid.MustGenerate(PolygonPrefix).String()
	s.index[id] = len(s.polygons)
	s.polygons = append(s.polygons, p)
	s.ids = append(s.ids, id)
	return id
}

// Len returns the number of polygons.
func (s *Scene) Len() int {
	return len(s.polygons)
}

// Polygon returns polygon i and its ID.
func (s *Scene) Polygon(i int) (*geom.ConvexPolygon, string) {
	return s.polygons[i], s.ids[i]
}

// Polygons returns a copy of the polygon list in insertion order.
func (s *Scene) Polygons() []*geom.ConvexPolygon {
	return append([]*geom.ConvexPolygon(nil), s.polygons...)
}

// Lookup finds a polygon by ID.
func (s *Scene) Lookup(id string) (*geom.ConvexPolygon, bool) {
	if ValidatePolygonID(id) != nil {
		return nil, false
	}
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.polygons[i], true
}

// ValidatePolygonID checks that id is a well-formed polygon TypeID.
func ValidatePolygonID(id string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid polygon id %q: %w", id, err)
	}
	if parsed.Prefix() != PolygonPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", PolygonPrefix, parsed.Prefix(), id)
	}
	return nil
}
