package render

import (
	"strings"
	"testing"

	"go.jetify.com/typeid/v2"
)

func TestSceneAdd(t *testing.T) {
	s := NewScene(NewCamera(DefaultCameraConfig()))
	a := square(t, 5, 1, ColorRed)
	b := square(t, 6, 1, ColorBlue)

	idA := s.Add(a)
	idB := s.Add(b)

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if idA == idB {
		t.Error("polygon ids should be unique")
	}
	for _, id := range []string{idA, idB} {
		if !strings.HasPrefix(id, PolygonPrefix+"_") {
			t.Errorf("id %q lacks prefix %q", id, PolygonPrefix)
		}
		if err := ValidatePolygonID(id); err != nil {
			t.Errorf("ValidatePolygonID(%q): %v", id, err)
		}
	}

	if p, id := s.Polygon(1); p != b || id != idB {
		t.Errorf("Polygon(1) = %p %q, want %p %q", p, id, b, idB)
	}

	polys := s.Polygons()
	polys[0] = nil
	if p, _ := s.Polygon(0); p != a {
		t.Error("Polygons should return a copy")
	}
}

func TestSceneLookup(t *testing.T) {
	s := NewScene(nil)
	p := square(t, 5, 1, ColorRed)
	id := s.Add(p)

	if got, ok := s.Lookup(id); !ok || got != p {
		t.Errorf("Lookup(%q) = %v, %v", id, got, ok)
	}

	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"garbage", "not-an-id"},
		{"wrong prefix", typeid.MustGenerate("user").String()},
		{"unknown polygon", typeid.MustGenerate(PolygonPrefix).String()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := s.Lookup(tc.id); ok {
				t.Errorf("Lookup(%q) succeeded", tc.id)
			}
		})
	}
}

func TestValidatePolygonID(t *testing.T) {
	if err := ValidatePolygonID(typeid.MustGenerate("user").String()); err == nil {
		t.Error("expected error for wrong prefix")
	}
	if err := ValidatePolygonID("poly_"); err == nil {
		t.Error("expected error for missing suffix")
	}
}
