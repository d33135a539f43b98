package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/eyesim/pkg/geom"
	"github.com/taigrr/eyesim/pkg/math3d"
)

// square returns an axis-aligned square of side 2·half in the plane x = at.
func square(t *testing.T, at, half float64, fill color.Color) *geom.ConvexPolygon {
	t.Helper()
	p, err := geom.NewConvexPolygon(fill,
		math3d.V3(at, -half, -half),
		math3d.V3(at, half, -half),
		math3d.V3(at, half, half),
		math3d.V3(at, -half, half),
	)
	if err != nil {
		t.Fatalf("square: %v", err)
	}
	return p
}

// testRenderer builds a 20x20 renderer with the eye at the origin looking
// along +X and the view plane 50 units away.
func testRenderer(t *testing.T, polys ...*geom.ConvexPolygon) (*Renderer, []string) {
	t.Helper()
	scene := NewScene(NewCamera(DefaultCameraConfig()))
	ids := make([]string, len(polys))
	for i, p := range polys {
		ids[i] = scene.Add(p)
	}
	cfg := Config{
		Width:             20,
		Height:            20,
		CellSize:          1,
		ObservingDistance: 50,
		Camera:            DefaultCameraConfig(),
	}
	r, err := NewRenderer(cfg, scene)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, ids
}

func TestRenderSingleSquare(t *testing.T) {
	r, ids := testRenderer(t, square(t, 10, 1, ColorRed))

	var ops PaintList
	stats := r.Render(&ops)

	if len(ops) != 100 {
		t.Fatalf("got %d paint ops, want 100", len(ops))
	}
	if stats.Cells != 400 || stats.RayTests != 400 || stats.Hits != 100 {
		t.Errorf("stats = %+v", stats)
	}

	for y := range 20 {
		for x := range 20 {
			at := ops.At(x, y)
			inside := x >= 5 && x < 15 && y >= 5 && y < 15
			switch {
			case inside && len(at) != 1:
				t.Errorf("pixel (%d, %d): %d ops, want 1", x, y, len(at))
			case !inside && len(at) != 0:
				t.Errorf("pixel (%d, %d): %d ops, want 0", x, y, len(at))
			}
		}
	}

	for _, op := range ops {
		if op.Rect.Dx() != 1 || op.Rect.Dy() != 1 {
			t.Errorf("op rect %v is not one pixel", op.Rect)
		}
		if op.PolygonID != ids[0] {
			t.Errorf("op polygon id = %q, want %q", op.PolygonID, ids[0])
		}
		if op.Color != ColorRed {
			t.Errorf("op color = %v, want red", op.Color)
		}
		if op.Distance < 10 || op.Distance > math.Sqrt(102) {
			t.Errorf("op distance %v outside [10, √102]", op.Distance)
		}
	}
}

func TestRenderSingleSquareFramebuffer(t *testing.T) {
	r, _ := testRenderer(t, square(t, 10, 1, ColorBlue))

	fb := NewFramebuffer(20, 20)
	fb.Clear(ColorWhite)
	r.Render(fb)

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{10, 10, ColorBlue},
		{5, 5, ColorBlue},
		{14, 14, ColorBlue},
		{4, 10, ColorWhite},
		{10, 15, ColorWhite},
		{0, 0, ColorWhite},
	}
	for _, tc := range tests {
		if got := fb.GetPixel(tc.x, tc.y); got != tc.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRenderOverlapBackToFront(t *testing.T) {
	near := square(t, 5, 2, ColorRed)
	far := square(t, 10, 3, ColorGreen)
	// add near first so paint order cannot come from insertion order
	r, ids := testRenderer(t, near, far)

	var ops PaintList
	r.Render(&ops)

	center := ops.At(10, 10)
	if len(center) != 2 {
		t.Fatalf("center pixel: %d ops, want 2", len(center))
	}
	if center[0].PolygonID != ids[1] || center[1].PolygonID != ids[0] {
		t.Errorf("center paint order = [%s %s], want far then near", center[0].PolygonID, center[1].PolygonID)
	}
	if center[0].Distance <= center[1].Distance {
		t.Errorf("distances %v, %v not descending", center[0].Distance, center[1].Distance)
	}

	fb := NewFramebuffer(20, 20)
	fb.Clear(ColorWhite)
	ops.Replay(fb)
	if got := fb.GetPixel(10, 10); got != ColorRed {
		t.Errorf("center pixel = %v, want near color %v", got, ColorRed)
	}
}

func TestRenderIgnoresPolygonsBehindEye(t *testing.T) {
	r, _ := testRenderer(t, square(t, -10, 5, ColorRed))

	var ops PaintList
	stats := r.Render(&ops)
	if len(ops) != 0 || stats.Hits != 0 {
		t.Errorf("polygon behind the eye produced %d ops", len(ops))
	}
}

func TestRenderCellSize(t *testing.T) {
	scene := NewScene(NewCamera(DefaultCameraConfig()))
	scene.Add(square(t, 1, 1000, ColorGray))
	r, err := NewRenderer(Config{Width: 20, Height: 12, CellSize: 4, ObservingDistance: 10}, scene)
	if err != nil {
		t.Fatal(err)
	}

	var ops PaintList
	stats := r.Render(&ops)
	if stats.Cells != 15 || len(ops) != 15 {
		t.Fatalf("cells = %d, ops = %d, want 15 each", stats.Cells, len(ops))
	}
	if ops[0].Rect != image.Rect(0, 0, 4, 4) {
		t.Errorf("first rect = %v", ops[0].Rect)
	}
	if ops[5].Rect != image.Rect(0, 4, 4, 8) {
		t.Errorf("second row starts at %v", ops[5].Rect)
	}
}

func TestRendererCastAndPick(t *testing.T) {
	near := square(t, 5, 2, ColorRed)
	far := square(t, 10, 3, ColorGreen)
	r, ids := testRenderer(t, far, near)

	hits := r.Cast(10, 10)
	if len(hits) != 2 {
		t.Fatalf("Cast: %d hits, want 2", len(hits))
	}
	if hits[0].Polygon != far || hits[1].Polygon != near {
		t.Error("Cast hits not sorted far to near")
	}
	if math.Abs(hits[1].Point.X-5) > 1e-9 {
		t.Errorf("near hit point = %v, want x = 5", hits[1].Point)
	}

	hit, ok := r.Pick(10, 10)
	if !ok || hit.PolygonID != ids[1] {
		t.Errorf("Pick = %v, %v, want near polygon", hit.PolygonID, ok)
	}

	if _, ok := r.Pick(-20, -20); ok {
		t.Error("Pick outside both squares should miss")
	}
}

func TestRendererFollowsCamera(t *testing.T) {
	r, _ := testRenderer(t, square(t, 10, 1, ColorRed))
	r.Scene().Camera.SetHeading(math.Pi, 0)

	var ops PaintList
	r.Render(&ops)
	if len(ops) != 0 {
		t.Errorf("turned away from the square but got %d ops", len(ops))
	}

	r.Scene().Camera.SetHeading(0, 0)
	r.Scene().Camera.SetMoving(Forward, true)
	ops.Reset()
	r.Frame(&ops) // moves 20 units forward, past the square
	if len(ops) != 0 {
		t.Errorf("moved past the square but got %d ops", len(ops))
	}
}

func TestRendererAdjustFOV(t *testing.T) {
	r, _ := testRenderer(t)

	r.AdjustFOV(10)
	if got := r.ObservingDistance(); got != 60 {
		t.Errorf("after +10: %v, want 60", got)
	}
	r.AdjustFOV(-1000)
	if got := r.ObservingDistance(); got != MinObservingDistance {
		t.Errorf("after -1000: %v, want %v", got, MinObservingDistance)
	}
}

func TestNewRendererErrors(t *testing.T) {
	scene := NewScene(NewCamera(DefaultCameraConfig()))

	if _, err := NewRenderer(Config{Width: 0, Height: 10, CellSize: 1, FOV: 1}, scene); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero width: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewRenderer(DefaultConfig(), NewScene(nil)); err == nil {
		t.Error("scene without camera should fail")
	}
	if _, err := NewRenderer(DefaultConfig(), nil); err == nil {
		t.Error("nil scene should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"zero height", func(c *Config) { c.Height = 0 }, false},
		{"negative width", func(c *Config) { c.Width = -1 }, false},
		{"zero cell", func(c *Config) { c.CellSize = 0 }, false},
		{"negative distance", func(c *Config) { c.ObservingDistance = -5 }, false},
		{"flat fov", func(c *Config) { c.FOV = math.Pi }, false},
		{"zero fov", func(c *Config) { c.FOV = 0 }, false},
		{"zero fov with distance", func(c *Config) { c.FOV = 0; c.ObservingDistance = 100 }, true},
		{"negative rotate scale", func(c *Config) { c.Camera.RotateScale = -1 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigObservingDistance(t *testing.T) {
	cfg := Config{Width: 20, Height: 10, CellSize: 1, FOV: math.Pi / 2}
	if got := cfg.observingDistance(); math.Abs(got-10) > 1e-9 {
		t.Errorf("derived distance = %v, want 10", got)
	}

	cfg.ObservingDistance = 0.25
	if got := cfg.observingDistance(); got != MinObservingDistance {
		t.Errorf("distance below minimum = %v, want %v", got, MinObservingDistance)
	}
}

func BenchmarkRender(b *testing.B) {
	scene := NewScene(NewCamera(DefaultCameraConfig()))
	for i := range 12 {
		p, err := geom.NewRegularPolygon(ColorRed, 6,
			math3d.V3(100+float64(i)*10, 0, 0), math3d.V3(0, 0, 40), math3d.V3(1, 0, 0))
		if err != nil {
			b.Fatal(err)
		}
		scene.Add(p)
	}
	r, err := NewRenderer(DefaultConfig(), scene)
	if err != nil {
		b.Fatal(err)
	}
	fb := NewFramebuffer(320, 200)

	for b.Loop() {
		r.Render(fb)
	}
}
