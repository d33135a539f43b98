package render

import (
	"image"
	"testing"
)

func TestPaintList(t *testing.T) {
	var l PaintList
	l.Paint(PaintOp{Rect: image.Rect(0, 0, 4, 4), Color: ColorRed, PolygonID: "a"})
	l.Paint(PaintOp{Rect: image.Rect(2, 2, 6, 6), Color: ColorBlue, PolygonID: "b"})

	if len(l) != 2 {
		t.Fatalf("len = %d, want 2", len(l))
	}

	tests := []struct {
		x, y int
		want []string
	}{
		{0, 0, []string{"a"}},
		{3, 3, []string{"a", "b"}},
		{5, 5, []string{"b"}},
		{6, 6, nil},
	}
	for _, tc := range tests {
		got := l.At(tc.x, tc.y)
		if len(got) != len(tc.want) {
			t.Errorf("At(%d, %d): %d ops, want %d", tc.x, tc.y, len(got), len(tc.want))
			continue
		}
		for i := range got {
			if got[i].PolygonID != tc.want[i] {
				t.Errorf("At(%d, %d)[%d] = %q, want %q", tc.x, tc.y, i, got[i].PolygonID, tc.want[i])
			}
		}
	}

	var replayed []string
	l.Replay(SinkFunc(func(op PaintOp) {
		replayed = append(replayed, op.PolygonID)
	}))
	if len(replayed) != 2 || replayed[0] != "a" || replayed[1] != "b" {
		t.Errorf("Replay order = %v", replayed)
	}

	l.Reset()
	if len(l) != 0 {
		t.Errorf("after Reset len = %d", len(l))
	}
}
