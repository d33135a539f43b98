package render

import (
	"image"
	"image/color"
)

// PaintOp tells a raster sink to fill Rect with Color. A frame is a sequence
// of PaintOps in back-to-front order: later ops cover earlier ones.
type PaintOp struct {
	Rect      image.Rectangle
	Color     color.Color
	PolygonID string  // Scene ID of the polygon that produced the op
	Distance  float64 // Distance from the eye to the hit point
}

// Sink consumes paint instructions.
type Sink interface {
	Paint(op PaintOp)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(op PaintOp)

// Paint calls f(op).
func (f SinkFunc) Paint(op PaintOp) {
	f(op)
}

// PaintList records paint instructions in order.
type PaintList []PaintOp

// Paint appends op.
func (l *PaintList) Paint(op PaintOp) {
	*l = append(*l, op)
}

// Reset empties the list, keeping its storage.
func (l *PaintList) Reset() {
	*l = (*l)[:0]
}

// At returns the ops whose rectangle covers pixel (x, y), in paint order.
func (l PaintList) At(x, y int) []PaintOp {
	var ops []PaintOp
	p := image.Pt(x, y)
	for _, op := range l {
		if p.In(op.Rect) {
			ops = append(ops, op)
		}
	}
	return ops
}

// Replay paints every recorded op into sink.
func (l PaintList) Replay(sink Sink) {
	for _, op := range l {
		sink.Paint(op)
	}
}
