package render

import (
	"image"
	"image/color"
)

// Op is one recorded drawing call.
type Op struct {
	Kind   string
	Image  Image
	Src    image.Rectangle
	X, Y   float64
	W, H   float64
	Text   string
	Color  color.Color
	Target *Recorder
}

// Recorder is a Surface that records calls instead of drawing. It backs
// headless runs and tests.
type Recorder struct {
	W, H int
	Ops  []Op
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.W, r.H)
}

func (r *Recorder) DrawImage(img Image, src image.Rectangle, dx, dy, dw, dh float64) {
	r.Ops = append(r.Ops, Op{Kind: "image", Image: img, Src: src, X: dx, Y: dy, W: dw, H: dh, Target: r})
}

func (r *Recorder) FillRect(x, y, w, h float64, clr color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: clr, Target: r})
}

func (r *Recorder) DrawText(s string, x, y int, clr color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "text", Text: s, X: float64(x), Y: float64(y), Color: clr, Target: r})
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: "clear", Target: r})
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// RecordingRenderer hands out Recorders as offscreen surfaces.
type RecordingRenderer struct {
	Created []*Recorder
}

func (rr *RecordingRenderer) NewSurface(w, h int) Surface {
	rec := NewRecorder(w, h)
	rr.Created = append(rr.Created, rec)
	return rec
}

// StaticImage is a sized Image with no pixels, used where only bounds matter.
type StaticImage struct {
	Name string
	W, H int
}

func (s StaticImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.W, s.H)
}
