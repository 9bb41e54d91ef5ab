package detect

import (
	"image"
	"math"
)

// Letterbox describes how a source image was scaled and padded into a square
// model input of side Size.
type Letterbox struct {
	Size   int
	Scale  float64
	PadX   int
	PadY   int
	Width  int // scaled width before padding
	Height int // scaled height before padding
	Source image.Rectangle
}

// NewLetterbox fits src into a size x size square, preserving aspect ratio and
// centring the result.
func NewLetterbox(src image.Rectangle, size int) Letterbox {
	w, h := src.Dx(), src.Dy()
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return Letterbox{
		Size:   size,
		Scale:  scale,
		PadX:   (size - nw) / 2,
		PadY:   (size - nh) / 2,
		Width:  nw,
		Height: nh,
		Source: src,
	}
}

// Unmap converts a box in model input coordinates back to source image
// coordinates, clamped to the source bounds.
func (l Letterbox) Unmap(x1, y1, x2, y2 float32) image.Rectangle {
	conv := func(v float32, pad int, origin int) int {
		return origin + int(math.Round((float64(v)-float64(pad))/l.Scale))
	}
	r := image.Rect(
		conv(x1, l.PadX, l.Source.Min.X),
		conv(y1, l.PadY, l.Source.Min.Y),
		conv(x2, l.PadX, l.Source.Min.X),
		conv(y2, l.PadY, l.Source.Min.Y),
	)
	return r.Intersect(l.Source)
}
