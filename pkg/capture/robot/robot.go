package robot

import (
	"context"
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/intothevoid/tftsight/pkg/capture"
)

// Source grabs the screen through robotgo.
type Source struct {
	region image.Rectangle
}

// New returns a robotgo-backed source for region, or the whole main display
// when region is empty.
func New(region image.Rectangle) *Source {
	return &Source{region: region}
}

// Grab implements [capture.Source].
func (s *Source) Grab(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		img image.Image
		err error
	)
	if s.region.Empty() {
		img, err = robotgo.CaptureImg()
	} else {
		r := s.region
		img, err = robotgo.CaptureImg(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	}
	if err != nil {
		return nil, fmt.Errorf("robotgo capture: %w", err)
	}
	if img == nil {
		return nil, capture.ErrEmptyFrame
	}
	return img, nil
}
