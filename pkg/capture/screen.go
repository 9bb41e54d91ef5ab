package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenSource grabs a display, or a region of the virtual desktop, with
// kbinani/screenshot.
type ScreenSource struct {
	display int
	region  image.Rectangle
}

// NewScreenSource validates the display index and region.
func NewScreenSource(display int, region image.Rectangle) (*ScreenSource, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplay
	}
	if display < 0 || display >= n {
		return nil, fmt.Errorf("capture: display %d out of range (have %d)", display, n)
	}
	if region != (image.Rectangle{}) && (region.Dx() <= 0 || region.Dy() <= 0) {
		return nil, fmt.Errorf("capture: invalid region dimensions: %v", region)
	}
	return &ScreenSource{display: display, region: region}, nil
}

// Grab implements [Source].
func (s *ScreenSource) Grab(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.region.Empty() {
		img, err := screenshot.CaptureDisplay(s.display)
		if err != nil {
			return nil, fmt.Errorf("capture display %d: %w", s.display, err)
		}
		return img, nil
	}

	img, err := screenshot.CaptureRect(s.region)
	if err != nil {
		return nil, fmt.Errorf("capture region %v: %w", s.region, err)
	}
	return img, nil
}

// DisplayBounds returns the bounds of a display.
func DisplayBounds(display int) (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	if display < 0 || display >= n {
		return image.Rectangle{}, fmt.Errorf("capture: display %d out of range (have %d)", display, n)
	}
	return screenshot.GetDisplayBounds(display), nil
}
