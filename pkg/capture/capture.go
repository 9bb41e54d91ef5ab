package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyFrame = errors.New("capture: empty frame")
	ErrNoDisplay  = errors.New("capture: no active displays found")
)

// Source produces screen bitmaps.
type Source interface {
	Grab(ctx context.Context) (image.Image, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) (image.Image, error)

func (f SourceFunc) Grab(ctx context.Context) (image.Image, error) { return f(ctx) }

// Burst takes n shots separated by delay. Failed shots are logged and
// skipped; an error is returned only when no shot succeeded.
func Burst(ctx context.Context, src Source, n int, delay time.Duration) ([]image.Image, error) {
	if n < 1 {
		n = 1
	}

	shots := make([]image.Image, 0, n)
	var lastErr error
	for i := 0; i < n; i++ {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return shots, ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return shots, err
		}

		img, err := src.Grab(ctx)
		if err == nil && (img == nil || img.Bounds().Empty()) {
			err = ErrEmptyFrame
		}
		if err != nil {
			log.Warn().Err(err).Int("shot", i+1).Msg("screenshot failed")
			lastErr = err
			continue
		}
		log.Debug().Int("shot", i+1).Int("of", n).Msg("captured screenshot")
		shots = append(shots, img)
	}

	if len(shots) == 0 {
		return nil, fmt.Errorf("capture: all %d shots failed: %w", n, lastErr)
	}
	return shots, nil
}

// Crop cuts rect out of img. rect is clipped to img's bounds and the result
// starts at (0,0).
func Crop(img image.Image, rect image.Rectangle) (image.Image, error) {
	r := rect.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%w: crop %v outside %v", ErrEmptyFrame, rect, img.Bounds())
	}
	return imaging.Crop(img, r), nil
}
