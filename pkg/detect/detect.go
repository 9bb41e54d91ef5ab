// Package detect holds the detector contract and the pure decoding math for
// YOLO-family models. The OpenCV-backed implementation lives in package vision.
package detect

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrEmptyImage  = errors.New("detect: empty image")
	ErrOutputShape = errors.New("detect: unexpected model output shape")
)

// Detection is one labelled box reported by a detector, in source image
// coordinates.
type Detection struct {
	Class      int
	Label      string
	Confidence float32
	Box        image.Rectangle
}

func (d Detection) String() string {
	return fmt.Sprintf("%s %.2f %v", d.Label, d.Confidence, d.Box)
}

// Detector maps an image to labelled boxes.
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
	Close() error
}

// Config describes a detection model and its thresholds.
type Config struct {
	ModelPath string
	Names     []string
	Conf      float32
	IoU       float32
	InputSize int
}

// DefaultConfig returns the thresholds used for live overlay inference.
func DefaultConfig() Config {
	return Config{
		Conf:      0.25,
		IoU:       0.45,
		InputSize: 800,
	}
}
