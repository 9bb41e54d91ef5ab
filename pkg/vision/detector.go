package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/intothevoid/tftsight/pkg/detect"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// letterboxFill is the grey ultralytics pads letterboxed inputs with.
var letterboxFill = color.RGBA{114, 114, 114, 0}

// YOLODetector runs a YOLOv8 ONNX export through the OpenCV DNN module.
type YOLODetector struct {
	net gocv.Net
	cfg detect.Config
}

// NewYOLODetector loads the model at cfg.ModelPath. cfg.Names must list the
// classes in training order.
func NewYOLODetector(cfg detect.Config) (*YOLODetector, error) {
	if len(cfg.Names) == 0 {
		return nil, fmt.Errorf("vision: no class names for %s", cfg.ModelPath)
	}
	def := detect.DefaultConfig()
	if cfg.InputSize <= 0 {
		cfg.InputSize = def.InputSize
	}
	if cfg.Conf <= 0 {
		cfg.Conf = def.Conf
	}
	if cfg.IoU <= 0 {
		cfg.IoU = def.IoU
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("vision: failed to load model %s", cfg.ModelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("vision: set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("vision: set target: %w", err)
	}

	log.Info().Str("model", cfg.ModelPath).Int("classes", len(cfg.Names)).
		Int("imgsz", cfg.InputSize).Msg("detector loaded")
	return &YOLODetector{net: net, cfg: cfg}, nil
}

// Detect implements [detect.Detector].
func (d *YOLODetector) Detect(img image.Image) ([]detect.Detection, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, detect.ErrEmptyImage
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("vision: convert image: %w", err)
	}
	defer mat.Close()

	return d.DetectMat(mat, img.Bounds())
}

// DetectMat runs inference on a BGR Mat. bounds gives the Mat's position in
// the caller's coordinate space so boxes come back in that space.
func (d *YOLODetector) DetectMat(mat gocv.Mat, bounds image.Rectangle) ([]detect.Detection, error) {
	if mat.Empty() {
		return nil, detect.ErrEmptyImage
	}

	lb := detect.NewLetterbox(bounds, d.cfg.InputSize)
	input := letterbox(mat, lb)
	defer input.Close()

	blob := gocv.BlobFromImage(input, 1.0/255.0, image.Pt(lb.Size, lb.Size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("vision: read output: %w", err)
	}
	candidates, err := detect.Decode(data, out.Size(), len(d.cfg.Names), d.cfg.Conf)
	if err != nil {
		return nil, err
	}

	return d.suppress(candidates, lb), nil
}

// classOffset shifts each class into its own coordinate band so NMS only
// suppresses overlapping boxes of the same class.
const classOffset = 7680

// suppress runs per-class NMS and maps survivors back to source space.
func (d *YOLODetector) suppress(candidates []detect.Candidate, lb detect.Letterbox) []detect.Detection {
	if len(candidates) == 0 {
		return nil
	}

	boxes := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		off := image.Pt(c.Class*classOffset, c.Class*classOffset)
		boxes[i] = image.Rect(int(c.X1), int(c.Y1), int(c.X2), int(c.Y2)).Add(off)
		scores[i] = c.Score
	}
	keep := gocv.NMSBoxes(boxes, scores, d.cfg.Conf, d.cfg.IoU)

	dets := make([]detect.Detection, 0, len(keep))
	for _, i := range keep {
		c := candidates[i]
		box := lb.Unmap(c.X1, c.Y1, c.X2, c.Y2)
		if box.Empty() {
			continue
		}
		dets = append(dets, detect.Detection{
			Class:      c.Class,
			Label:      d.cfg.Names[c.Class],
			Confidence: c.Score,
			Box:        box,
		})
	}
	return dets
}

// Close releases the network.
func (d *YOLODetector) Close() error {
	return d.net.Close()
}

// letterbox resizes mat to the letterbox content size and pads it to a square.
func letterbox(mat gocv.Mat, lb detect.Letterbox) gocv.Mat {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(lb.Width, lb.Height), 0, 0, gocv.InterpolationLinear)

	padded := gocv.NewMat()
	right := lb.Size - lb.Width - lb.PadX
	bottom := lb.Size - lb.Height - lb.PadY
	gocv.CopyMakeBorder(resized, &padded, lb.PadY, bottom, lb.PadX, right, gocv.BorderConstant, letterboxFill)
	return padded
}
