package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/intothevoid/tftsight/pkg/detect"
	"gocv.io/x/gocv"
)

// palette cycles per class so neighbouring champions get distinct boxes.
var palette = []color.RGBA{
	{255, 56, 56, 0},
	{255, 157, 151, 0},
	{255, 112, 31, 0},
	{255, 178, 29, 0},
	{207, 210, 49, 0},
	{72, 249, 10, 0},
	{146, 204, 23, 0},
	{61, 219, 134, 0},
	{26, 147, 52, 0},
	{0, 212, 187, 0},
	{44, 153, 168, 0},
	{0, 194, 255, 0},
	{52, 69, 147, 0},
	{100, 115, 255, 0},
	{0, 24, 236, 0},
	{132, 56, 255, 0},
}

// Annotate draws each detection's box and "label conf" caption onto img.
// origin is subtracted from detection boxes, so pass the capture region's
// top-left when img is a crop.
func Annotate(img *gocv.Mat, dets []detect.Detection, origin image.Point) {
	for _, d := range dets {
		c := palette[d.Class%len(palette)]
		box := d.Box.Sub(origin)
		gocv.Rectangle(img, box, c, 2)

		caption := fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
		size := gocv.GetTextSize(caption, gocv.FontHersheySimplex, 0.5, 1)
		top := box.Min.Y - size.Y - 6
		if top < 0 {
			top = box.Min.Y
		}
		bg := image.Rect(box.Min.X, top, box.Min.X+size.X+4, top+size.Y+6)
		gocv.Rectangle(img, bg, c, -1)
		gocv.PutText(img, caption, image.Pt(bg.Min.X+2, bg.Max.Y-4), gocv.FontHersheySimplex, 0.5, color.RGBA{255, 255, 255, 0}, 1)
	}
}

// AnnotateImage returns a copy of src with detections drawn on it.
func AnnotateImage(src image.Image, dets []detect.Detection) (image.Image, error) {
	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("vision: convert image: %w", err)
	}
	defer mat.Close()

	Annotate(&mat, dets, src.Bounds().Min)
	return mat.ToImage()
}
