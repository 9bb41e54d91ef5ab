package vision

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/intothevoid/tftsight/pkg/capture"
	"github.com/intothevoid/tftsight/pkg/detect"
	"github.com/rs/zerolog/log"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".bmp": true}

// ListImages returns the image files directly under dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// PredictResult is the outcome for one file of a batch run.
type PredictResult struct {
	Path       string
	Output     string
	Detections []detect.Detection
	Err        error
}

// PredictDir runs the detector over every image in dir and, when outDir is
// set, saves annotated copies there. A non-empty crop cuts the board region out
// of full-screen shots first, and boxes are then relative to it. A failing file
// is reported in its result and the batch continues.
func PredictDir(d *YOLODetector, dir, outDir string, crop image.Rectangle) ([]PredictResult, error) {
	files, err := ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("vision: list %s: %w", dir, err)
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, err
		}
	}

	results := make([]PredictResult, 0, len(files))
	for i, path := range files {
		res := PredictResult{Path: path}
		res.Detections, res.Output, res.Err = predictFile(d, path, outDir, crop)
		if res.Err != nil {
			log.Error().Err(res.Err).Str("file", path).Msg("prediction failed")
		} else {
			log.Info().Int("n", i+1).Str("file", filepath.Base(path)).
				Int("detections", len(res.Detections)).Msg("processed image")
		}
		results = append(results, res)
	}
	return results, nil
}

func predictFile(d *YOLODetector, path, outDir string, crop image.Rectangle) ([]detect.Detection, string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("vision: cannot read %s: %w", path, err)
	}
	if !crop.Empty() {
		if img, err = capture.Crop(img, crop); err != nil {
			return nil, "", err
		}
	}

	dets, err := d.Detect(img)
	if err != nil {
		return nil, "", err
	}
	if outDir == "" {
		return dets, "", nil
	}

	annotated, err := AnnotateImage(img, dets)
	if err != nil {
		return dets, "", err
	}
	out := filepath.Join(outDir, filepath.Base(path))
	if err := imaging.Save(annotated, out); err != nil {
		return dets, "", fmt.Errorf("vision: cannot write %s: %w", out, err)
	}
	return dets, out, nil
}
