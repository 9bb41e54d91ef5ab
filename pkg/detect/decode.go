package detect

import "fmt"

// Candidate is a raw box before non-maximum suppression, in model input
// coordinates.
type Candidate struct {
	Class          int
	Score          float32
	X1, Y1, X2, Y2 float32
}

// Decode reads a YOLOv8-style output tensor. dims is the tensor shape, either
// [1, 4+nc, anchors] (channel-major, the default export) or [1, anchors, 4+nc].
// Each anchor contributes at most one candidate: its best class, if that score
// reaches conf.
func Decode(data []float32, dims []int, numClasses int, conf float32) ([]Candidate, error) {
	if len(dims) != 3 || dims[0] != 1 {
		return nil, fmt.Errorf("%w: %v", ErrOutputShape, dims)
	}
	stride := 4 + numClasses

	var anchors int
	var at func(anchor, ch int) float32
	switch {
	case dims[1] == stride:
		anchors = dims[2]
		at = func(anchor, ch int) float32 { return data[ch*anchors+anchor] }
	case dims[2] == stride:
		anchors = dims[1]
		at = func(anchor, ch int) float32 { return data[anchor*stride+ch] }
	default:
		return nil, fmt.Errorf("%w: %v for %d classes", ErrOutputShape, dims, numClasses)
	}
	if len(data) < anchors*stride {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrOutputShape, len(data), dims)
	}

	var out []Candidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < numClasses; c++ {
			if s := at(i, 4+c); s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || bestScore < conf {
			continue
		}

		cx, cy, w, h := at(i, 0), at(i, 1), at(i, 2), at(i, 3)
		out = append(out, Candidate{
			Class: best,
			Score: bestScore,
			X1:    cx - w/2,
			Y1:    cy - h/2,
			X2:    cx + w/2,
			Y2:    cy + h/2,
		})
	}
	return out, nil
}
