package tally

import "math"

// Smoother damps frame-to-frame flicker in live counts with an exponential
// moving average per champion.
type Smoother struct {
	Alpha float64 // 0 < Alpha < 1; lower is smoother, outside that range disables smoothing
	last  map[string]float64
}

// NewSmoother creates a smoother with the given factor.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{Alpha: alpha}
}

// forgetBelow drops champions whose average has decayed to nothing.
const forgetBelow = 0.05

// Smooth folds a new reading into the running average and returns the
// rounded counts. Champions averaging below one half are left out.
func (s *Smoother) Smooth(c Counts) Counts {
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return c
	}

	// First reading is accepted as is
	if s.last == nil {
		s.last = make(map[string]float64, len(c))
		for name, n := range c {
			s.last[name] = float64(n)
		}
		return c
	}

	for name := range c {
		if _, ok := s.last[name]; !ok {
			s.last[name] = 0
		}
	}

	out := Counts{}
	for name, prev := range s.last {
		// Lerp formula: current + (target - current) * alpha
		v := prev + (float64(c[name])-prev)*s.Alpha
		if v < forgetBelow {
			delete(s.last, name)
			continue
		}
		s.last[name] = v
		if n := int(math.Round(v)); n > 0 {
			out[name] = n
		}
	}
	return out
}

// Reset forgets all history.
func (s *Smoother) Reset() {
	s.last = nil
}
