package tally

import "github.com/intothevoid/tftsight/pkg/roster"

// Comp is a team composition reduced to its unit names.
type Comp struct {
	Name  string
	Units []string
}

// CompMatch reports how much of a comp is already on the board.
type CompMatch struct {
	Name    string
	Matched int
	Size    int
	Missing []string
}

// MatchComp returns the comp sharing the most distinct units with the board.
// Unit names are compared after SafeName so scraped display names line up
// with class names. Ties go to the earlier comp; nil when nothing overlaps.
func MatchComp(c Counts, comps []Comp) *CompMatch {
	var best *CompMatch
	for _, comp := range comps {
		seen := map[string]bool{}
		m := CompMatch{Name: comp.Name}
		for _, u := range comp.Units {
			key := roster.SafeName(u)
			if seen[key] {
				continue
			}
			seen[key] = true
			m.Size++
			if c[key] > 0 {
				m.Matched++
			} else {
				m.Missing = append(m.Missing, u)
			}
		}
		if m.Matched == 0 {
			continue
		}
		if best == nil || m.Matched > best.Matched {
			match := m
			best = &match
		}
	}
	return best
}
