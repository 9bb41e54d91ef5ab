package tally

import (
	"fmt"
	"sort"
	"strings"

	"github.com/intothevoid/tftsight/pkg/detect"
	"github.com/intothevoid/tftsight/pkg/roster"
)

// Counts maps a class name to the number of copies seen on the board.
type Counts map[string]int

// FromDetections counts detections by class name. Detections whose class
// index falls outside the roster are dropped.
func FromDetections(dets []detect.Detection, r *roster.Roster) Counts {
	c := Counts{}
	for _, d := range dets {
		name, ok := r.Label(d.Class)
		if !ok {
			continue
		}
		c[name]++
	}
	return c
}

// Merge combines the counts of several shots of the same board, keeping the
// per-champion maximum. A unit hidden behind another in one shot is still
// counted once it shows up in any other.
func Merge(shots ...Counts) Counts {
	out := Counts{}
	for _, s := range shots {
		for name, n := range s {
			if n > out[name] {
				out[name] = n
			}
		}
	}
	return out
}

// Total returns the number of units counted.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Count is one champion line of the overlay. Remaining is -1 when the pool
// size for the champion's cost is unknown.
type Count struct {
	Name      string
	Count     int
	Remaining int
}

// CostGroup lists the most tallied champions of one shop cost.
type CostGroup struct {
	Cost int
	Top  []Count
}

// TraitCount is the number of distinct tallied champions carrying a trait.
type TraitCount struct {
	Trait string
	Count int
}

// Summary is everything the overlay paints for one board reading.
type Summary struct {
	Groups  []CostGroup
	Traits  []TraitCount
	Total   int
	Unknown int
	Comp    *CompMatch
}

// Summarize groups counts by cost in ascending order. Within a cost,
// champions are ordered by count (highest first) then name, and only the top
// topN are kept (topN <= 0 keeps all). Remaining copies are the pool size for
// the cost minus the count, never below zero. Names without metadata add to
// Unknown.
func Summarize(c Counts, r *roster.Roster, pool roster.Pool, topN int) Summary {
	s := Summary{Total: c.Total()}

	byCost := map[int][]Count{}
	traits := map[string]int{}
	for name, n := range c {
		if n <= 0 {
			continue
		}
		champ, ok := r.Champion(name)
		if !ok || champ.Cost <= 0 {
			s.Unknown += n
			continue
		}

		remaining := -1
		if size, ok := pool[champ.Cost]; ok {
			remaining = size - n
			if remaining < 0 {
				remaining = 0
			}
		}
		byCost[champ.Cost] = append(byCost[champ.Cost], Count{Name: name, Count: n, Remaining: remaining})

		for _, t := range champ.Traits {
			traits[t]++
		}
	}

	costs := make([]int, 0, len(byCost))
	for cost := range byCost {
		costs = append(costs, cost)
	}
	sort.Ints(costs)

	for _, cost := range costs {
		champs := byCost[cost]
		sort.Slice(champs, func(i, j int) bool {
			if champs[i].Count != champs[j].Count {
				return champs[i].Count > champs[j].Count
			}
			return champs[i].Name < champs[j].Name
		})
		if topN > 0 && len(champs) > topN {
			champs = champs[:topN]
		}
		s.Groups = append(s.Groups, CostGroup{Cost: cost, Top: champs})
	}

	for t, n := range traits {
		s.Traits = append(s.Traits, TraitCount{Trait: t, Count: n})
	}
	sort.Slice(s.Traits, func(i, j int) bool {
		if s.Traits[i].Count != s.Traits[j].Count {
			return s.Traits[i].Count > s.Traits[j].Count
		}
		return s.Traits[i].Trait < s.Traits[j].Trait
	})

	return s
}

// maxTraitsShown caps the traits line so the text box stays narrow.
const maxTraitsShown = 6

// Lines renders the summary as the overlay's text box lines.
func Lines(s Summary) []string {
	if len(s.Groups) == 0 && s.Unknown == 0 {
		return []string{"No champions detected"}
	}

	var lines []string
	for _, g := range s.Groups {
		lines = append(lines, fmt.Sprintf("Top champions for cost %d:", g.Cost))
		for _, c := range g.Top {
			if c.Remaining < 0 {
				lines = append(lines, fmt.Sprintf("  %s - %d tallied", c.Name, c.Count))
				continue
			}
			lines = append(lines, fmt.Sprintf("  %s - %d tallied, %d remaining", c.Name, c.Count, c.Remaining))
		}
	}

	if len(s.Traits) > 0 {
		shown := s.Traits
		if len(shown) > maxTraitsShown {
			shown = shown[:maxTraitsShown]
		}
		parts := make([]string, len(shown))
		for i, t := range shown {
			parts[i] = fmt.Sprintf("%s %d", t.Trait, t.Count)
		}
		lines = append(lines, "Traits: "+strings.Join(parts, ", "))
	}
	if s.Unknown > 0 {
		lines = append(lines, fmt.Sprintf("Unrecognised: %d", s.Unknown))
	}
	if s.Comp != nil {
		lines = append(lines, fmt.Sprintf("Closest comp: %s (%d/%d)", s.Comp.Name, s.Comp.Matched, s.Comp.Size))
	}
	return lines
}

// String joins Lines with newlines.
func (s Summary) String() string {
	return strings.Join(Lines(s), "\n")
}
