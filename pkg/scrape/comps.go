package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/intothevoid/tftsight/pkg/tally"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Selectors of the comps page markup. They follow the site's current class
// names and break whenever it is redesigned.
const (
	RowSelector = "div.CompRow"

	rowClass        = "CompRow"
	titleClass      = "Comp_Title"
	unitClass       = "Unit_Wrapper"
	unitNameClass   = "UnitNames"
	itemClass       = "Item_img"
	defaultCompName = "No team name"
)

// Unit is one champion slot of a comp with its recommended items.
type Unit struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Comp is a team composition listed on the meta site.
type Comp struct {
	Name  string `json:"name"`
	Units []Unit `json:"units"`
}

// UnitNames lists the comp's unit names in page order.
func (c Comp) UnitNames() []string {
	names := make([]string, len(c.Units))
	for i, u := range c.Units {
		names[i] = u.Name
	}
	return names
}

// Scrape loads url in the browser and parses the comps on it.
func Scrape(ctx context.Context, b *Browser, url string, timeout time.Duration) ([]Comp, error) {
	log.Info().Str("url", url).Msg("loading the webpage")
	src, err := b.PageSource(ctx, url, RowSelector, timeout)
	if err != nil {
		return nil, err
	}
	log.Info().Int("bytes", len(src)).Msg("page source retrieved")

	comps, err := ParseComps(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	log.Info().Int("teams", len(comps)).Msg("found team containers")
	return comps, nil
}

// ParseComps extracts comps from the page HTML.
func ParseComps(r io.Reader) ([]Comp, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("scrape: parse html: %w", err)
	}

	var comps []Comp
	for _, row := range findAll(doc, "div", rowClass) {
		comp := Comp{Name: defaultCompName}
		if title := findFirst(row, "div", titleClass); title != nil {
			comp.Name = text(title)
		}

		for _, u := range findAll(row, "div", unitClass) {
			nameNode := findFirst(u, "div", unitNameClass)
			if nameNode == nil {
				continue
			}
			unit := Unit{Name: text(nameNode), Items: []string{}}
			for _, img := range findAll(u, "img", itemClass) {
				if alt, ok := attr(img, "alt"); ok {
					unit.Items = append(unit.Items, alt)
				}
			}
			comp.Units = append(comp.Units, unit)
		}
		comps = append(comps, comp)
	}
	return comps, nil
}

// Print writes comps in a human readable listing.
func Print(w io.Writer, comps []Comp) {
	title := color.New(color.Bold, color.FgGreen)
	for _, c := range comps {
		title.Fprintf(w, "Team Name: %s\n", c.Name)
		for _, u := range c.Units {
			fmt.Fprintf(w, "Unit: %s, Items: [%s]\n", u.Name, strings.Join(u.Items, ", "))
		}
		fmt.Fprintln(w, strings.Repeat("-", 40))
	}
}

// SaveComps writes comps as indented JSON.
func SaveComps(path string, comps []Comp) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(comps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadComps reads comps saved by SaveComps.
func LoadComps(path string) ([]Comp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var comps []Comp
	if err := json.Unmarshal(data, &comps); err != nil {
		return nil, fmt.Errorf("scrape: decode %s: %w", path, err)
	}
	return comps, nil
}

// TallyComps reduces comps to what board matching needs.
func TallyComps(comps []Comp) []tally.Comp {
	out := make([]tally.Comp, len(comps))
	for i, c := range comps {
		out[i] = tally.Comp{Name: c.Name, Units: c.UnitNames()}
	}
	return out
}
