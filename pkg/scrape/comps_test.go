package scrape

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const compsPage = `<html><body>
<div class="CompRow">
  <div class="Comp_Title"> Rebel <span>Jinx</span> </div>
  <div class="Unit_Wrapper">
    <div class="UnitNames">Jinx</div>
    <div class="Items">
      <img class="Item_img" alt="Infinity Edge">
      <img class="Item_img" src="x.png">
      <img class="Item_img big" alt="Last Whisper">
    </div>
  </div>
  <div class="Unit_Wrapper">
    <div class="UnitNames">Kai'Sa</div>
  </div>
  <div class="Unit_Wrapper"><span>placeholder without a name</span></div>
</div>
<div class="CompRow highlighted">
  <div class="Unit_Wrapper"><div class="UnitNames">Vi</div></div>
</div>
<div class="Other"><div class="UnitNames">Ignored</div></div>
</body></html>`

func TestParseComps(t *testing.T) {
	comps, err := ParseComps(strings.NewReader(compsPage))
	if err != nil {
		t.Fatal(err)
	}

	want := []Comp{
		{
			Name: "RebelJinx",
			Units: []Unit{
				{Name: "Jinx", Items: []string{"Infinity Edge", "Last Whisper"}},
				{Name: "Kai'Sa", Items: []string{}},
			},
		},
		{
			Name:  "No team name",
			Units: []Unit{{Name: "Vi", Items: []string{}}},
		},
	}
	if !reflect.DeepEqual(comps, want) {
		t.Errorf("ParseComps =\n%+v\nwant\n%+v", comps, want)
	}
}

func TestParseCompsEmptyPage(t *testing.T) {
	comps, err := ParseComps(strings.NewReader("<html><body><p>maintenance</p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 0 {
		t.Errorf("expected no comps, got %+v", comps)
	}
}

func TestSaveLoadComps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets", "comps.json")
	in := []Comp{{Name: "Rebels", Units: []Unit{{Name: "Jinx", Items: []string{"Infinity Edge"}}}}}

	if err := SaveComps(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := LoadComps(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("LoadComps = %+v, want %+v", out, in)
	}
}

func TestTallyComps(t *testing.T) {
	got := TallyComps([]Comp{{Name: "Rebels", Units: []Unit{{Name: "Jinx"}, {Name: "Vi"}}}})
	if len(got) != 1 || got[0].Name != "Rebels" || !reflect.DeepEqual(got[0].Units, []string{"Jinx", "Vi"}) {
		t.Errorf("TallyComps = %+v", got)
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, []Comp{{Name: "Rebels", Units: []Unit{{Name: "Jinx", Items: []string{"Infinity Edge", "Last Whisper"}}}}})

	out := buf.String()
	for _, want := range []string{"Team Name: Rebels", "Unit: Jinx, Items: [Infinity Edge, Last Whisper]", strings.Repeat("-", 40)} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
