package roster

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jinx", "Jinx"},
		{"Kai'Sa", "Kai_Sa"},
		{"  Dr. Mundo ", "Dr_Mundo"},
		{"Nunu & Willump", "Nunu_Willump"},
		{"TFT13_Vi", "TFT13_Vi"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.in); got != tt.want {
			t.Errorf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupPreservesFirstOccurrence(t *testing.T) {
	got := Dedup([]string{"Vi", "Jinx", "Vi", "Ekko", "Jinx"})
	want := []string{"Vi", "Jinx", "Ekko"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedup = %v, want %v", got, want)
	}
}

func TestClassesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training-files", "classes.txt")
	if err := WriteClasses(path, []string{"Vi", "Jinx", "Vi"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Vi\nJinx\n" {
		t.Errorf("classes.txt = %q", data)
	}

	names, err := LoadClasses(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Vi", "Jinx"}) {
		t.Errorf("LoadClasses = %v", names)
	}
}

func TestLoadWithoutMeta(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes.txt")
	if err := os.WriteFile(classes, []byte("Vi\n\nJinx\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(classes, filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if name, ok := r.Label(1); !ok || name != "Jinx" {
		t.Errorf("Label(1) = %q, %v", name, ok)
	}
	if _, ok := r.Champion("Jinx"); ok {
		t.Errorf("Champion should be unknown without metadata")
	}
}

func TestRosterLookups(t *testing.T) {
	meta := &Meta{
		SetNumber: 13,
		Count:     2,
		Champions: []Champion{
			{Name: "Kai'Sa", Cost: 4, Traits: []string{"Challenger"}},
			{Name: "Vi", Cost: 1, Traits: []string{"Enforcer", "Bruiser"}},
		},
	}
	path := filepath.Join(t.TempDir(), "champ_meta.json")
	if err := WriteMeta(path, meta); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadMeta(path)
	if err != nil {
		t.Fatal(err)
	}

	r := New([]string{"Kai_Sa", "Vi"}, loaded)

	tests := []struct {
		class    int
		wantName string
		wantCost int
		wantOK   bool
	}{
		{0, "Kai_Sa", 4, true},
		{1, "Vi", 1, true},
		{2, "", 0, false},
		{-1, "", 0, false},
	}
	for _, tt := range tests {
		name, ok := r.Label(tt.class)
		if ok != tt.wantOK || name != tt.wantName {
			t.Errorf("Label(%d) = %q, %v; want %q, %v", tt.class, name, ok, tt.wantName, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		c, found := r.Champion(name)
		if !found || c.Cost != tt.wantCost {
			t.Errorf("Champion(%q) = %+v, %v; want cost %d", name, c, found, tt.wantCost)
		}
	}
}

func TestParsePool(t *testing.T) {
	p, err := ParsePool("1:30, 2:25,5:9")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p, Pool{1: 30, 2: 25, 5: 9}) {
		t.Errorf("ParsePool = %v", p)
	}

	for _, bad := range []string{"", "1", "a:3", "1:b", "0:10", "2:-1"} {
		if _, err := ParsePool(bad); err == nil {
			t.Errorf("ParsePool(%q) should fail", bad)
		}
	}
}
