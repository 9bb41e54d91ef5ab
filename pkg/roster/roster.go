package roster

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Champion is one playable unit of the current set.
type Champion struct {
	CharacterName string   `json:"characterName"`
	APIName       string   `json:"apiName"`
	Name          string   `json:"name"`
	Cost          int      `json:"cost"`
	Traits        []string `json:"traits"`
}

// Meta is the on-disk champion metadata written by the asset sync.
type Meta struct {
	SetNumber int        `json:"set_number"`
	Count     int        `json:"count"`
	Champions []Champion `json:"champions"`
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SafeName turns a display name into a class name ("Kai'Sa" -> "Kai_Sa").
func SafeName(name string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

// Dedup drops repeated names, keeping the first occurrence in place.
func Dedup(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// LoadClasses reads a class list, one name per line. Blank lines are skipped.
func LoadClasses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class list: %w", err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read class list: %w", err)
	}
	return names, nil
}

// WriteClasses writes the de-duplicated names, one per line.
func WriteClasses(path string, names []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var b strings.Builder
	for _, n := range Dedup(names) {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// LoadMeta reads champ_meta.json.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", path, err)
	}
	return &m, nil
}

// WriteMeta writes champ_meta.json with two-space indentation.
func WriteMeta(path string, m *Meta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Roster maps detector class indices to champions.
type Roster struct {
	classes []string
	byClass map[string]Champion
}

// New builds a roster. meta may be nil, in which case labels resolve but
// costs and traits are unknown.
func New(classes []string, meta *Meta) *Roster {
	r := &Roster{
		classes: classes,
		byClass: make(map[string]Champion),
	}
	if meta == nil {
		return r
	}
	for _, c := range meta.Champions {
		key := SafeName(c.Name)
		if _, ok := r.byClass[key]; !ok {
			r.byClass[key] = c
		}
	}
	return r
}

// Load reads both files. A missing metadata file is not an error.
func Load(classesPath, metaPath string) (*Roster, error) {
	classes, err := LoadClasses(classesPath)
	if err != nil {
		return nil, err
	}
	meta, err := LoadMeta(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(classes, nil), nil
		}
		return nil, err
	}
	return New(classes, meta), nil
}

// Label returns the class name for a detector index.
func (r *Roster) Label(class int) (string, bool) {
	if class < 0 || class >= len(r.classes) {
		return "", false
	}
	return r.classes[class], true
}

// Champion looks up metadata by class name.
func (r *Roster) Champion(class string) (Champion, bool) {
	c, ok := r.byClass[class]
	return c, ok
}

// Names returns the class list in index order.
func (r *Roster) Names() []string {
	return r.classes
}

// Pool holds the number of copies of each champion in the shared pool, by cost.
type Pool map[int]int

// DefaultPool returns the usual shared pool sizes.
func DefaultPool() Pool {
	return Pool{1: 30, 2: 25, 3: 18, 4: 10, 5: 9}
}

// ParsePool reads "cost:copies" pairs separated by commas.
func ParsePool(s string) (Pool, error) {
	p := Pool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("pool entry %q: want cost:copies", part)
		}
		cost, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, fmt.Errorf("pool entry %q: %w", part, err)
		}
		copies, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("pool entry %q: %w", part, err)
		}
		if cost <= 0 || copies < 0 {
			return nil, fmt.Errorf("pool entry %q: cost must be positive and copies non-negative", part)
		}
		p[cost] = copies
	}
	if len(p) == 0 {
		return nil, errors.New("empty pool definition")
	}
	return p, nil
}
