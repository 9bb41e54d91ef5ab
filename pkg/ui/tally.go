package ui

import (
	"image/color"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/intothevoid/tftsight/pkg/tally"
)

const (
	textSize   = 10
	lineHeight = 20
	boxPadding = 10
)

type styledLine struct {
	text  string
	color color.Color
}

// styledLines colours each cost header; everything else is plain text.
func styledLines(s tally.Summary) []styledLine {
	lines := tally.Lines(s)
	out := make([]styledLine, len(lines))
	group := 0
	for i, l := range lines {
		out[i] = styledLine{text: l, color: textColor}
		if group < len(s.Groups) && strings.HasPrefix(l, "Top champions for cost ") {
			out[i].color = CostColor(s.Groups[group].Cost)
			group++
		}
	}
	return out
}

// textBoxLayout sizes the box around lines of the given widths and returns
// the top-left of each line inside it.
func textBoxLayout(widths []float32) (fyne.Size, []fyne.Position) {
	var widest float32
	pos := make([]fyne.Position, len(widths))
	for i, w := range widths {
		if w > widest {
			widest = w
		}
		pos[i] = fyne.NewPos(boxPadding, boxPadding+float32(i)*lineHeight)
	}
	return fyne.NewSize(widest+2*boxPadding, float32(len(widths)+1)*lineHeight), pos
}

// TallyWidget is the black text box listing the current board reading.
type TallyWidget struct {
	widget.BaseWidget

	mu    sync.Mutex
	lines []styledLine

	bg    *canvas.Rectangle
	texts []*canvas.Text
}

// NewTallyWidget creates an empty tally box.
func NewTallyWidget() *TallyWidget {
	w := &TallyWidget{bg: canvas.NewRectangle(boxColor)}
	w.bg.StrokeColor = textColor
	w.bg.StrokeWidth = 1
	w.ExtendBaseWidget(w)
	w.setLines(styledLines(tally.Summary{}))
	return w
}

// UpdateSummary replaces the shown reading. Safe to call from any goroutine.
func (w *TallyWidget) UpdateSummary(s tally.Summary) {
	lines := styledLines(s)
	fyne.Do(func() {
		w.setLines(lines)
		w.Refresh()
	})
}

// setLines reuses existing text objects and hides the surplus.
func (w *TallyWidget) setLines(lines []styledLine) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lines = lines
	for len(w.texts) < len(lines) {
		t := canvas.NewText("", textColor)
		t.TextSize = textSize
		w.texts = append(w.texts, t)
	}
	for i, t := range w.texts {
		if i >= len(lines) {
			t.Hidden = true
			continue
		}
		t.Text = lines[i].text
		t.Color = lines[i].color
		t.Hidden = false
	}
}

func (w *TallyWidget) CreateRenderer() fyne.WidgetRenderer {
	return &tallyRenderer{w: w}
}

type tallyRenderer struct {
	w *TallyWidget
}

func (r *tallyRenderer) Destroy() {}

func (r *tallyRenderer) widths() []float32 {
	widths := make([]float32, len(r.w.lines))
	for i, l := range r.w.lines {
		widths[i] = fyne.MeasureText(l.text, textSize, fyne.TextStyle{}).Width
	}
	return widths
}

func (r *tallyRenderer) MinSize() fyne.Size {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	size, _ := textBoxLayout(r.widths())
	return size
}

func (r *tallyRenderer) Objects() []fyne.CanvasObject {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	objs := make([]fyne.CanvasObject, 0, len(r.w.texts)+1)
	objs = append(objs, r.w.bg)
	for _, t := range r.w.texts {
		objs = append(objs, t)
	}
	return objs
}

func (r *tallyRenderer) Refresh() {
	r.Layout(r.w.Size())
	r.w.bg.Refresh()
	r.w.mu.Lock()
	texts := append([]*canvas.Text(nil), r.w.texts...)
	r.w.mu.Unlock()
	for _, t := range texts {
		t.Refresh()
	}
}

func (r *tallyRenderer) Layout(_ fyne.Size) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	size, pos := textBoxLayout(r.widths())
	r.w.bg.Move(fyne.NewPos(0, 0))
	r.w.bg.Resize(size)
	for i, p := range pos {
		t := r.w.texts[i]
		t.Move(p)
		t.Resize(fyne.NewSize(size.Width-2*boxPadding, lineHeight))
	}
}
