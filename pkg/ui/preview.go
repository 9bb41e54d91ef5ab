package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const waitingText = "waiting for first capture"

// FrameView shows the annotated capture behind the latest reading. Until a
// frame arrives it shows a hint instead of an empty box.
type FrameView struct {
	widget.BaseWidget

	bg    *canvas.Rectangle
	frame *canvas.Image
	hint  *canvas.Text
}

// NewFrameView creates an empty preview.
func NewFrameView() *FrameView {
	v := &FrameView{
		bg:    canvas.NewRectangle(boxColor),
		frame: canvas.NewImageFromImage(nil),
		hint:  canvas.NewText(waitingText, textColor),
	}
	v.frame.FillMode = canvas.ImageFillContain
	v.frame.ScaleMode = canvas.ImageScaleFastest
	v.frame.Hide()
	v.hint.TextSize = textSize
	v.hint.Alignment = fyne.TextAlignCenter
	v.ExtendBaseWidget(v)
	return v
}

// UpdateFrame swaps in a new frame. Safe to call from any goroutine.
func (v *FrameView) UpdateFrame(img image.Image) {
	fyne.Do(func() { v.setFrame(img) })
}

// setFrame must run on the fyne goroutine. A nil frame brings the hint back.
func (v *FrameView) setFrame(img image.Image) {
	v.frame.Image = img
	if img == nil {
		v.frame.Hide()
		v.hint.Show()
	} else {
		v.hint.Hide()
		v.frame.Show()
	}
	v.Refresh()
}

func (v *FrameView) CreateRenderer() fyne.WidgetRenderer {
	return &frameRenderer{v: v, objects: []fyne.CanvasObject{v.bg, v.frame, v.hint}}
}

type frameRenderer struct {
	v       *FrameView
	objects []fyne.CanvasObject
}

func (r *frameRenderer) Destroy() {}

func (r *frameRenderer) MinSize() fyne.Size {
	return fyne.NewSize(previewW, previewH)
}

func (r *frameRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *frameRenderer) Refresh() {
	for _, o := range r.objects {
		o.Refresh()
	}
}

func (r *frameRenderer) Layout(s fyne.Size) {
	r.v.bg.Resize(s)
	r.v.frame.Resize(s)
	h := r.v.hint.MinSize()
	r.v.hint.Move(fyne.NewPos(0, (s.Height-h.Height)/2))
	r.v.hint.Resize(fyne.NewSize(s.Width, h.Height))
}
