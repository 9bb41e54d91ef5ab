package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/intothevoid/tftsight/pkg/tally"
	"github.com/rs/zerolog/log"
	"golang.design/x/clipboard"
)

// bottomMargin keeps the overlay clear of the in-game shop.
const bottomMargin = 200

const (
	buttonW  = 80
	buttonH  = 30
	previewW = 320
	previewH = 180
)

// Options configure the overlay window.
type Options struct {
	Title string
	// Screen is the physical size of the display the overlay covers.
	Screen image.Point
	// Scale is the display scaling factor (1.5 for 150%).
	Scale float64
	// Alpha is the window opacity where the platform supports it.
	Alpha       float64
	ShowPreview bool
	// OnClose runs once when the overlay is closed by any route.
	OnClose func()
}

// Overlay is the frameless window that floats the tally over the game.
type Overlay struct {
	app     fyne.App
	win     fyne.Window
	tally   *TallyWidget
	preview *FrameView
	content *fyne.Container
	alpha   float64
	// compact shrinks the window to the text box where the background
	// cannot be keyed out, so the board stays visible.
	compact bool

	mu       sync.Mutex
	last     tally.Summary
	clipOnce sync.Once
	clipErr  error

	closeOnce sync.Once
	onClose   func()
}

// NewOverlay builds the window. Call Run on the main goroutine to show it.
func NewOverlay(a fyne.App, opts Options) *Overlay {
	if opts.Title == "" {
		opts.Title = "tftsight"
	}
	o := &Overlay{
		app:     a,
		tally:   NewTallyWidget(),
		alpha:   opts.Alpha,
		compact: !keyedBackground,
		onClose: opts.OnClose,
	}
	a.SetIcon(AppIcon())

	// A splash window has no decorations
	if drv, ok := a.Driver().(desktop.Driver); ok {
		o.win = drv.CreateSplashWindow()
		o.win.SetTitle(opts.Title)
	} else {
		o.win = a.NewWindow(opts.Title)
	}
	o.win.SetPadded(false)
	o.win.SetFixedSize(true)

	closeBtn := widget.NewButton("Close", o.Close)
	objects := []fyne.CanvasObject{canvas.NewRectangle(backgroundColor), o.tally, closeBtn}
	if opts.ShowPreview {
		o.preview = NewFrameView()
		objects = append(objects, o.preview)
	}
	o.content = container.New(&overlayLayout{compact: o.compact}, objects...)
	o.win.SetContent(o.content)
	if o.compact {
		o.win.Resize(compactSize(o.tally.MinSize(), o.preview != nil))
	} else {
		o.win.Resize(windowSize(opts.Screen, opts.Scale))
	}
	o.win.SetCloseIntercept(o.Close)

	o.setupTray()
	return o
}

// compactSize fits the text box, the close button beside it and, when shown,
// the preview underneath.
func compactSize(box fyne.Size, preview bool) fyne.Size {
	w := box.Width + buttonW + 4*boxPadding
	h := box.Height
	if h < buttonH {
		h = buttonH
	}
	h += 2 * boxPadding
	if preview {
		h += previewH + boxPadding
		if floor := float32(previewW + 2*boxPadding); w < floor {
			w = floor
		}
	}
	return fyne.NewSize(w, h)
}

// windowSize converts the screen size to fyne units and trims the bottom
// margin. A zero screen falls back to 1280x720.
func windowSize(screen image.Point, scale float64) fyne.Size {
	if screen.X <= 0 || screen.Y <= 0 {
		screen = image.Pt(1280, 720)
	}
	if scale <= 0 {
		scale = 1
	}
	h := screen.Y - bottomMargin
	if h < lineHeight*4 {
		h = screen.Y
	}
	return fyne.NewSize(float32(float64(screen.X)/scale), float32(float64(h)/scale))
}

func (o *Overlay) setupTray() {
	desk, ok := o.app.(desktop.App)
	if !ok {
		return
	}
	copyItem := fyne.NewMenuItem("Copy summary", o.CopySummary)
	quit := fyne.NewMenuItem("Quit", o.Close)
	quit.IsQuit = true
	desk.SetSystemTrayMenu(fyne.NewMenu("tftsight", copyItem, fyne.NewMenuItemSeparator(), quit))
	desk.SetSystemTrayIcon(AppIcon())
}

// Update shows a new reading. It satisfies pipeline.Sink and is safe to call
// from the pipeline goroutine.
func (o *Overlay) Update(s tally.Summary, frame image.Image) {
	o.mu.Lock()
	o.last = s
	o.mu.Unlock()

	o.tally.UpdateSummary(s)
	if o.preview != nil && frame != nil {
		o.preview.UpdateFrame(frame)
	}
	fyne.Do(func() {
		o.content.Refresh()
		if o.compact {
			o.win.Resize(compactSize(o.tally.MinSize(), o.preview != nil))
		}
	})
}

// Summary returns the last reading shown.
func (o *Overlay) Summary() tally.Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// CopySummary puts the last reading on the system clipboard.
func (o *Overlay) CopySummary() {
	o.clipOnce.Do(func() { o.clipErr = clipboard.Init() })
	if o.clipErr != nil {
		log.Error().Err(o.clipErr).Msg("clipboard unavailable")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(o.Summary().String()))
	log.Info().Msg("summary copied to clipboard")
}

// Run shows the window and blocks in the fyne event loop until the app quits.
func (o *Overlay) Run() {
	o.app.Lifecycle().SetOnStarted(func() {
		pinWindow(o.win, o.alpha)
	})
	o.win.Show()
	o.app.Run()
}

// Close quits the app and runs OnClose. Safe to call more than once and from
// any goroutine.
func (o *Overlay) Close() {
	o.closeOnce.Do(func() {
		if o.onClose != nil {
			o.onClose()
		}
		fyne.Do(o.app.Quit)
	})
}

// overlayLayout pins the tally box to the top-left and the close button to the
// top-right. The preview sits bottom-right, or under the box when compact.
// The background fills the window.
type overlayLayout struct {
	compact bool
}

func (l *overlayLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	objects[0].Move(fyne.NewPos(0, 0))
	objects[0].Resize(size)

	box := objects[1]
	box.Move(fyne.NewPos(boxPadding, boxPadding))
	box.Resize(box.MinSize())

	btn := objects[2]
	btn.Move(fyne.NewPos(size.Width-buttonW-2*boxPadding, boxPadding))
	btn.Resize(fyne.NewSize(buttonW, buttonH))

	if len(objects) > 3 {
		pv := objects[3]
		if l.compact {
			pv.Move(fyne.NewPos(boxPadding, size.Height-previewH-boxPadding))
			pv.Resize(fyne.NewSize(size.Width-2*boxPadding, previewH))
			return
		}
		w, h := size.Width/3, size.Height/3
		pv.Move(fyne.NewPos(size.Width-w-boxPadding, size.Height-h-boxPadding))
		pv.Resize(fyne.NewSize(w, h))
	}
}

func (l *overlayLayout) MinSize(_ []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, 0)
}
