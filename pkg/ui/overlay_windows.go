//go:build windows

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

const (
	swpNoSize     = 0x0001
	swpNoActivate = 0x0010
	swpShowWindow = 0x0040

	wsExLayered    = 0x00080000
	wsExToolWindow = 0x00000080

	lwaColorKey = 0x1
	lwaAlpha    = 0x2
)

// hwndTopmost is (HWND)-1.
const hwndTopmost = ^uintptr(0)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

// keyedBackground reports that the window background can be made transparent.
const keyedBackground = true

// keyColor is painted fully transparent by the layered window.
var keyColor = color.NRGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

var backgroundColor color.Color = keyColor

func colorRef(c color.NRGBA) uintptr {
	return uintptr(c.R) | uintptr(c.G)<<8 | uintptr(c.B)<<16
}

// pinWindow makes the overlay layered, keys out the background, keeps it off
// the taskbar and above every other window at the top-left of the screen.
func pinWindow(w fyne.Window, alpha float64) {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		log.Warn().Msg("native window handle unavailable, overlay not pinned")
		return
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}

	nw.RunNative(func(ctx any) {
		wc, ok := ctx.(driver.WindowsWindowContext)
		if !ok || wc.HWND == 0 {
			return
		}
		hwnd := wc.HWND

		exStyle := int32(-20) // GWL_EXSTYLE
		style, _, _ := procGetWindowLongW.Call(hwnd, uintptr(exStyle))
		procSetWindowLongW.Call(hwnd, uintptr(exStyle), style|wsExLayered|wsExToolWindow)

		procSetLayeredWindowAttributes.Call(hwnd, colorRef(keyColor), uintptr(alpha*255), lwaColorKey|lwaAlpha)

		r, _, err := procSetWindowPos.Call(hwnd, hwndTopmost, 0, 0, 0, 0, swpNoSize|swpNoActivate|swpShowWindow)
		if r == 0 {
			log.Warn().Err(err).Msg("SetWindowPos failed")
			return
		}
		log.Debug().Msg("overlay pinned topmost")
	})
}
