//go:build !windows

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
)

// Without a layered window the background cannot be keyed out, so the overlay
// shrinks to the text box and this backdrop only frames it.
const keyedBackground = false

var backgroundColor color.Color = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}

func pinWindow(_ fyne.Window, _ float64) {
	log.Debug().Msg("always-on-top not supported on this platform, relying on the window manager")
}
