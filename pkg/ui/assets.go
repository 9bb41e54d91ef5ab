package ui

import (
	_ "embed"
	"image/color"

	"fyne.io/fyne/v2"
)

//go:embed icons/tftsight.svg
var appIconSVG []byte

var appIcon = fyne.NewStaticResource("tftsight.svg", appIconSVG)

// AppIcon is the window and tray icon.
func AppIcon() fyne.Resource {
	return appIcon
}

var (
	textColor = color.White
	boxColor  = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// costColors follow the in-game shop border colours.
var costColors = map[int]color.NRGBA{
	1: {R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}, // grey
	2: {R: 0x11, G: 0xb2, B: 0x88, A: 0xff}, // green
	3: {R: 0x20, G: 0x7a, B: 0xc7, A: 0xff}, // blue
	4: {R: 0xc4, G: 0x40, B: 0xda, A: 0xff}, // purple
	5: {R: 0xff, G: 0xb9, B: 0x3b, A: 0xff}, // gold
}

// CostColor returns the header colour for a shop cost. Unknown costs are white.
func CostColor(cost int) color.Color {
	if c, ok := costColors[cost]; ok {
		return c
	}
	return textColor
}
