package main

import (
	"image/color"

	"git.sr.ht/~whereswaldon/areaplot/chart"
)

const (
	disabledAlpha = uint8(100)
	areaAlpha     = uint8(0x99)
	stripeAlpha   = uint8(50)
)

var (
	axisColor   = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	cursorColor = color.NRGBA{A: 0xff}
	tooltipBg   = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	errorColor  = color.NRGBA{R: 150, A: 255}
)

// seriesColor parses a colour from a chart declaration and scales its alpha
// by a.
func seriesColor(s string, a uint8) color.NRGBA {
	c := chart.MustColor(s)
	c.A = uint8(uint16(c.A) * uint16(a) / 0xff)
	return c
}
