package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette holds the colours handed out to series that do not declare one.
var Palette = []string{
	"#a4633a",
	"#857625",
	"#51854d",
	"#2b7fa8",
	"#726cae",
	"#975f91",
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#f0f000",
}

// ParseColor parses "#rgb", "#rrggbb", or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// MustColor is ParseColor for values that already passed validation. Invalid
// input yields opaque black.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}
