package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB task colour.
type Color struct {
	R, G, B uint8
}

// DefaultColor is the colour given to tasks created without one.
var DefaultColor = Color{R: 0x3b, G: 0x82, B: 0xf6}

// Palette lists the colours offered by the task dialog.
var Palette = []Color{
	{0x3b, 0x82, 0xf6}, // blue
	{0xef, 0x44, 0x44}, // red
	{0x10, 0xb9, 0x81}, // green
	{0xf5, 0x9e, 0x0b}, // amber
	{0x8b, 0x5c, 0xf6}, // violet
	{0xec, 0x48, 0x99}, // pink
	{0x06, 0xb6, 0xd4}, // cyan
	{0x84, 0xcc, 0x16}, // lime
}

// ParseColor parses a #rrggbb (or rrggbb) hex colour.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the colour as a lowercase #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// Lighter divides every channel by factor (0 < factor < 1 lightens) and
// clamps the result to 255.
func (c Color) Lighter(factor float64) Color {
	if factor <= 0 {
		return c
	}
	scale := func(v uint8) uint8 {
		f := float64(v) / factor
		if f > 255 {
			return 255
		}
		return uint8(f)
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}

// PaletteIndex returns the index of c in Palette, or -1.
func PaletteIndex(c Color) int {
	for i, p := range Palette {
		if p == c {
			return i
		}
	}
	return -1
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
