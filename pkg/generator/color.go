// color.go - Hex colour parsing for text and shadow colours.
package generator

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexRGBA parses "#rrggbb" or "#rrggbbaa" into a non-premultiplied
// colour. The leading '#' is optional.
func ParseHexRGBA(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// MustParseHex is ParseHexRGBA for constants; it panics on bad input.
func MustParseHex(s string) color.NRGBA {
	c, err := ParseHexRGBA(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatHex renders c as "#rrggbb", or "#rrggbbaa" when not opaque.
func FormatHex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
