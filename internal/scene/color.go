package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL maps a hue in degrees (periodic in 360) plus saturation and lightness
// in [0, 1] to a #rrggbbaa string with full alpha.
func HSL(hue, saturation, lightness float64) string {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, saturation, lightness).Clamped().Hex() + "ff"
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (colorful.Color, uint8, error) {
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("parse alpha %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, 0, err
	}
	return c, alpha, nil
}
