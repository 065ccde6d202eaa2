package helpers

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

// ParseColor accepts SVG color names ("white", "DarkSlateGray"), #rgb,
// #rrggbb and #rrggbbaa.
func ParseColor(value string) (color.RGBA, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return color.RGBA{}, fmt.Errorf("parse color: empty value")
	}

	if strings.HasPrefix(trimmed, "#") {
		return parseHex(trimmed)
	}

	name := cases.Fold().String(trimmed)
	name = strings.ReplaceAll(name, " ", "")
	if clr, ok := colornames.Map[name]; ok {
		return clr, nil
	}
	return color.RGBA{}, fmt.Errorf("parse color: unknown color %q", value)
}

func parseHex(value string) (color.RGBA, error) {
	digits := value[1:]
	switch len(digits) {
	case 3:
		expanded := make([]byte, 0, 6)
		for i := range 3 {
			expanded = append(expanded, digits[i], digits[i])
		}
		digits = string(expanded) + "ff"
	case 6:
		digits += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("parse color: invalid hex %q", value)
	}

	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color: invalid hex %q", value)
	}

	r := uint8(n >> 24)
	g := uint8(n >> 16)
	b := uint8(n >> 8)
	a := uint8(n)

	// color.RGBA is alpha-premultiplied.
	if a != 0xff {
		r = uint8(ClampUINT8(int(r) * int(a) / 0xff))
		g = uint8(ClampUINT8(int(g) * int(a) / 0xff))
		b = uint8(ClampUINT8(int(b) * int(a) / 0xff))
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// FormatColor renders clr as #rrggbb, or #rrggbbaa when it is not opaque.
func FormatColor(clr color.Color) string {
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
