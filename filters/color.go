package filters

import (
	"image/color"
	"strings"

	"charvideo/helpers"
)

// TextColor is either Auto, which paints each glyph with the color sampled
// from its cell, or a fixed color. The zero value is Auto.
type TextColor struct {
	isFixed bool
	fixed   color.RGBA
}

func AutoTextColor() TextColor { return TextColor{} }

func FixedTextColor(clr color.Color) TextColor {
	return TextColor{isFixed: true, fixed: color.RGBAModel.Convert(clr).(color.RGBA)}
}

// ParseTextColor accepts "auto" (any case) or anything helpers.ParseColor does.
func ParseTextColor(value string) (TextColor, error) {
	if strings.EqualFold(strings.TrimSpace(value), "auto") {
		return AutoTextColor(), nil
	}
	clr, err := helpers.ParseColor(value)
	if err != nil {
		return TextColor{}, err
	}
	return FixedTextColor(clr), nil
}

func (c TextColor) IsAuto() bool { return !c.isFixed }

// Resolve returns the fill for a glyph whose cell sampled as sampled.
func (c TextColor) Resolve(sampled color.Color) color.Color {
	if c.isFixed {
		return c.fixed
	}
	return sampled
}

func (c TextColor) String() string {
	if c.isFixed {
		return helpers.FormatColor(c.fixed)
	}
	return "auto"
}
