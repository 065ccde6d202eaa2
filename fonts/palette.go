package fonts

// Palette runs from the visually heaviest glyph to a trailing space. Its order
// and contents fix the art produced for every luminance, so changing it changes
// every rendered frame.
var Palette = []rune("$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. ")

// NoAlpha is passed to PickChar when the sample carries no alpha channel.
const NoAlpha = 256

// Luminance returns the BT.709 weighted sum of r, g and b, truncated.
func Luminance(r, g, b uint8) int {
	// Explicit conversions keep the compiler from fusing the sum into FMA
	// instructions, which would shift results at bucket edges.
	sum := float64(0.2126*float64(r)) + float64(0.7152*float64(g))
	sum = sum + float64(0.0722*float64(b))
	return int(sum)
}

// PickChar maps a pixel to its palette glyph. A fully transparent pixel
// (alpha == 0) is always blank.
func PickChar(r, g, b uint8, alpha int) rune {
	if alpha == 0 {
		return ' '
	}

	unit := 257.0 / float64(len(Palette))
	index := int(float64(Luminance(r, g, b)) / unit)
	return Palette[index]
}
