package helpers

import (
	"image"
	"image/draw"
)

func ClampUINT8(val int) int {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}

	return val
}

// CopyImage copies the top-left width x height region of src into a new RGBA
// image anchored at the origin. Dimensions larger than src are clamped.
func CopyImage(src image.Image, width, height int) *image.RGBA {
	bounds := src.Bounds()
	width = min(width, bounds.Dx())
	height = min(height, bounds.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}

// Fill paints rect of dst with a single color.
func Fill(dst draw.Image, rect image.Rectangle, clr image.Image) {
	draw.Draw(dst, rect, clr, image.Point{}, draw.Src)
}
