package filters

import (
	"image"
	"image/color"

	"charvideo/helpers"
)

// BlockColor is the averaged color of one block and the block's top-left corner.
type BlockColor struct {
	Color color.RGBA
	X, Y  int
}

// Pixelate crops img to the largest multiple of blockSize in each dimension,
// dropping the trailing right and bottom strips, and paints every block with
// its average color. Blocks are visited column by column (x outer, y inner)
// and the returned colors follow that order.
func Pixelate(img image.Image, blockSize int) (*image.RGBA, []BlockColor, error) {
	if blockSize <= 0 {
		return nil, nil, invalidf("block size must be positive, got %d", blockSize)
	}

	bounds := img.Bounds()
	width := bounds.Dx() / blockSize * blockSize
	height := bounds.Dy() / blockSize * blockSize
	if width == 0 || height == 0 {
		return nil, nil, invalidf("image %dx%d is smaller than block size %d", bounds.Dx(), bounds.Dy(), blockSize)
	}

	rgba := helpers.CopyImage(img, width, height)
	colors := make([]BlockColor, 0, (width/blockSize)*(height/blockSize))

	for x := 0; x < width; x += blockSize {
		for y := 0; y < height; y += blockSize {
			rect := image.Rect(x, y, x+blockSize, y+blockSize)
			avg := quantizeRect(rgba, rect)
			helpers.Fill(rgba, rect, image.NewUniform(avg))
			colors = append(colors, BlockColor{Color: avg, X: x, Y: y})
		}
	}

	return rgba, colors, nil
}

// quantizeRect is a box filter: the rounded mean of every pixel in rect.
func quantizeRect(img *image.RGBA, rect image.Rectangle) color.RGBA {
	var sum [4]int
	var pixCount int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		idx := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			for c := range 4 {
				sum[c] += int(img.Pix[idx+c])
			}
			idx += 4
			pixCount++
		}
	}

	half := pixCount / 2
	return color.RGBA{
		R: uint8(helpers.ClampUINT8((sum[0] + half) / pixCount)),
		G: uint8(helpers.ClampUINT8((sum[1] + half) / pixCount)),
		B: uint8(helpers.ClampUINT8((sum[2] + half) / pixCount)),
		A: uint8(helpers.ClampUINT8((sum[3] + half) / pixCount)),
	}
}
