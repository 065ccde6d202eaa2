package filters

import (
	"errors"
	"fmt"
	"image"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Filter transforms a working image before glyph sampling. Filters may return
// an image with different bounds than their input.
type Filter interface {
	Filter(img image.Image) (image.Image, error)
}

// MosaicFilter replaces img with its block-averaged mosaic.
type MosaicFilter struct {
	BlockSize int
}

func (f *MosaicFilter) Filter(img image.Image) (image.Image, error) {
	mosaic, _, err := Pixelate(img, f.BlockSize)
	if err != nil {
		return nil, err
	}
	return mosaic, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
