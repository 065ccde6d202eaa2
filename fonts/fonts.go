package fonts

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var ErrMissingFont = errors.New("font resource not found")

// ResolvePath anchors a relative font path at root. Empty paths stay empty and
// select the embedded monospace face.
func ResolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// LoadFace parses the TrueType/OpenType font at path and returns a face sized
// to size pixels. An empty path loads the embedded Go Mono font.
func LoadFace(path string, size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", size)
	}

	data := gomono.TTF
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissingFont, path)
			}
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data = raw
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// SpriteSet holds one pre-rasterized alpha mask per glyph. Masks are
// positioned relative to the glyph's baseline origin. A SpriteSet is never
// modified after construction, so workers share one freely.
type SpriteSet struct {
	size    int
	ascent  int
	sprites map[rune]*image.Alpha
}

// NewSpriteSet rasterizes every rune in chars with face. size is the cell
// edge the sprites are laid out for.
func NewSpriteSet(face font.Face, size int, chars []rune) *SpriteSet {
	set := &SpriteSet{
		size:    size,
		ascent:  face.Metrics().Ascent.Ceil(),
		sprites: make(map[rune]*image.Alpha, len(chars)),
	}

	for _, char := range chars {
		bounds, _ := font.BoundString(face, string(char))
		rect := image.Rect(
			bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
			bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
		)
		if rect.Empty() {
			continue
		}

		mask := image.NewAlpha(rect)
		d := font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: fixed.P(0, 0)}
		d.DrawString(string(char))

		set.sprites[char] = mask
	}

	return set
}

// LoadSpriteSet loads the font at path and rasterizes the palette at size.
func LoadSpriteSet(path string, size int) (*SpriteSet, error) {
	face, err := LoadFace(path, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	return NewSpriteSet(face, size, Palette), nil
}

func (s *SpriteSet) Size() int { return s.size }

// Has reports whether char leaves ink on the canvas.
func (s *SpriteSet) Has(char rune) bool {
	_, ok := s.sprites[char]
	return ok
}

// Draw composites char onto dst with its line box's top-left corner at pt.
func (s *SpriteSet) Draw(dst draw.Image, pt image.Point, char rune, clr color.Color) {
	mask, ok := s.sprites[char]
	if !ok {
		return
	}

	origin := pt.Add(image.Pt(0, s.ascent))
	rect := mask.Bounds().Add(origin)
	draw.DrawMask(dst, rect, image.NewUniform(clr), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}
