package filters

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"charvideo/fonts"
	"charvideo/helpers"
)

// DefaultGridWidth is the number of glyph columns used when the caller does
// not pin both grid dimensions.
const DefaultGridWidth = 100

// RenderOptions controls how one image becomes character art.
type RenderOptions struct {
	BlockSize   int
	TextSize    int
	Width       int
	Height      int
	Mosaic      bool
	Background  color.Color
	Text        TextColor
	JPEGQuality int
}

// Cell is one position of the glyph grid with the color sampled there.
type Cell struct {
	Row, Col int
	Color    color.NRGBA
	Char     rune
}

// Grid is the sampled glyph grid of one frame, stored row-major.
type Grid struct {
	Width, Height int
	Cells         []Cell
}

func (g Grid) At(row, col int) Cell {
	return g.Cells[row*g.Width+col]
}

// String returns the grid as text, one line per row.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.Width + 1) * g.Height)
	for row := range g.Height {
		for col := range g.Width {
			sb.WriteRune(g.At(row, col).Char)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// AsciiFilter turns images into character art. It holds no per-frame state,
// so one AsciiFilter serves any number of goroutines.
type AsciiFilter struct {
	opts    RenderOptions
	sprites *fonts.SpriteSet
	pre     []Filter
}

// NewAsciiFilter validates opts against sprites. Invalid parameters are
// reported here so a batch can fail before any frame is touched.
func NewAsciiFilter(opts RenderOptions, sprites *fonts.SpriteSet) (*AsciiFilter, error) {
	if opts.TextSize <= 0 {
		return nil, invalidf("text size must be positive, got %d", opts.TextSize)
	}
	if opts.Mosaic && opts.BlockSize <= 0 {
		return nil, invalidf("block size must be positive, got %d", opts.BlockSize)
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, invalidf("grid size must not be negative, got %dx%d", opts.Width, opts.Height)
	}
	if sprites == nil {
		return nil, invalidf("sprite set is required")
	}
	if sprites.Size() != opts.TextSize {
		return nil, invalidf("sprites built for size %d, text size is %d", sprites.Size(), opts.TextSize)
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	f := &AsciiFilter{opts: opts, sprites: sprites}
	if opts.Mosaic {
		f.pre = append(f.pre, &MosaicFilter{BlockSize: opts.BlockSize})
	}
	return f, nil
}

// GridSize returns the glyph grid for an image of the given bounds. Unless
// both width and height are set, the grid is DefaultGridWidth wide and keeps
// the image's aspect ratio (truncated, at least one row).
func GridSize(bounds image.Rectangle, width, height int) (int, int) {
	if width != 0 && height != 0 {
		return width, height
	}
	if bounds.Dx() == 0 {
		return DefaultGridWidth, 1
	}
	rows := DefaultGridWidth * bounds.Dy() / bounds.Dx()
	return DefaultGridWidth, max(rows, 1)
}

// Sample applies the pre-filters, shrinks the result to the glyph grid with
// nearest-neighbor sampling and picks a glyph for every cell.
func (f *AsciiFilter) Sample(img image.Image) (Grid, error) {
	working := img
	for _, pre := range f.pre {
		var err error
		working, err = pre.Filter(working)
		if err != nil {
			return Grid{}, err
		}
	}

	width, height := GridSize(working.Bounds(), f.opts.Width, f.opts.Height)
	small := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(small, small.Bounds(), working, working.Bounds(), draw.Src, nil)

	grid := Grid{Width: width, Height: height, Cells: make([]Cell, 0, width*height)}
	for row := range height {
		for col := range width {
			idx := small.PixOffset(col, row)
			r, g, b, a := small.Pix[idx], small.Pix[idx+1], small.Pix[idx+2], small.Pix[idx+3]
			grid.Cells = append(grid.Cells, Cell{
				Row:   row,
				Col:   col,
				Color: color.NRGBA{R: r, G: g, B: b, A: a},
				Char:  fonts.PickChar(r, g, b, int(a)),
			})
		}
	}
	return grid, nil
}

// Rasterize draws grid onto a fresh background-filled canvas.
func (f *AsciiFilter) Rasterize(grid Grid) *image.RGBA {
	size := f.opts.TextSize
	canvas := image.NewRGBA(image.Rect(0, 0, grid.Width*size, grid.Height*size))
	helpers.Fill(canvas, canvas.Bounds(), image.NewUniform(f.opts.Background))

	for _, cell := range grid.Cells {
		sampled := color.NRGBA{R: cell.Color.R, G: cell.Color.G, B: cell.Color.B, A: 0xff}
		pt := image.Pt(cell.Col*size, cell.Row*size)
		f.sprites.Draw(canvas, pt, cell.Char, f.opts.Text.Resolve(sampled))
	}
	return canvas
}

// Filter implements Filter: it returns the character-art rendition of img.
func (f *AsciiFilter) Filter(img image.Image) (image.Image, error) {
	return f.Render(img)
}

func (f *AsciiFilter) Render(img image.Image) (*image.RGBA, error) {
	grid, err := f.Sample(img)
	if err != nil {
		return nil, err
	}
	return f.Rasterize(grid), nil
}

// RenderFile renders the image at src and writes it to dst in the format
// named by dst's extension.
func (f *AsciiFilter) RenderFile(src, dst string) error {
	if !helpers.SupportedFormat(dst) {
		return invalidf("unsupported output format %q", dst)
	}

	img, err := helpers.LoadImage(src)
	if err != nil {
		return err
	}

	out, err := f.Render(img)
	if err != nil {
		return fmt.Errorf("render %s: %w", src, err)
	}

	return helpers.SaveImage(dst, out, f.opts.JPEGQuality)
}
