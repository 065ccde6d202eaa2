package fonts

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestPaletteShape(t *testing.T) {
	if len(Palette) != 70 {
		t.Fatalf("palette length = %d, want 70", len(Palette))
	}
	if Palette[0] != '$' {
		t.Fatalf("first glyph = %q", Palette[0])
	}
	if Palette[len(Palette)-1] != ' ' {
		t.Fatalf("last glyph = %q", Palette[len(Palette)-1])
	}
	if string(Palette[40:43]) != `/\|` {
		t.Fatalf("backslash run = %q", string(Palette[40:43]))
	}
}

func TestPickCharExtremes(t *testing.T) {
	if got := PickChar(0, 0, 0, NoAlpha); got != '$' {
		t.Fatalf("black = %q, want '$'", got)
	}
	if got := PickChar(255, 255, 255, NoAlpha); got != ' ' {
		t.Fatalf("white = %q, want ' '", got)
	}
}

func TestPickCharTransparent(t *testing.T) {
	if got := PickChar(0, 0, 0, 0); got != ' ' {
		t.Fatalf("transparent = %q, want ' '", got)
	}
}

func TestPickCharMatchesBuckets(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    rune
	}{
		// L = 3 -> 3/3.671 = 0
		{3, 3, 3, '$'},
		// L = 4 -> 1
		{4, 4, 4, '@'},
		// L = 127 -> 34
		{127, 127, 127, 'n'},
		// L = int(0.2126*255) = 54 -> 14
		{255, 0, 0, 'b'},
	}
	for _, tt := range tests {
		if got := PickChar(tt.r, tt.g, tt.b, NoAlpha); got != tt.want {
			t.Errorf("PickChar(%d,%d,%d) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestPickCharDependsOnlyOnLuminance(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 5 {
				lum := Luminance(uint8(r), uint8(g), uint8(b))
				gray := uint8(lum)
				// A gray pixel reproducing the same weighted sum must land in
				// the same bucket whenever its own luminance matches.
				if Luminance(gray, gray, gray) != lum {
					continue
				}
				if PickChar(uint8(r), uint8(g), uint8(b), NoAlpha) != PickChar(gray, gray, gray, NoAlpha) {
					t.Fatalf("(%d,%d,%d) and gray %d disagree", r, g, b, gray)
				}
			}
		}
	}
}

func TestLuminanceRange(t *testing.T) {
	// The weighted sum for pure white lands just under 255 before truncation.
	if got := Luminance(255, 255, 255); got != 254 {
		t.Fatalf("white luminance = %d", got)
	}
	if got := Luminance(0, 0, 0); got != 0 {
		t.Fatalf("black luminance = %d", got)
	}
}

func TestLoadFaceMissing(t *testing.T) {
	_, err := LoadFace(filepath.Join(t.TempDir(), "nope.ttf"), 10)
	if !errors.Is(err, ErrMissingFont) {
		t.Fatalf("expected ErrMissingFont, got %v", err)
	}
}

func TestLoadFaceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.ttf")
	if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	face, err := LoadFace(path, 12)
	if err != nil {
		t.Fatalf("LoadFace: %v", err)
	}
	defer face.Close()
	if face.Metrics().Height.Ceil() <= 0 {
		t.Fatal("expected positive line height")
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/opt/app", "fonts/w6.ttf"); got != filepath.Join("/opt/app", "fonts/w6.ttf") {
		t.Fatalf("relative path = %q", got)
	}
	if got := ResolvePath("/opt/app", ""); got != "" {
		t.Fatalf("empty path = %q", got)
	}
}

func TestSpriteSetDraw(t *testing.T) {
	set, err := LoadSpriteSet("", 10)
	if err != nil {
		t.Fatalf("LoadSpriteSet: %v", err)
	}
	if set.Size() != 10 {
		t.Fatalf("size = %d", set.Size())
	}
	if set.Has(' ') {
		t.Fatal("space should not have a sprite")
	}
	if !set.Has('$') {
		t.Fatal("expected sprite for '$'")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, 10, 10))
	set.Draw(canvas, image.Point{}, '$', color.RGBA{R: 255, A: 255})

	inked := 0
	for i := 0; i < len(canvas.Pix); i += 4 {
		if canvas.Pix[i] > 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Fatal("expected glyph ink on canvas")
	}

	blank := image.NewRGBA(image.Rect(0, 0, 10, 10))
	set.Draw(blank, image.Point{}, ' ', color.Black)
	for _, v := range blank.Pix {
		if v != 0 {
			t.Fatal("space glyph drew ink")
		}
	}
}
