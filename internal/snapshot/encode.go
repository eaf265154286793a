package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"

	"gfxscope/internal/machine"
	"gfxscope/internal/raster"
	"gfxscope/pkg/colorutil"
)

// EncodePNG writes an ARGB32 bitmap as an RGBA PNG.
func EncodePNG(w io.Writer, b *raster.Bitmap) error {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.SetRGBA(x, y, colorutil.ToRGBA(b.At(x, y)))
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodeIndexedPNG writes an index pixmap and its palette as an indexed
// PNG. Palettes beyond the format's 256-entry limit are first expanded
// to RGBA and median-cut quantized back down, so the output stays
// indexed either way.
func EncodeIndexedPNG(w io.Writer, idx *raster.Indexed, pal machine.Palette) error {
	bounds := image.Rect(0, 0, idx.Width, idx.Height)

	if pal.Entries() <= 256 {
		cp := make(color.Palette, pal.Entries())
		for i := range cp {
			cp[i] = colorutil.ToRGBA(pal.Entry(i))
		}
		pm := image.NewPaletted(bounds, cp)
		for y := 0; y < idx.Height; y++ {
			for x := 0; x < idx.Width; x++ {
				pm.SetColorIndex(x, y, uint8(idx.At(x, y)))
			}
		}
		if err := png.Encode(w, pm); err != nil {
			return fmt.Errorf("encode indexed png: %w", err)
		}
		return nil
	}

	rgba := image.NewRGBA(bounds)
	for y := 0; y < idx.Height; y++ {
		for x := 0; x < idx.Width; x++ {
			rgba.SetRGBA(x, y, colorutil.ToRGBA(pal.Entry(int(idx.At(x, y)))))
		}
	}
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(bounds, q.Quantize(make(color.Palette, 0, 256), rgba))
	draw.Draw(pm, bounds, rgba, bounds.Min, draw.Src)
	if err := png.Encode(w, pm); err != nil {
		return fmt.Errorf("encode quantized png: %w", err)
	}
	return nil
}
