// Package raster provides the ARGB32 bitmap type and the dirty-tracked
// cache that backs the live viewer display. The cache owns exactly one
// bitmap and one display texture at a time and reallocates only when the
// requested dimensions change.
package raster

// Bitmap is a row-major ARGB32 pixel buffer.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewBitmap allocates a zeroed (fully transparent) bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// Row returns the pixel slice for one scanline.
func (b *Bitmap) Row(y int) []uint32 {
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

// At returns the pixel at (x, y).
func (b *Bitmap) At(x, y int) uint32 {
	return b.Pix[y*b.Width+x]
}

// Set writes the pixel at (x, y).
func (b *Bitmap) Set(x, y int, p uint32) {
	b.Pix[y*b.Width+x] = p
}

// Fill sets every pixel to p.
func (b *Bitmap) Fill(p uint32) {
	for i := range b.Pix {
		b.Pix[i] = p
	}
}

// FillRect sets the half-open region [x0,x1) x [y0,y1) to p, clipped to
// the bitmap.
func (b *Bitmap) FillRect(x0, y0, x1, y1 int, p uint32) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > b.Width {
		x1 = b.Width
	}
	if y1 > b.Height {
		y1 = b.Height
	}
	for y := y0; y < y1; y++ {
		row := b.Row(y)
		for x := x0; x < x1; x++ {
			row[x] = p
		}
	}
}

// Indexed is a row-major bitmap of palette indices, as produced by a
// tilemap's composited pixmap.
type Indexed struct {
	Width  int
	Height int
	Pix    []uint16
}

// NewIndexed allocates a zeroed indexed bitmap.
func NewIndexed(width, height int) *Indexed {
	return &Indexed{
		Width:  width,
		Height: height,
		Pix:    make([]uint16, width*height),
	}
}

// At returns the palette index at (x, y).
func (b *Indexed) At(x, y int) uint16 {
	return b.Pix[y*b.Width+x]
}

// Set writes the palette index at (x, y).
func (b *Indexed) Set(x, y int, v uint16) {
	b.Pix[y*b.Width+x] = v
}
