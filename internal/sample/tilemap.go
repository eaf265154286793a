package sample

import (
	"gfxscope/internal/machine"
	"gfxscope/internal/raster"
)

// Tilemap geometry: a 32x32 grid of 8x8 tiles.
const (
	mapCols = 32
	mapRows = 32
	mapSeed = 0x5eed7757
)

// tileEntry is one placed tile: a cell of the char set, a color block,
// and a category in 0..15.
type tileEntry struct {
	code     int
	color    int
	category int
}

// tilemap composites the char set over the ramp palette.
type tilemap struct {
	set   *gfxSet
	pal   machine.Palette
	tiles []tileEntry
}

func newTilemap(set *gfxSet, pal machine.Palette) *tilemap {
	gen := lcg(mapSeed)
	tiles := make([]tileEntry, mapCols*mapRows)
	for i := range tiles {
		tiles[i] = tileEntry{
			code:     int(gen.next()) % set.Elements(),
			color:    int(gen.next()) % set.Colors(),
			category: int(gen.next()) & machine.MaxCategory,
		}
	}
	return &tilemap{set: set, pal: pal, tiles: tiles}
}

func (t *tilemap) Tag() string     { return "playfield" }
func (t *tilemap) Width() int      { return mapCols * t.set.width }
func (t *tilemap) Height() int     { return mapRows * t.set.height }
func (t *tilemap) TileWidth() int  { return t.set.width }
func (t *tilemap) TileHeight() int { return t.set.height }
func (t *tilemap) Rows() int       { return mapRows }
func (t *tilemap) Cols() int       { return mapCols }

// Info returns the source set number, tile code and color at a cell.
func (t *tilemap) Info(col, row int) (gfxnum, code, color int) {
	e := t.tiles[row*mapCols+col]
	return 0, e.code, e.color
}

// penAt resolves the palette index of one wrapped map pixel, or -1 when
// the pixel's tile is filtered out by the category.
func (t *tilemap) penAt(x, y, category int) int {
	x %= t.Width()
	y %= t.Height()

	e := t.tiles[(y/t.set.height)*mapCols+x/t.set.width]
	if category != machine.CategoryAll && e.category != category {
		return -1
	}
	pix := t.set.cells[e.code][(y%t.set.height)*t.set.width+x%t.set.width]
	return e.color*t.set.granularity + int(pix)
}

// Draw composites the window starting at (xoffs, yoffs) into dst.
// Filtered-out tiles stay transparent.
func (t *tilemap) Draw(dst *raster.Bitmap, xoffs, yoffs, category int) {
	for y := 0; y < dst.Height; y++ {
		row := dst.Row(y)
		for x := 0; x < dst.Width; x++ {
			pen := t.penAt(x+xoffs, y+yoffs, category)
			if pen < 0 {
				row[x] = 0
				continue
			}
			row[x] = 0xff000000 | t.pal.Entry(pen)
		}
	}
}

// Pixmap returns the full map as palette indices plus the palette that
// resolves them.
func (t *tilemap) Pixmap() (*raster.Indexed, machine.Palette) {
	idx := raster.NewIndexed(t.Width(), t.Height())
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			idx.Set(x, y, uint16(t.penAt(x, y, machine.CategoryAll)))
		}
	}
	return idx, t.pal
}
