package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gfxscope/internal/machine"
	"gfxscope/internal/raster"
)

func TestMachineIsDeterministic(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)

	setA := a.Decoders()[0].Sets()[0]
	setB := b.Decoders()[0].Sets()[0]
	assert.Equal(t, setA.Data(17), setB.Data(17))

	assert.Equal(t, a.Palettes()[0].Entry(100), b.Palettes()[0].Entry(100))

	_, ca, _ := a.Tilemaps()[0].Info(5, 9)
	_, cb, _ := b.Tilemaps()[0].Info(5, 9)
	assert.Equal(t, ca, cb)
}

func TestResourceShapes(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	require.Len(t, m.Palettes(), 2)
	ramp, mapped := m.Palettes()[0], m.Palettes()[1]
	assert.Equal(t, 256, ramp.Entries())
	assert.Zero(t, ramp.IndirectEntries())
	assert.Equal(t, 64, mapped.Entries())
	assert.Equal(t, 16, mapped.IndirectEntries())

	require.Len(t, m.Decoders(), 1)
	sets := m.Decoders()[0].Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, 8, sets[0].Width())
	assert.Equal(t, 128, sets[0].Elements())
	assert.Nil(t, sets[0].Palette())
	assert.Equal(t, 16, sets[1].Width())
	assert.Equal(t, 64, sets[1].Elements())
	assert.NotNil(t, sets[1].Palette())

	require.Len(t, m.Tilemaps(), 1)
	tm := m.Tilemaps()[0]
	assert.Equal(t, 256, tm.Width())
	assert.Equal(t, 256, tm.Height())

	require.Len(t, m.Media(), 1)
	assert.Equal(t, "cart", m.Media()[0].Name())
	assert.Equal(t, "demo.bin", m.Media()[0].Basename())
}

func TestPenMappingConsistent(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	mapped := m.Palettes()[1]

	for i := 0; i < mapped.Entries(); i++ {
		slot := mapped.PenIndirect(i)
		require.Less(t, slot, mapped.IndirectEntries())
		assert.Equal(t, mapped.IndirectColor(slot), mapped.Entry(i))
	}
}

func TestDecodePlanarKnownVector(t *testing.T) {
	// one 8x8 2bpp cell: plane 0 sets only the leftmost column, plane 1
	// the leftmost two
	rom := make([]byte, 16)
	for y := 0; y < 8; y++ {
		rom[y] = 0x80
		rom[8+y] = 0xc0
	}

	cells, err := decodePlanar(rom, 1, 8, 8, 2)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	pix := cells[0]
	assert.Equal(t, byte(3), pix[0]) // both planes
	assert.Equal(t, byte(2), pix[1]) // plane 1 only
	assert.Equal(t, byte(0), pix[2])
	assert.Equal(t, byte(3), pix[7*8]) // every row identical
}

func TestDecodePlanarValueRange(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	for _, set := range m.Decoders()[0].Sets() {
		limit := byte(1)<<uint(bitDepth(set)) - 1
		for e := 0; e < set.Elements(); e++ {
			for _, p := range set.Data(e) {
				require.LessOrEqual(t, p, limit)
			}
		}
	}
}

// bitDepth recovers a set's plane count from its granularity.
func bitDepth(set machine.Set) int {
	d := 0
	for g := set.Granularity(); g > 1; g /= 2 {
		d++
	}
	return d
}

func TestTilemapCategoryFiltering(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	tm := m.Tilemaps()[0].(*tilemap)

	all := raster.NewBitmap(tm.Width(), tm.Height())
	tm.Draw(all, 0, 0, machine.CategoryAll)

	// a single category leaves the other tiles transparent and the
	// matching ones identical to the unfiltered draw
	one := raster.NewBitmap(tm.Width(), tm.Height())
	tm.Draw(one, 0, 0, 3)

	matched, filtered := 0, 0
	for row := 0; row < tm.Rows(); row++ {
		for col := 0; col < tm.Cols(); col++ {
			x, y := col*tm.TileWidth(), row*tm.TileHeight()
			if tm.tiles[row*mapCols+col].category == 3 {
				matched++
				assert.Equal(t, all.At(x, y), one.At(x, y))
			} else {
				filtered++
				assert.Equal(t, uint32(0), one.At(x, y))
			}
		}
	}
	assert.NotZero(t, matched)
	assert.NotZero(t, filtered)
}

func TestTilemapDrawWraps(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	tm := m.Tilemaps()[0]

	base := raster.NewBitmap(16, 16)
	tm.Draw(base, 0, 0, machine.CategoryAll)

	wrapped := raster.NewBitmap(16, 16)
	tm.Draw(wrapped, tm.Width(), tm.Height(), machine.CategoryAll)

	assert.Equal(t, base.Pix, wrapped.Pix)
}

func TestPixmapMatchesDraw(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	tm := m.Tilemaps()[0]

	idx, pal := tm.Pixmap()
	full := raster.NewBitmap(tm.Width(), tm.Height())
	tm.Draw(full, 0, 0, machine.CategoryAll)

	for _, pt := range [][2]int{{0, 0}, {13, 200}, {255, 255}, {97, 33}} {
		x, y := pt[0], pt[1]
		assert.Equal(t, 0xff000000|pal.Entry(int(idx.At(x, y))), full.At(x, y))
	}
}

// interface conformance
var (
	_ machine.Machine = (*Machine)(nil)
	_ machine.Palette = (*palette)(nil)
	_ machine.Decoder = (*decoder)(nil)
	_ machine.Set     = (*gfxSet)(nil)
	_ machine.Tilemap = (*tilemap)(nil)
)
