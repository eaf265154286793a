// Package machine defines the contracts the viewer consumes from its host:
// enumeration of palette devices, graphics decoders and tilemaps, plus the
// mounted media devices used by snapshot file naming. The viewer never
// validates the data behind these interfaces; an internally inconsistent
// resource is the host's problem.
package machine

import "gfxscope/internal/raster"

// CategoryAll is the distinguished tilemap category filter meaning "draw
// every category". It is a sentinel, not a bound value.
const CategoryAll = -1

// MaxCategory is the highest selectable tilemap category.
const MaxCategory = 15

// Machine enumerates the visual resources of the running system.
type Machine interface {
	// Name is the short system name substituted for %g in snapshot
	// templates.
	Name() string

	Palettes() []Palette
	Decoders() []Decoder
	Tilemaps() []Tilemap

	// Media lists mounted image devices for %d_ template substitution.
	Media() []Media

	Paused() bool
	Pause()
	Resume()
}

// Palette is one indexed color device. Entries are final ARGB32 colors;
// devices with an indirect table additionally map entries through it.
type Palette interface {
	Tag() string

	// Entries is the number of direct (final) entries.
	Entries() int

	// IndirectEntries is the size of the indirect color table, or 0 when
	// the device is direct-only.
	IndirectEntries() int

	// Entry returns the final ARGB32 color of a direct entry.
	Entry(index int) uint32

	// IndirectColor returns the ARGB32 color of an indirect table slot.
	IndirectColor(index int) uint32

	// PenIndirect returns the indirect table slot a direct entry maps
	// through. Only meaningful when IndirectEntries is nonzero.
	PenIndirect(index int) int
}

// Decoder is one graphics decoder device holding an ordered list of
// decoded graphic sets.
type Decoder interface {
	Tag() string
	Sets() []Set
}

// Set is one decoded graphics set: a run of equally sized cells whose
// pixels are palette-relative indices.
type Set interface {
	Width() int
	Height() int

	// Elements is the number of cells in the set.
	Elements() int

	// RowBytes is the byte stride between rows of one cell's data.
	RowBytes() int

	// Data returns the decoded index data for one cell, at least
	// Height*RowBytes bytes.
	Data(element int) []byte

	// Granularity is the number of consecutive palette entries one color
	// index consumes.
	Granularity() int

	// ColorBase is the first palette entry used by this set.
	ColorBase() int

	// Colors is the number of selectable color indices.
	Colors() int

	// Palette returns the set's embedded palette, or nil when the set
	// uses the machine's default palette device.
	Palette() Palette
}

// Tilemap is one composited scrolling tile layer. Width and Height are in
// pixels.
type Tilemap interface {
	Tag() string
	Width() int
	Height() int
	TileWidth() int
	TileHeight() int
	Rows() int
	Cols() int

	// Info is the per-cell debug query: the source gfx set number, tile
	// code and color at a map cell. It must not mutate any state.
	Info(col, row int) (gfxnum, code, color int)

	// Draw composites the visible window into dst, starting at the given
	// pixel offsets (wrapped by the caller) and honoring the category
	// filter (CategoryAll draws everything).
	Draw(dst *raster.Bitmap, xoffs, yoffs, category int)

	// Pixmap returns the full composited map as palette indices together
	// with the palette that resolves them.
	Pixmap() (*raster.Indexed, Palette)
}

// Media is one mounted image device, exposed for snapshot name templates.
type Media interface {
	// Name is the brief instance name matched against %d_<name>.
	Name() string

	// Basename is the mounted image's file name, or "" when nothing is
	// mounted.
	Basename() string
}
