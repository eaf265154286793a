package snapshot

import (
	"fmt"
	"io"
	"log"
	"strings"

	"gfxscope/internal/machine"
	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
	"gfxscope/internal/viewer"
	"gfxscope/pkg/colorutil"
)

// swatchSize is the exported palette swatch edge in pixels.
const swatchSize = 8

// exportColumns is the fixed element grid width of graphics set exports.
const exportColumns = 32

// maxExportColors caps how many color variants a graphics set export
// walks.
const maxExportColors = 32

// Pipeline is one batch export run over every visual resource of a
// machine. It renders into private buffers only; the live view's raster
// cache is never touched.
type Pipeline struct {
	Machine  machine.Machine
	Filer    Filer
	Template string

	// Columns is the palette export grid width; 0 means 16.
	Columns int

	// Orientation supplies the per-set rotation so exports match the
	// on-screen presentation. Nil exports everything unrotated.
	Orientation func(dev, set int) orient.Code

	// Log receives per-instance failures. Nil discards them.
	Log *log.Logger
}

// ExportAll walks palettes, graphics sets and tilemaps in order. A
// failure on one instance is logged and the batch continues.
func (p *Pipeline) ExportAll() {
	p.ExportPalettes()
	p.ExportGfxSets()
	p.ExportTilemaps()
}

// ExportPalettes writes one PNG swatch grid and one text dump per
// palette device and subset.
func (p *Pipeline) ExportPalettes() {
	for _, pal := range p.Machine.Palettes() {
		base := "pal_" + sanitize(pal.Tag())
		if pal.IndirectEntries() > 0 {
			p.exportPalette(base+"_pens", pal, false)
			p.exportPalette(base+"_colors", pal, true)
		} else {
			p.exportPalette(base, pal, false)
		}
	}
}

func (p *Pipeline) exportPalette(base string, pal machine.Palette, indirect bool) {
	total := pal.Entries()
	entry := pal.Entry
	if indirect {
		total = pal.IndirectEntries()
		entry = pal.IndirectColor
	}

	columns := p.Columns
	if columns <= 0 {
		columns = 16
	}
	rows := (total + columns - 1) / columns

	b := raster.NewBitmap(columns*swatchSize, rows*swatchSize)
	b.Fill(colorutil.Transparent)
	for i := 0; i < total; i++ {
		x := (i % columns) * swatchSize
		y := (i / columns) * swatchSize
		b.FillRect(x, y, x+swatchSize, y+swatchSize, colorutil.Opaque(entry(i)))
	}

	p.writeFile(base, ".png", func(w io.Writer) error {
		return EncodePNG(w, b)
	})
	p.writeFile(base, ".txt", func(w io.Writer) error {
		return writePaletteText(w, total, columns, entry)
	})
}

// writePaletteText dumps a palette subset in the companion text format:
// two header counts, a column legend, then one r,g,b,a line per entry.
func writePaletteText(w io.Writer, total, columns int, entry func(int) uint32) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\t\t# total colors\n", total)
	fmt.Fprintf(&sb, "%d\t\t# column width\n", columns)
	sb.WriteString("# palette data r,g,b,a\n")
	for i := 0; i < total; i++ {
		c := entry(i)
		fmt.Fprintf(&sb, "%d,%d,%d,%d\n",
			colorutil.Red(c), colorutil.Green(c), colorutil.Blue(c), colorutil.Alpha(c))
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write palette text: %w", err)
	}
	return nil
}

// ExportGfxSets writes one PNG per device, set and color variant: a
// fixed-width grid of every element, rendered through the same per-cell
// rasterizer as the live view but without the live grid's border lines.
func (p *Pipeline) ExportGfxSets() {
	pals := p.Machine.Palettes()

	for devIdx, dev := range p.Machine.Decoders() {
		for setIdx, set := range dev.Sets() {
			pal := set.Palette()
			colors := set.Colors()
			if pal == nil {
				if len(pals) == 0 {
					continue
				}
				pal = pals[0]
				if set.Granularity() > 0 {
					colors = pal.Entries() / set.Granularity()
				}
			}
			if colors < 1 {
				colors = 1
			}
			if colors > maxExportColors {
				colors = maxExportColors
			}

			rot := orient.Rot0
			if p.Orientation != nil {
				rot = p.Orientation(devIdx, setIdx)
			}

			for color := 0; color < colors; color++ {
				p.exportGfxSet(devIdx, setIdx, set, color, rot, pal)
			}
		}
	}
}

func (p *Pipeline) exportGfxSet(devIdx, setIdx int, set machine.Set, color int, rot orient.Code, pal machine.Palette) {
	cellW, cellH := orient.Dims(rot, set.Width(), set.Height())
	rows := (set.Elements() + exportColumns - 1) / exportColumns

	b := raster.NewBitmap(exportColumns*cellW, rows*cellH)
	b.Fill(colorutil.Transparent)
	for i := 0; i < set.Elements(); i++ {
		viewer.DrawGfxCell(b, (i%exportColumns)*cellW, (i/exportColumns)*cellH, set, i, color, rot, pal)
	}

	base := fmt.Sprintf("gfx_%d_%d_%d", devIdx, setIdx, color)
	p.writeFile(base, ".png", func(w io.Writer) error {
		return EncodePNG(w, b)
	})
}

// ExportTilemaps writes each tilemap's full composited pixmap as an
// indexed PNG.
func (p *Pipeline) ExportTilemaps() {
	for i, tm := range p.Machine.Tilemaps() {
		idx, pal := tm.Pixmap()
		base := fmt.Sprintf("tmap_%d_%s", i, sanitize(tm.Tag()))
		p.writeFile(base, ".png", func(w io.Writer) error {
			return EncodeIndexedPNG(w, idx, pal)
		})
	}
}

// writeFile resolves the templated name for one output and streams it.
// Any failure is logged and swallowed so the caller's walk continues.
func (p *Pipeline) writeFile(base, ext string, encode func(io.Writer) error) {
	name, err := ExpandName(p.Filer, p.Template, p.Machine.Name(), p.Machine.Media(), base, ext)
	if err != nil {
		p.logf("snapshot %s%s: %v", base, ext, err)
		return
	}
	f, err := p.Filer.Create(name)
	if err != nil {
		p.logf("snapshot %s: %v", name, err)
		return
	}
	err = encode(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		p.logf("snapshot %s: %v", name, err)
	}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
	}
}

// sanitize maps a device tag to a filename-safe fragment.
func sanitize(tag string) string {
	var sb strings.Builder
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return strings.Trim(sb.String(), "_")
}
