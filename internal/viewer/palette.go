package viewer

import (
	"fmt"

	"gfxscope/pkg/colorutil"
	"gfxscope/pkg/geometry"
)

// Palette subset selectors. Direct shows the device's final entries;
// Indirect shows the indirect color table behind them.
const (
	subsetDirect   = 0
	subsetIndirect = 1
)

// paletteHandler draws the palette grid for the current device/subset and
// then consumes navigation input.
func (v *Viewer) paletteHandler(r Renderer, in Input) {
	pal := v.machine.Palettes()[v.pal.devindex]
	total := pal.Entries()
	if v.pal.which == subsetIndirect {
		total = pal.IndirectEntries()
	}

	chh := r.LineHeight()
	chw := r.CharWidth('0')

	// half a character of padding around the outer box
	boxX0 := 0.5 * chw
	boxX1 := 1.0 - 0.5*chw
	boxY0 := 0.5 * chh
	boxY1 := 1.0 - 0.5*chh

	// the swatch grid starts a half character in, with a left margin for
	// row labels and a top margin for title plus column headers
	cellX0 := boxX0 + 0.5*chw + 5.5*chw
	cellX1 := boxX1 - 0.5*chw
	cellY0 := boxY0 + 0.5*chh + 3.0*chh
	cellY1 := boxY1 - 0.5*chh

	columns := v.pal.columns
	cellW := (cellX1 - cellX0) / float64(columns)
	cellH := (cellY1 - cellY0) / float64(columns)

	title := fmt.Sprintf("'%s'", pal.Tag())
	if pal.IndirectEntries() > 0 {
		if v.pal.which == subsetIndirect {
			title += " COLORS"
		} else {
			title += " PENS"
		}
	}

	// augment the title with info about the hovered entry
	if mx, my, ok := in.Pointer(); ok &&
		mx >= cellX0 && mx < cellX1 && my >= cellY0 && my < cellY1 {
		index := v.pal.offset + int((mx-cellX0)/cellW) + int((my-cellY0)/cellH)*columns
		if index < total {
			title += fmt.Sprintf(" #%X", index)
			if pal.IndirectEntries() > 0 && v.pal.which == subsetDirect {
				title += fmt.Sprintf(" => %X", pal.PenIndirect(index))
			}
			col := pal.Entry(index)
			if v.pal.which == subsetIndirect {
				col = pal.IndirectColor(index)
			}
			title += fmt.Sprintf(" (A:%X R:%X G:%X B:%X)",
				colorutil.Alpha(col), colorutil.Red(col), colorutil.Green(col), colorutil.Blue(col))
		}
	}

	// widen the outer box symmetrically when the title doesn't fit
	titleWidth := r.StringWidth(title)
	widen := 0.0
	if boxX1-boxX0 < titleWidth+chw {
		widen = boxX0 - (0.5 - 0.5*(titleWidth+chw))
	}
	r.OutlinedBox(geometry.NewRectSpan(boxX0-widen, boxY0, boxX1+widen, boxY1), bgPen)

	drawText(r, 0.5-0.5*titleWidth, boxY0+0.5*chh, colorutil.White, title)

	// top column headers, skipping when cells are narrower than a glyph
	skip := int(chw / cellW)
	for x := 0; x < columns; x += 1 + skip {
		x0 := boxX0 + 6.0*chw + float64(x)*cellW
		y0 := boxY0 + 2.0*chh
		r.DrawChar(x0+0.5*(cellW-chw), y0, colorutil.White, hexDigit(x))

		// a point between header and grid marks which column a skipped
		// header refers to
		if skip != 0 {
			r.DrawPoint(x0+0.5*cellW, 0.5*(y0+chh+cellY0), colorutil.White)
		}
	}

	// side row labels, right-aligned hex of the row's first entry
	skip = int(chh / cellH)
	for y := 0; y < columns; y += 1 + skip {
		if v.pal.offset+y*columns >= total {
			continue
		}
		x0 := boxX0 + 5.5*chw
		y0 := boxY0 + 3.5*chh + float64(y)*cellH
		if skip != 0 {
			r.DrawPoint(0.5*(x0+cellX0), y0+0.5*cellH, colorutil.White)
		}
		label := fmt.Sprintf("%5X", v.pal.offset+y*columns)
		runes := []rune(label)
		for i := len(runes) - 1; i >= 0; i-- {
			x0 -= r.CharWidth(runes[i])
			r.DrawChar(x0, y0+0.5*(cellH-chh), colorutil.White, runes[i])
		}
	}

	// the swatches themselves
	for y := 0; y < columns; y++ {
		for x := 0; x < columns; x++ {
			index := v.pal.offset + y*columns + x
			if index >= total {
				continue
			}
			pen := pal.Entry(index)
			if v.pal.which == subsetIndirect {
				pen = pal.IndirectColor(index)
			}
			r.FillRect(geometry.NewRect(cellX0+float64(x)*cellW, cellY0+float64(y)*cellH, cellW, cellH),
				colorutil.Opaque(pen))
		}
	}

	v.paletteHandleKeys(in)
}

// paletteHandleKeys mutates palette navigation state from this frame's
// input. All range errors are clamped, never surfaced.
func (v *Viewer) paletteHandleKeys(in Input) {
	pal := v.machine.Palettes()[v.pal.devindex]

	// zoom
	if in.Pressed(ActionZoomOut) {
		v.pal.columns /= 2
	}
	if in.Pressed(ActionZoomIn) {
		v.pal.columns *= 2
	}
	if v.pal.columns < 4 {
		v.pal.columns = 4
	}
	if v.pal.columns > 64 {
		v.pal.columns = 64
	}

	// subset and device cycling: exhaust the subsets of a device before
	// crossing the boundary. Entering a device forward lands on its
	// indirect table when it has one; entering backward lands on the
	// direct entries.
	if in.Pressed(ActionPrevGroup) {
		if v.pal.which == subsetDirect && pal.IndirectEntries() > 0 {
			v.pal.which = subsetIndirect
		} else if v.pal.devindex > 0 {
			v.pal.devindex--
			pal = v.machine.Palettes()[v.pal.devindex]
			v.pal.which = subsetDirect
		}
	}
	if in.Pressed(ActionNextGroup) {
		if v.pal.which == subsetIndirect {
			v.pal.which = subsetDirect
		} else if v.pal.devindex < len(v.machine.Palettes())-1 {
			v.pal.devindex++
			pal = v.machine.Palettes()[v.pal.devindex]
			if pal.IndirectEntries() > 0 {
				v.pal.which = subsetIndirect
			} else {
				v.pal.which = subsetDirect
			}
		}
	}

	total := pal.Entries()
	if v.pal.which == subsetIndirect {
		total = pal.IndirectEntries()
	}

	rowcount := v.pal.columns
	screencount := rowcount * rowcount

	if in.PressedRepeat(ActionUp, 4) {
		v.pal.offset -= rowcount
	}
	if in.PressedRepeat(ActionDown, 4) {
		v.pal.offset += rowcount
	}
	if in.PressedRepeat(ActionPageUp, 6) {
		v.pal.offset -= screencount
	}
	if in.PressedRepeat(ActionPageDown, 6) {
		v.pal.offset += screencount
	}
	if in.PressedRepeat(ActionHome, 4) {
		v.pal.offset = 0
	}
	// End deliberately overshoots to total; the range clamp below pulls
	// it back to the last full screen. Keep the two-step order.
	if in.PressedRepeat(ActionEnd, 4) {
		v.pal.offset = total
	}

	if v.pal.offset+screencount > ceilDiv(total, rowcount)*rowcount {
		v.pal.offset = ceilDiv(total, rowcount)*rowcount - screencount
	}
	if v.pal.offset < 0 {
		v.pal.offset = 0
	}
}
