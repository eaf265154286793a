package viewer

import (
	"fmt"

	"gfxscope/internal/machine"
	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
	"gfxscope/pkg/colorutil"
	"gfxscope/pkg/geometry"
)

// gfxsetLayout solves the grid geometry for a cell box of the given pixel
// size: starting from the requested column count, shrink columns until an
// integer pixel scale fits, floor the scale at 1, then fill the height
// with as many rows as fit. Columns trade away for zoom sharpness; rows
// never do.
func gfxsetLayout(boxWidthPx, boxHeightPx, cellXPix, cellYPix, columns int) (xcells, ycells, pixelscale int) {
	xcells = columns
	for xcells > 1 {
		pixelscale = (boxWidthPx / xcells) / cellXPix
		if pixelscale != 0 {
			break
		}
		xcells--
	}
	if pixelscale < 1 {
		pixelscale = 1
	}
	ycells = boxHeightPx / (pixelscale * cellYPix)
	if ycells < 1 {
		ycells = 1
	}
	return xcells, ycells, pixelscale
}

// DrawGfxCell rasterizes one element of a graphics set into dst at
// (dstx, dsty), covering the oriented cell size. Both the live view and
// the export pipeline go through this function so that preview and
// exported pixels are identical.
func DrawGfxCell(dst *raster.Bitmap, dstx, dsty int, set machine.Set, index, color int, rot orient.Code, pal machine.Palette) {
	width, height := orient.Dims(rot, set.Width(), set.Height())
	base := set.ColorBase() + color*set.Granularity()
	src := set.Data(index)
	stride := set.RowBytes()

	for y := 0; y < height; y++ {
		row := dst.Row(dsty + y)
		for x := 0; x < width; x++ {
			sx, sy := orient.Map(rot, x, y, set.Width(), set.Height())
			row[dstx+x] = 0xff000000 | pal.Entry(base+int(src[sy*stride+sx]))
		}
	}
}

// setPalette resolves a set's palette reference: either the machine
// palette device it points at, or the set's own embedded palette.
func (v *Viewer) setPalette(si *setInfo, set machine.Set) machine.Palette {
	if si.palDev < 0 {
		return set.Palette()
	}
	pals := v.machine.Palettes()
	if si.palDev >= len(pals) {
		return nil
	}
	return pals[si.palDev]
}

// gfxsetHandler draws the cell grid for the current (device, set) pair
// and then consumes navigation input.
func (v *Viewer) gfxsetHandler(r Renderer, in Input) {
	info := &v.gfxdev[v.gfx.devindex]
	set := info.dev.Sets()[v.gfx.set]
	si := &info.sets[v.gfx.set]

	targW, targH := r.TargetSize()
	chh := r.LineHeight()
	chw := r.CharWidth('0')

	boxX0 := 0.5 * chw
	boxX1 := 1.0 - 0.5*chw
	boxY0 := 0.5 * chh
	boxY1 := 1.0 - 0.5*chh

	cellX0 := boxX0 + 0.5*chw + 5.5*chw
	cellX1 := boxX1 - 0.5*chw
	cellY0 := boxY0 + 0.5*chh + 3.0*chh
	cellY1 := boxY1 - 0.5*chh

	cellBoxW := int((cellX1 - cellX0) * float64(targW))
	cellBoxH := int((cellY1 - cellY0) * float64(targH))

	// source pixels per cell, plus one border line between cells
	orientW, orientH := orient.Dims(si.rotate, set.Width(), set.Height())
	cellXPix := 1 + orientW
	cellYPix := 1 + orientH

	xcells, ycells, pixelscale := gfxsetLayout(cellBoxW, cellBoxH, cellXPix, cellYPix, si.columns)
	si.columns = xcells

	cellBoxW = minInt(cellBoxW, xcells*pixelscale*cellXPix)
	cellBoxH = minInt(cellBoxH, ycells*pixelscale*cellYPix)

	cellW := (float64(cellBoxW) / float64(xcells)) / float64(targW)
	cellH := (float64(cellBoxH) / float64(ycells)) / float64(targH)

	// recenter the outer panel around the final grid size
	fullWidth := float64(cellBoxW)/float64(targW) + 6.5*chw
	fullHeight := float64(cellBoxH)/float64(targH) + 4.0*chh
	boxX0 = (1.0 - fullWidth) * 0.5
	boxX1 = boxX0 + fullWidth
	boxY0 = (1.0 - fullHeight) * 0.5
	boxY1 = boxY0 + fullHeight

	cellX0 = boxX0 + 6.0*chw
	cellX1 = cellX0 + float64(cellBoxW)/float64(targW)
	cellY0 = boxY0 + 3.5*chh
	cellY1 = cellY0 + float64(cellBoxH)/float64(targH)

	title := fmt.Sprintf("'%s' %d/%d", info.dev.Tag(), v.gfx.set, len(info.sets)-1)

	// hover resolves the exact source pixel under the active rotation
	foundPixel := false
	if mx, my, ok := in.Pointer(); ok &&
		mx >= cellX0 && mx < cellX1 && my >= cellY0 && my < cellY1 {
		code := si.offset + int((mx-cellX0)/cellW) + int((my-cellY0)/cellH)*xcells
		xpixel := int((mx-cellX0)/(cellW/float64(cellXPix))) % cellXPix
		ypixel := int((my-cellY0)/(cellH/float64(cellYPix))) % cellYPix
		if code < set.Elements() && xpixel < cellXPix-1 && ypixel < cellYPix-1 {
			foundPixel = true
			sx, sy := orient.Map(si.rotate, xpixel, ypixel, set.Width(), set.Height())
			pix := set.Data(code)[sy*set.RowBytes()+sx]
			title += fmt.Sprintf(" #%X:%X @ %d,%d = %X",
				code, si.color, sx, sy,
				set.ColorBase()+si.color*set.Granularity()+int(pix))
		}
	}
	if !foundPixel {
		title += fmt.Sprintf(" %dx%d COLOR %X/%X", set.Width(), set.Height(), si.color, si.colorCount)
	}

	titleWidth := r.StringWidth(title)
	widen := 0.0
	if boxX1-boxX0 < titleWidth+chw {
		widen = boxX0 - (0.5 - 0.5*(titleWidth+chw))
	}
	r.OutlinedBox(geometry.NewRectSpan(boxX0-widen, boxY0, boxX1+widen, boxY1), bgPen)

	drawText(r, 0.5-0.5*titleWidth, boxY0+0.5*chh, colorutil.White, title)

	// top column headers
	skip := int(chw / cellW)
	for x := 0; x < xcells; x += 1 + skip {
		x0 := boxX0 + 6.0*chw + float64(x)*cellW
		y0 := boxY0 + 2.0*chh
		r.DrawChar(x0+0.5*(cellW-chw), y0, colorutil.White, hexDigit(x))
		if skip != 0 {
			r.DrawPoint(x0+0.5*cellW, 0.5*(y0+chh+boxY0+3.5*chh), colorutil.White)
		}
	}

	// side row labels
	skip = int(chh / cellH)
	for y := 0; y < ycells; y += 1 + skip {
		if si.offset+y*xcells >= set.Elements() {
			continue
		}
		x0 := boxX0 + 5.5*chw
		y0 := boxY0 + 3.5*chh + float64(y)*cellH
		if skip != 0 {
			r.DrawPoint(0.5*(x0+boxX0+6.0*chw), y0+0.5*cellH, colorutil.White)
		}
		label := fmt.Sprintf("%5X", si.offset+y*xcells)
		runes := []rune(label)
		for i := len(runes) - 1; i >= 0; i-- {
			x0 -= r.CharWidth(runes[i])
			r.DrawChar(x0, y0+0.5*(cellH-chh), colorutil.White, runes[i])
		}
	}

	v.gfxsetUpdate(r, set, si, xcells, ycells, cellXPix, cellYPix)

	r.DrawQuad(v.cache.Texture(), geometry.NewRectSpan(cellX0, cellY0, cellX1, cellY1), orient.Rot0)

	v.gfxsetHandleKeys(in, set, si, xcells, ycells)
}

// gfxsetUpdate refreshes the raster cache with the visible cell window.
// Rotation is applied per pixel here, so the quad draws unoriented.
func (v *Viewer) gfxsetUpdate(r Renderer, set machine.Set, si *setInfo, xcells, ycells, cellXPix, cellYPix int) {
	v.cache.Ensure(r.AllocTexture, cellXPix*xcells, cellYPix*ycells)

	pal := v.setPalette(si, set)

	v.cache.RefreshIfDirty(func(b *raster.Bitmap) {
		for y := 0; y < ycells; y++ {
			rowY0 := y * cellYPix
			rowY1 := (y + 1) * cellYPix
			if si.offset+y*xcells >= set.Elements() {
				b.FillRect(0, rowY0, b.Width, rowY1, colorutil.Transparent)
				continue
			}
			for x := 0; x < xcells; x++ {
				index := si.offset + y*xcells + x
				if index < set.Elements() && pal != nil {
					DrawGfxCell(b, x*cellXPix, rowY0, set, index, si.color, si.rotate, pal)
				} else {
					b.FillRect(x*cellXPix, rowY0, (x+1)*cellXPix, rowY1, colorutil.Transparent)
				}
			}
		}
	})
}

// gfxsetHandleKeys mutates graphics set navigation state from this
// frame's input. State is edited on a copy and compared at the end, so
// a clamp that lands back on the same value never dirties the cache.
func (v *Viewer) gfxsetHandleKeys(in Input, set machine.Set, si *setInfo, xcells, ycells int) {
	// set and device cycling: exhaust the device's sets, then advance
	dev, cur := v.gfx.devindex, v.gfx.set
	if in.Pressed(ActionPrevGroup) {
		if cur > 0 {
			cur--
		} else if dev > 0 {
			dev--
			cur = len(v.gfxdev[dev].sets) - 1
		}
	}
	if in.Pressed(ActionNextGroup) {
		if cur < len(v.gfxdev[dev].sets)-1 {
			cur++
		} else if dev < len(v.gfxdev)-1 {
			dev++
			cur = 0
		}
	}
	if dev != v.gfx.devindex || cur != v.gfx.set {
		v.gfx.devindex, v.gfx.set = dev, cur
		v.cache.MarkDirty()

		// the rest of this frame's keys act on the new selection
		info := &v.gfxdev[dev]
		set = info.dev.Sets()[cur]
		si = &info.sets[cur]
	}

	next := *si

	// cells per line
	if in.Pressed(ActionZoomOut) {
		next.columns = xcells - 1
	}
	if in.Pressed(ActionZoomIn) {
		next.columns = xcells + 1
	}
	if next.columns < 2 {
		next.columns = 2
	}
	if next.columns > 128 {
		next.columns = 128
	}

	if in.Pressed(ActionRotate) {
		next.rotate = orient.Compose(orient.Rot90, next.rotate)
	}

	if in.PressedRepeat(ActionUp, 4) {
		next.offset -= xcells
	}
	if in.PressedRepeat(ActionDown, 4) {
		next.offset += xcells
	}
	if in.PressedRepeat(ActionPageUp, 6) {
		next.offset -= xcells * ycells
	}
	if in.PressedRepeat(ActionPageDown, 6) {
		next.offset += xcells * ycells
	}
	if in.PressedRepeat(ActionHome, 4) {
		next.offset = 0
	}
	// overshoot to the element count; the clamp below pulls it back
	if in.PressedRepeat(ActionEnd, 4) {
		next.offset = set.Elements()
	}

	if next.offset+xcells*ycells > ceilDiv(set.Elements(), xcells)*xcells {
		next.offset = ceilDiv(set.Elements(), xcells)*xcells - xcells*ycells
	}
	if next.offset < 0 {
		next.offset = 0
	}

	if in.PressedRepeat(ActionLeft, 4) {
		next.color--
	}
	if in.PressedRepeat(ActionRight, 4) {
		next.color++
	}
	if next.color >= next.colorCount {
		next.color = next.colorCount - 1
	}
	if next.color < 0 {
		next.color = 0
	}

	if next != *si {
		*si = next
		v.cache.MarkDirty()
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
