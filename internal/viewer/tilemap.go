package viewer

import (
	"fmt"

	"gfxscope/internal/machine"
	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
	"gfxscope/pkg/colorutil"
	"gfxscope/pkg/geometry"
)

// tilemapAutoScale finds the largest integer scale at which the next
// larger scale would no longer fit the box, independently per axis.
func tilemapAutoScale(mapWidth, mapHeight, boxWidthPx, boxHeightPx int) int {
	xscale := 1
	for mapWidth*(xscale+1) < boxWidthPx {
		xscale++
	}
	yscale := 1
	for mapHeight*(yscale+1) < boxHeightPx {
		yscale++
	}
	return minInt(xscale, yscale)
}

// tilemapHandler draws the scrolling overview of the current tilemap and
// then consumes navigation input.
func (v *Viewer) tilemapHandler(r Renderer, in Input) {
	maps := v.machine.Tilemaps()
	tm := maps[v.tmap.index]

	// map dimensions as presented, after rotation
	mapWidth, mapHeight := orient.Dims(v.tmap.rotate, tm.Width(), tm.Height())

	targW, targH := r.TargetSize()
	chh := r.LineHeight()
	chw := r.CharWidth('0')

	boxX0 := 0.5 * chw
	boxX1 := 1.0 - 0.5*chw
	boxY0 := 0.5 * chh
	boxY1 := 1.0 - 0.5*chh

	mapX0 := boxX0 + 0.5*chw
	mapX1 := boxX1 - 0.5*chw
	mapY0 := boxY0 + 0.5*chh + 1.5*chh
	mapY1 := boxY1 - 0.5*chh

	mapboxW := int((mapX1 - mapX0) * float64(targW))
	mapboxH := int((mapY1 - mapY0) * float64(targH))

	pixelscale := v.tmap.zoom
	if pixelscale == 0 {
		pixelscale = tilemapAutoScale(mapWidth, mapHeight, mapboxW, mapboxH)
	}

	mapboxW = minInt(mapboxW, mapWidth*pixelscale)
	mapboxH = minInt(mapboxH, mapHeight*pixelscale)

	// recenter within the original bounds
	mapX0 += 0.5 * ((mapX1 - mapX0) - float64(mapboxW)/float64(targW))
	mapX1 = mapX0 + float64(mapboxW)/float64(targW)
	mapY0 += 0.5 * ((mapY1 - mapY0) - float64(mapboxH)/float64(targH))
	mapY1 = mapY0 + float64(mapboxH)/float64(targH)

	boxX0 = mapX0 - 0.5*chw
	boxX1 = mapX1 + 0.5*chw
	boxY0 = mapY0 - 2.0*chh
	boxY1 = mapY1 + 0.5*chh

	title := fmt.Sprintf("TILEMAP %d/%d", v.tmap.index+1, len(maps))

	// hover maps the screen pixel back to an unrotated map coordinate
	hovered := false
	if mx, my, ok := in.Pointer(); ok {
		xpixel := int((mx - mapX0) * float64(targW))
		ypixel := int((my - mapY0) * float64(targH))
		if xpixel >= 0 && xpixel < mapboxW && ypixel >= 0 && ypixel < mapboxH {
			if v.tmap.rotate&orient.FlipX != 0 {
				xpixel = (mapboxW - 1) - xpixel
			}
			if v.tmap.rotate&orient.FlipY != 0 {
				ypixel = (mapboxH - 1) - ypixel
			}
			if v.tmap.rotate&orient.SwapXY != 0 {
				xpixel, ypixel = ypixel, xpixel
			}
			col := ((xpixel/pixelscale + v.tmap.xoffs) / tm.TileWidth()) % tm.Cols()
			row := ((ypixel/pixelscale + v.tmap.yoffs) / tm.TileHeight()) % tm.Rows()
			gfxnum, code, color := tm.Info(col, row)
			title += fmt.Sprintf(" @ %d,%d = GFX%d #%X:%X",
				col*tm.TileWidth(), row*tm.TileHeight(), gfxnum, code, color)
			hovered = true
		}
	}
	if !hovered {
		title += fmt.Sprintf(" %dx%d OFFS %d,%d",
			tm.Width(), tm.Height(), v.tmap.xoffs, v.tmap.yoffs)
	}
	if v.tmap.category != machine.CategoryAll {
		title += fmt.Sprintf(" CAT %d", v.tmap.category)
	}

	titleWidth := r.StringWidth(title)
	widen := 0.0
	if boxX1-boxX0 < titleWidth+chw {
		widen = boxX0 - (0.5 - 0.5*(titleWidth+chw))
	}
	r.OutlinedBox(geometry.NewRectSpan(boxX0-widen, boxY0, boxX1+widen, boxY1), bgPen)

	drawText(r, 0.5-0.5*titleWidth, boxY0+0.5*chh, colorutil.White, title)

	v.tilemapUpdate(r, tm, mapboxW/pixelscale, mapboxH/pixelscale)

	// rotation happens at quad draw time, not in the cached bitmap
	r.DrawQuad(v.cache.Texture(), geometry.NewRectSpan(mapX0, mapY0, mapX1, mapY1), v.tmap.rotate)

	v.tilemapHandleKeys(in, tm)
}

// tilemapUpdate refreshes the raster cache with the visible window of the
// tilemap. The cache holds unrotated map pixels; width and height arrive
// in rotated space and are swapped back here.
func (v *Viewer) tilemapUpdate(r Renderer, tm machine.Tilemap, width, height int) {
	if v.tmap.rotate&orient.SwapXY != 0 {
		width, height = height, width
	}

	v.cache.Ensure(r.AllocTexture, width, height)

	v.cache.RefreshIfDirty(func(b *raster.Bitmap) {
		b.Fill(colorutil.Transparent)
		tm.Draw(b, v.tmap.xoffs, v.tmap.yoffs, v.tmap.category)
	})
}

// tilemapHandleKeys mutates tilemap navigation state from this frame's
// input.
func (v *Viewer) tilemapHandleKeys(in Input, tm machine.Tilemap) {
	maps := v.machine.Tilemaps()

	if in.Pressed(ActionPrevGroup) && v.tmap.index > 0 {
		v.tmap.index--
		v.cache.MarkDirty()
	}
	if in.Pressed(ActionNextGroup) && v.tmap.index < len(maps)-1 {
		v.tmap.index++
		v.cache.MarkDirty()
	}

	// zoom steps the stored value, not the effective auto scale, so
	// stepping down always lands back on auto
	if in.Pressed(ActionZoomOut) && v.tmap.zoom > 0 {
		v.tmap.zoom--
		v.cache.MarkDirty()
		if v.tmap.zoom != 0 {
			v.popmessage("Zoom = %d", v.tmap.zoom)
		} else {
			v.popmessage("Zoom Auto")
		}
	}
	if in.Pressed(ActionZoomIn) && v.tmap.zoom < 8 {
		v.tmap.zoom++
		v.cache.MarkDirty()
		v.popmessage("Zoom = %d", v.tmap.zoom)
	}

	if in.Pressed(ActionRotate) {
		v.tmap.rotate = orient.Compose(orient.Rot90, v.tmap.rotate)
		v.cache.MarkDirty()
	}

	if in.Pressed(ActionHome) {
		v.tmap.xoffs = 0
		v.tmap.yoffs = 0
		v.cache.MarkDirty()
	}

	// categories step between the sentinel and 0..15; steps past either
	// end are ignored
	if in.Pressed(ActionPageDown) {
		switch {
		case v.tmap.category == machine.CategoryAll:
			v.tmap.category = 0
			v.cache.MarkDirty()
			v.popmessage("Category = %d", v.tmap.category)
		case v.tmap.category < machine.MaxCategory:
			v.tmap.category++
			v.cache.MarkDirty()
			v.popmessage("Category = %d", v.tmap.category)
		}
	}
	if in.Pressed(ActionPageUp) && v.tmap.category != machine.CategoryAll {
		if v.tmap.category == 0 {
			v.tmap.category = machine.CategoryAll
			v.cache.MarkDirty()
			v.popmessage("Category All")
		} else {
			v.tmap.category--
			v.cache.MarkDirty()
			v.popmessage("Category = %d", v.tmap.category)
		}
	}

	step := 8
	switch in.Modifier() {
	case ModPrecision:
		step = 1
	case ModFast:
		step = 64
	}

	// panning is expressed in screen directions; the rotation remaps
	// which unrotated offset each direction moves
	if in.PressedRepeat(ActionUp, 4) {
		if v.tmap.rotate&orient.SwapXY != 0 {
			v.tmap.xoffs -= flipStep(v.tmap.rotate&orient.FlipY != 0, step)
		} else {
			v.tmap.yoffs -= flipStep(v.tmap.rotate&orient.FlipY != 0, step)
		}
		v.cache.MarkDirty()
	}
	if in.PressedRepeat(ActionDown, 4) {
		if v.tmap.rotate&orient.SwapXY != 0 {
			v.tmap.xoffs += flipStep(v.tmap.rotate&orient.FlipY != 0, step)
		} else {
			v.tmap.yoffs += flipStep(v.tmap.rotate&orient.FlipY != 0, step)
		}
		v.cache.MarkDirty()
	}
	if in.PressedRepeat(ActionLeft, 6) {
		if v.tmap.rotate&orient.SwapXY != 0 {
			v.tmap.yoffs -= flipStep(v.tmap.rotate&orient.FlipX != 0, step)
		} else {
			v.tmap.xoffs -= flipStep(v.tmap.rotate&orient.FlipX != 0, step)
		}
		v.cache.MarkDirty()
	}
	if in.PressedRepeat(ActionRight, 6) {
		if v.tmap.rotate&orient.SwapXY != 0 {
			v.tmap.yoffs += flipStep(v.tmap.rotate&orient.FlipX != 0, step)
		} else {
			v.tmap.xoffs += flipStep(v.tmap.rotate&orient.FlipX != 0, step)
		}
		v.cache.MarkDirty()
	}

	// wrap against the unrotated map dimensions
	for v.tmap.xoffs < 0 {
		v.tmap.xoffs += tm.Width()
	}
	for v.tmap.xoffs >= tm.Width() {
		v.tmap.xoffs -= tm.Width()
	}
	for v.tmap.yoffs < 0 {
		v.tmap.yoffs += tm.Height()
	}
	for v.tmap.yoffs >= tm.Height() {
		v.tmap.yoffs -= tm.Height()
	}
}

// flipStep negates a pan step when the axis it moves along is mirrored.
func flipStep(flipped bool, step int) int {
	if flipped {
		return -step
	}
	return step
}
