package viewer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gfxscope/internal/machine"
	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
)

func tilemapViewer(t *testing.T) (*Viewer, *fakeTilemap, *[]string) {
	t.Helper()
	tm := &fakeTilemap{tag: "bg", width: 256, height: 128, tilew: 8, tileh: 8, rows: 16, cols: 32}
	m := &fakeMachine{tmaps: []machine.Tilemap{tm}}
	v := New(m, nil)
	require.True(t, v.Relevant())

	var msgs []string
	v.Notify = func(format string, args ...interface{}) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}
	return v, tm, &msgs
}

func TestTilemapAutoScale(t *testing.T) {
	// 64*7 exceeds 400 and 64*5 exceeds 300, so 6 and 4; min wins
	assert.Equal(t, 4, tilemapAutoScale(64, 64, 400, 300))

	// a map larger than the box stays at 1
	assert.Equal(t, 1, tilemapAutoScale(512, 512, 400, 300))
}

func TestTilemapPanWrapsUnrotated(t *testing.T) {
	v, tm, _ := tilemapViewer(t)

	v.tilemapHandleKeys(press(ActionLeft), tm)
	assert.Equal(t, 248, v.tmap.xoffs)

	v.tilemapHandleKeys(press(ActionRight), tm)
	assert.Equal(t, 0, v.tmap.xoffs)

	v.tilemapHandleKeys(press(ActionUp), tm)
	assert.Equal(t, 120, v.tmap.yoffs)

	v.tilemapHandleKeys(press(ActionDown), tm)
	assert.Equal(t, 0, v.tmap.yoffs)
}

func TestTilemapPanRemapsUnderRotation(t *testing.T) {
	v, tm, _ := tilemapViewer(t)
	v.tmap.rotate = orient.Rot90 // SwapXY|FlipX

	// screen-up pans the unrotated x axis when the view is swapped
	v.tilemapHandleKeys(press(ActionUp), tm)
	assert.Equal(t, 248, v.tmap.xoffs)
	assert.Equal(t, 0, v.tmap.yoffs)

	// screen-right pans the y axis, negated by the x mirror
	v.tilemapHandleKeys(press(ActionRight), tm)
	assert.Equal(t, 120, v.tmap.yoffs)
}

func TestTilemapPanRoundTripsUnderAllRotations(t *testing.T) {
	for rot := orient.Code(0); rot < 8; rot++ {
		v, tm, _ := tilemapViewer(t)
		v.tmap.rotate = rot

		v.tilemapHandleKeys(press(ActionUp, ActionLeft), tm)
		v.tilemapHandleKeys(press(ActionDown, ActionRight), tm)
		assert.Equal(t, 0, v.tmap.xoffs, "rotation %d", rot)
		assert.Equal(t, 0, v.tmap.yoffs, "rotation %d", rot)
	}
}

func TestTilemapPanStepModifiers(t *testing.T) {
	v, tm, _ := tilemapViewer(t)

	in := press(ActionRight)
	in.mod = ModPrecision
	v.tilemapHandleKeys(in, tm)
	assert.Equal(t, 1, v.tmap.xoffs)

	in.mod = ModFast
	v.tilemapHandleKeys(in, tm)
	assert.Equal(t, 65, v.tmap.xoffs)
}

func TestTilemapZoomStepsStoredValue(t *testing.T) {
	v, tm, msgs := tilemapViewer(t)
	require.Equal(t, 0, v.tmap.zoom)

	v.tilemapHandleKeys(press(ActionZoomIn), tm)
	assert.Equal(t, 1, v.tmap.zoom)

	v.tilemapHandleKeys(press(ActionZoomIn), tm)
	assert.Equal(t, 2, v.tmap.zoom)

	v.tilemapHandleKeys(press(ActionZoomOut), tm)
	assert.Equal(t, 1, v.tmap.zoom)

	// one more step down lands back on auto
	v.tilemapHandleKeys(press(ActionZoomOut), tm)
	assert.Equal(t, 0, v.tmap.zoom)

	assert.Equal(t, []string{"Zoom = 1", "Zoom = 2", "Zoom = 1", "Zoom Auto"}, *msgs)
}

func TestTilemapZoomClamps(t *testing.T) {
	v, tm, msgs := tilemapViewer(t)

	v.tilemapHandleKeys(press(ActionZoomOut), tm)
	assert.Equal(t, 0, v.tmap.zoom)

	v.tmap.zoom = 8
	v.tilemapHandleKeys(press(ActionZoomIn), tm)
	assert.Equal(t, 8, v.tmap.zoom)

	assert.Empty(t, *msgs)
}

func TestTilemapHomeResetsPan(t *testing.T) {
	v, tm, msgs := tilemapViewer(t)

	v.tilemapHandleKeys(press(ActionRight, ActionDown), tm)
	require.Equal(t, 8, v.tmap.xoffs)
	require.Equal(t, 8, v.tmap.yoffs)

	v.cache.Ensure(func() raster.Texture { return &fakeTexture{} }, 4, 4)
	v.cache.RefreshIfDirty(func(*raster.Bitmap) {})
	require.False(t, v.cache.Dirty())

	v.tilemapHandleKeys(press(ActionHome), tm)
	assert.Equal(t, 0, v.tmap.xoffs)
	assert.Equal(t, 0, v.tmap.yoffs)
	assert.True(t, v.cache.Dirty())

	// zoom survives a pan reset
	v.tmap.zoom = 3
	v.tilemapHandleKeys(press(ActionHome), tm)
	assert.Equal(t, 3, v.tmap.zoom)
	assert.Empty(t, *msgs)
}

func TestTilemapCategoryStepping(t *testing.T) {
	v, tm, msgs := tilemapViewer(t)
	require.Equal(t, machine.CategoryAll, v.tmap.category)

	// one step past either end is ignored
	v.tilemapHandleKeys(press(ActionPageUp), tm)
	assert.Equal(t, machine.CategoryAll, v.tmap.category)

	for want := 0; want <= machine.MaxCategory; want++ {
		v.tilemapHandleKeys(press(ActionPageDown), tm)
		assert.Equal(t, want, v.tmap.category)
	}
	v.tilemapHandleKeys(press(ActionPageDown), tm)
	assert.Equal(t, machine.MaxCategory, v.tmap.category)

	for want := machine.MaxCategory - 1; want >= 0; want-- {
		v.tilemapHandleKeys(press(ActionPageUp), tm)
		assert.Equal(t, want, v.tmap.category)
	}
	v.tilemapHandleKeys(press(ActionPageUp), tm)
	assert.Equal(t, machine.CategoryAll, v.tmap.category)

	assert.Equal(t, "Category = 0", (*msgs)[0])
	assert.Equal(t, "Category All", (*msgs)[len(*msgs)-1])
}

func TestTilemapGroupCycling(t *testing.T) {
	a := &fakeTilemap{tag: "a", width: 64, height: 64, tilew: 8, tileh: 8, rows: 8, cols: 8}
	b := &fakeTilemap{tag: "b", width: 64, height: 64, tilew: 8, tileh: 8, rows: 8, cols: 8}
	m := &fakeMachine{tmaps: []machine.Tilemap{a, b}}
	v := New(m, nil)
	require.True(t, v.Relevant())

	v.tilemapHandleKeys(press(ActionPrevGroup), a)
	assert.Equal(t, 0, v.tmap.index)

	v.tilemapHandleKeys(press(ActionNextGroup), a)
	assert.Equal(t, 1, v.tmap.index)

	v.tilemapHandleKeys(press(ActionNextGroup), b)
	assert.Equal(t, 1, v.tmap.index)
}

func TestTilemapRotateCyclesBack(t *testing.T) {
	v, tm, _ := tilemapViewer(t)

	for i := 0; i < 4; i++ {
		v.tilemapHandleKeys(press(ActionRotate), tm)
	}
	assert.Equal(t, orient.Rot0, v.tmap.rotate)
}

func TestTilemapHandlerDrawsWindow(t *testing.T) {
	v, tm, _ := tilemapViewer(t)
	v.Show()
	v.mode = ModeTilemap

	r := &fakeRenderer{}
	require.True(t, v.Frame(r, press()))
	assert.Equal(t, 1, r.quads)
	assert.Equal(t, 1, tm.drawCalls)
	assert.Equal(t, machine.CategoryAll, tm.lastCategory)
	assert.False(t, v.cache.Dirty())

	// a clean second frame skips the redraw
	require.True(t, v.Frame(r, press()))
	assert.Equal(t, 1, tm.drawCalls)
}
