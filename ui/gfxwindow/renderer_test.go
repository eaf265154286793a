package gfxwindow

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
	"gfxscope/internal/viewer"
	"gfxscope/pkg/geometry"
)

func TestTextureUpdateConvertsChannels(t *testing.T) {
	b := raster.NewBitmap(2, 1)
	b.Set(0, 0, 0xff112233)
	b.Set(1, 0, 0x80aabbcc)

	tex := &texture{}
	tex.Update(b)

	require.NotNil(t, tex.img)
	assert.Equal(t, []uint8{0x11, 0x22, 0x33, 0xff}, tex.img.Pix[0:4])
	assert.Equal(t, []uint8{0xaa, 0xbb, 0xcc, 0x80}, tex.img.Pix[4:8])

	tex.Release()
	assert.Nil(t, tex.img)
}

func TestFillRectOpaqueAndBlended(t *testing.T) {
	r := newSoftRenderer(10, 10)

	r.FillRect(geometry.NewRect(0, 0, 1, 1), 0xffff0000)
	off := r.surface.PixOffset(5, 5)
	assert.Equal(t, uint8(0xff), r.surface.Pix[off+0])
	assert.Equal(t, uint8(0x00), r.surface.Pix[off+1])

	// a half-transparent black over red leaves half the red
	r.FillRect(geometry.NewRect(0, 0, 1, 1), 0x80000000)
	assert.InDelta(t, 0x7f, int(r.surface.Pix[off+0]), 1)
}

func TestOutlinedBoxStrokesBorder(t *testing.T) {
	r := newSoftRenderer(10, 10)
	r.OutlinedBox(geometry.NewRect(0, 0, 1, 1), 0xff000000)

	corner := r.surface.PixOffset(0, 0)
	assert.Equal(t, uint8(0xff), r.surface.Pix[corner+0])
	assert.Equal(t, uint8(0xff), r.surface.Pix[corner+1])

	inner := r.surface.PixOffset(5, 5)
	assert.Equal(t, uint8(0x00), r.surface.Pix[inner+0])
}

func TestDrawQuadAppliesOrientation(t *testing.T) {
	b := raster.NewBitmap(2, 1)
	b.Set(0, 0, 0xffff0000)
	b.Set(1, 0, 0xff00ff00)
	tex := &texture{}
	tex.Update(b)

	r := newSoftRenderer(4, 2)
	r.DrawQuad(tex, geometry.NewRect(0, 0, 1, 1), orient.Rot0)
	left := r.surface.PixOffset(0, 0)
	right := r.surface.PixOffset(3, 0)
	assert.Equal(t, uint8(0xff), r.surface.Pix[left+0], "red on the left")
	assert.Equal(t, uint8(0xff), r.surface.Pix[right+1], "green on the right")

	r2 := newSoftRenderer(4, 2)
	r2.DrawQuad(tex, geometry.NewRect(0, 0, 1, 1), orient.Rot180)
	left = r2.surface.PixOffset(0, 0)
	right = r2.surface.PixOffset(3, 0)
	assert.Equal(t, uint8(0xff), r2.surface.Pix[left+1], "green on the left when rotated")
	assert.Equal(t, uint8(0xff), r2.surface.Pix[right+0], "red on the right when rotated")
}

func TestOrientImageSwapsDims(t *testing.T) {
	b := raster.NewBitmap(3, 2)
	tex := &texture{}
	tex.Update(b)

	img := orientImage(tex.img, orient.Rot90)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestInputEdgeAndRepeat(t *testing.T) {
	in := newInputState()

	in.keyDown(fyne.KeyDown)
	assert.True(t, in.Pressed(viewer.ActionDown))
	assert.True(t, in.PressedRepeat(viewer.ActionDown, 4))

	in.tick()
	assert.False(t, in.Pressed(viewer.ActionDown), "edge consumed")

	// auto-repeat starts after the initial delay, then fires every
	// speed frames
	fired := 0
	for i := 0; i < initialRepeatDelay+8; i++ {
		if in.PressedRepeat(viewer.ActionDown, 4) {
			fired++
		}
		in.tick()
	}
	assert.Equal(t, 3, fired)

	in.keyUp(fyne.KeyDown)
	assert.False(t, in.PressedRepeat(viewer.ActionDown, 4))
}

func TestInputIgnoresOSKeyRepeat(t *testing.T) {
	in := newInputState()

	in.keyDown(fyne.KeyR)
	assert.True(t, in.Pressed(viewer.ActionRotate))
	in.tick()

	// a second key-down without a key-up is the OS repeating, not a
	// new press
	in.keyDown(fyne.KeyR)
	assert.False(t, in.Pressed(viewer.ActionRotate))
}

func TestInputModifiers(t *testing.T) {
	in := newInputState()
	assert.Equal(t, viewer.ModNone, in.Modifier())

	in.keyDown(desktop.KeyShiftLeft)
	assert.Equal(t, viewer.ModPrecision, in.Modifier())
	in.keyUp(desktop.KeyShiftLeft)

	in.keyDown(desktop.KeyControlRight)
	assert.Equal(t, viewer.ModFast, in.Modifier())
}

func TestInputPointer(t *testing.T) {
	in := newInputState()

	_, _, ok := in.Pointer()
	assert.False(t, ok)

	in.setPointer(0.25, 0.75, true)
	x, y, ok := in.Pointer()
	assert.True(t, ok)
	assert.Equal(t, 0.25, x)
	assert.Equal(t, 0.75, y)
}

// collaborator conformance
var (
	_ viewer.Renderer  = (*softRenderer)(nil)
	_ viewer.Input     = (*inputState)(nil)
	_ raster.Texture   = (*texture)(nil)
	_ desktop.Keyable  = (*viewerWidget)(nil)
	_ desktop.Hoverable = (*viewerWidget)(nil)
)
