package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTexture counts uploads and releases so tests can observe the cache's
// allocation and upload discipline.
type fakeTexture struct {
	updates  int
	released bool
}

func (t *fakeTexture) Update(*Bitmap) { t.updates++ }
func (t *fakeTexture) Release()       { t.released = true }

func TestEnsureAllocatesOnce(t *testing.T) {
	var c Cache
	allocs := 0
	alloc := func() Texture {
		allocs++
		return &fakeTexture{}
	}

	c.Ensure(alloc, 64, 32)
	require.NotNil(t, c.Bitmap())
	assert.Equal(t, 64, c.Bitmap().Width)
	assert.Equal(t, 32, c.Bitmap().Height)
	assert.Equal(t, 1, allocs)
	assert.True(t, c.Dirty(), "fresh allocation must force a redraw")

	// identical dimensions: no realloc, and no re-dirtying
	c.RefreshIfDirty(func(*Bitmap) {})
	c.Ensure(alloc, 64, 32)
	assert.Equal(t, 1, allocs)
	assert.False(t, c.Dirty())
}

func TestEnsureReallocatesOnResize(t *testing.T) {
	var c Cache
	first := &fakeTexture{}
	second := &fakeTexture{}
	textures := []*fakeTexture{first, second}
	alloc := func() Texture {
		tex := textures[0]
		textures = textures[1:]
		return tex
	}

	c.Ensure(alloc, 16, 16)
	c.RefreshIfDirty(func(*Bitmap) {})

	c.Ensure(alloc, 32, 16)
	assert.True(t, first.released, "old texture must be freed on resize")
	assert.True(t, c.Dirty())
	assert.Same(t, Texture(second), c.Texture())
}

func TestRefreshOnlyUploadsWhenDirty(t *testing.T) {
	var c Cache
	tex := &fakeTexture{}
	c.Ensure(func() Texture { return tex }, 8, 8)

	fills := 0
	fill := func(b *Bitmap) {
		fills++
		b.Fill(0xff112233)
	}

	c.RefreshIfDirty(fill)
	assert.Equal(t, 1, fills)
	assert.Equal(t, 1, tex.updates)
	assert.Equal(t, uint32(0xff112233), c.Bitmap().At(3, 3))

	// clean cache: neither fill nor upload may run
	c.RefreshIfDirty(fill)
	c.RefreshIfDirty(fill)
	assert.Equal(t, 1, fills)
	assert.Equal(t, 1, tex.updates)

	c.MarkDirty()
	c.RefreshIfDirty(fill)
	assert.Equal(t, 2, fills)
	assert.Equal(t, 2, tex.updates)
}

func TestRelease(t *testing.T) {
	var c Cache
	tex := &fakeTexture{}
	c.Ensure(func() Texture { return tex }, 8, 8)

	c.Release()
	assert.True(t, tex.released)
	assert.Nil(t, c.Bitmap())
	assert.Nil(t, c.Texture())

	// reusable after release
	c.Ensure(func() Texture { return &fakeTexture{} }, 4, 4)
	assert.NotNil(t, c.Bitmap())
	assert.True(t, c.Dirty())
}

func TestFillRectClips(t *testing.T) {
	b := NewBitmap(4, 4)
	b.FillRect(2, 2, 10, 10, 0xffffffff)
	assert.Equal(t, uint32(0xffffffff), b.At(3, 3))
	assert.Equal(t, uint32(0), b.At(1, 1))
}
