package raster

// Texture is a display handle for a bitmap, created by the renderer
// collaborator. Update re-uploads pixel data; Release frees the handle.
type Texture interface {
	Update(*Bitmap)
	Release()
}

// Cache owns one reusable bitmap plus its display texture and tracks
// whether the pixel content is stale. Reallocation happens only when the
// requested dimensions differ from the current ones, and the texture is
// re-uploaded only on a dirty refresh, never every frame.
type Cache struct {
	bitmap  *Bitmap
	texture Texture
	dirty   bool
}

// Ensure makes the cache hold a bitmap of exactly width by height pixels.
// On a dimension mismatch (or first use) the old texture is released, new
// storage is allocated through alloc, and the cache is forced dirty.
// Matching dimensions are a strict no-op.
func (c *Cache) Ensure(alloc func() Texture, width, height int) {
	if c.bitmap != nil && c.texture != nil &&
		c.bitmap.Width == width && c.bitmap.Height == height {
		return
	}
	if c.texture != nil {
		c.texture.Release()
	}
	c.bitmap = NewBitmap(width, height)
	c.texture = alloc()
	c.dirty = true
}

// Bitmap returns the current pixel buffer, or nil before the first Ensure.
func (c *Cache) Bitmap() *Bitmap {
	return c.bitmap
}

// Texture returns the current display handle, or nil before the first
// Ensure.
func (c *Cache) Texture() Texture {
	return c.texture
}

// Dirty reports whether the cached content is stale.
func (c *Cache) Dirty() bool {
	return c.dirty
}

// MarkDirty flags the cached content as stale.
func (c *Cache) MarkDirty() {
	c.dirty = true
}

// RefreshIfDirty invokes fill to regenerate the bitmap, uploads it to the
// texture and clears the dirty flag. When the cache is clean it does
// nothing, which keeps the texture upload off the per-frame path.
func (c *Cache) RefreshIfDirty(fill func(*Bitmap)) {
	if !c.dirty {
		return
	}
	fill(c.bitmap)
	c.texture.Update(c.bitmap)
	c.dirty = false
}

// Release frees the texture and drops the bitmap. The cache is reusable
// after release; the next Ensure reallocates.
func (c *Cache) Release() {
	if c.texture != nil {
		c.texture.Release()
		c.texture = nil
	}
	c.bitmap = nil
	c.dirty = false
}
