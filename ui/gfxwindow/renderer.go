// Package gfxwindow hosts the viewer in a Fyne window: a software
// renderer rasterizing the viewer's draw calls onto an RGBA surface, a
// key/pointer input adapter, and the frame loop driving them.
package gfxwindow

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
	"gfxscope/pkg/geometry"
)

// texture is a cpu-side texture handle: an RGBA copy of the last
// uploaded bitmap.
type texture struct {
	img *image.RGBA
}

// Update copies an ARGB32 bitmap into the texture.
func (t *texture) Update(b *raster.Bitmap) {
	if t.img == nil || t.img.Bounds().Dx() != b.Width || t.img.Bounds().Dy() != b.Height {
		t.img = image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	}
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		off := t.img.PixOffset(0, y)
		for x := 0; x < b.Width; x++ {
			p := row[x]
			t.img.Pix[off+0] = uint8(p >> 16)
			t.img.Pix[off+1] = uint8(p >> 8)
			t.img.Pix[off+2] = uint8(p)
			t.img.Pix[off+3] = uint8(p >> 24)
			off += 4
		}
	}
}

// Release drops the pixels.
func (t *texture) Release() {
	t.img = nil
}

// softRenderer rasterizes viewer draw calls onto an RGBA surface using
// the fixed inconsolata face for text. Coordinates arrive normalized to
// the surface.
type softRenderer struct {
	surface *image.RGBA
	face    font.Face
}

func newSoftRenderer(w, h int) *softRenderer {
	return &softRenderer{
		surface: image.NewRGBA(image.Rect(0, 0, w, h)),
		face:    inconsolata.Regular8x16,
	}
}

// glyph cell of the fixed face, in pixels
const (
	glyphWidth  = 8
	glyphHeight = 16
)

// Surface returns the backing image for display.
func (r *softRenderer) Surface() *image.RGBA { return r.surface }

// Clear fills the surface with an opaque background.
func (r *softRenderer) Clear(c color.RGBA) {
	b := r.surface.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := r.surface.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r.surface.Pix[off+0] = c.R
			r.surface.Pix[off+1] = c.G
			r.surface.Pix[off+2] = c.B
			r.surface.Pix[off+3] = c.A
			off += 4
		}
	}
}

func (r *softRenderer) TargetSize() (int, int) {
	b := r.surface.Bounds()
	return b.Dx(), b.Dy()
}

func (r *softRenderer) LineHeight() float64 {
	_, h := r.TargetSize()
	return glyphHeight / float64(h)
}

func (r *softRenderer) CharWidth(ch rune) float64 {
	w, _ := r.TargetSize()
	return glyphWidth / float64(w)
}

func (r *softRenderer) StringWidth(s string) float64 {
	w, _ := r.TargetSize()
	return float64(len([]rune(s))*glyphWidth) / float64(w)
}

// pixelRect converts a normalized rect to surface pixels.
func (r *softRenderer) pixelRect(rect geometry.Rect) image.Rectangle {
	w, h := r.TargetSize()
	return image.Rect(
		int(rect.X*float64(w)),
		int(rect.Y*float64(h)),
		int(rect.Right()*float64(w)),
		int(rect.Bottom()*float64(h)),
	)
}

// blendPixel composites an ARGB32 pen over one surface pixel.
func (r *softRenderer) blendPixel(x, y int, pen uint32) {
	if !(image.Point{X: x, Y: y}).In(r.surface.Bounds()) {
		return
	}
	a := pen >> 24
	if a == 0 {
		return
	}
	off := r.surface.PixOffset(x, y)
	sr, sg, sb := (pen>>16)&0xff, (pen>>8)&0xff, pen&0xff
	if a == 0xff {
		r.surface.Pix[off+0] = uint8(sr)
		r.surface.Pix[off+1] = uint8(sg)
		r.surface.Pix[off+2] = uint8(sb)
		r.surface.Pix[off+3] = 0xff
		return
	}
	inv := 0xff - a
	r.surface.Pix[off+0] = uint8((sr*a + uint32(r.surface.Pix[off+0])*inv) / 0xff)
	r.surface.Pix[off+1] = uint8((sg*a + uint32(r.surface.Pix[off+1])*inv) / 0xff)
	r.surface.Pix[off+2] = uint8((sb*a + uint32(r.surface.Pix[off+2])*inv) / 0xff)
	r.surface.Pix[off+3] = 0xff
}

func (r *softRenderer) fillPixels(pr image.Rectangle, pen uint32) {
	pr = pr.Intersect(r.surface.Bounds())
	for y := pr.Min.Y; y < pr.Max.Y; y++ {
		for x := pr.Min.X; x < pr.Max.X; x++ {
			r.blendPixel(x, y, pen)
		}
	}
}

func (r *softRenderer) FillRect(rect geometry.Rect, pen uint32) {
	r.fillPixels(r.pixelRect(rect), pen)
}

// OutlinedBox fills the rect with the pen and strokes a one-pixel white
// border.
func (r *softRenderer) OutlinedBox(rect geometry.Rect, pen uint32) {
	pr := r.pixelRect(rect)
	r.fillPixels(pr, pen)

	const white = 0xffffffff
	for x := pr.Min.X; x < pr.Max.X; x++ {
		r.blendPixel(x, pr.Min.Y, white)
		r.blendPixel(x, pr.Max.Y-1, white)
	}
	for y := pr.Min.Y; y < pr.Max.Y; y++ {
		r.blendPixel(pr.Min.X, y, white)
		r.blendPixel(pr.Max.X-1, y, white)
	}
}

func (r *softRenderer) DrawChar(x, y float64, pen uint32, ch rune) {
	w, h := r.TargetSize()
	px, py := int(x*float64(w)), int(y*float64(h))

	d := font.Drawer{
		Dst:  r.surface,
		Src:  image.NewUniform(color.RGBA{R: uint8(pen >> 16), G: uint8(pen >> 8), B: uint8(pen), A: uint8(pen >> 24)}),
		Face: r.face,
		Dot:  fixed.P(px, py+r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(ch))
}

func (r *softRenderer) DrawPoint(x, y float64, pen uint32) {
	w, h := r.TargetSize()
	r.blendPixel(int(x*float64(w)), int(y*float64(h)), pen)
}

// DrawQuad scales a texture into the rect with nearest-neighbor
// sampling, applying the orientation first.
func (r *softRenderer) DrawQuad(tex raster.Texture, rect geometry.Rect, o orient.Code) {
	t, ok := tex.(*texture)
	if !ok || t == nil || t.img == nil {
		return
	}

	src := t.img
	if o != orient.Rot0 {
		src = orientImage(t.img, o)
	}

	xdraw.NearestNeighbor.Scale(r.surface, r.pixelRect(rect), src, src.Bounds(), xdraw.Over, nil)
}

func (r *softRenderer) AllocTexture() raster.Texture {
	return &texture{}
}

// orientImage returns a copy of src with the orientation applied: the
// result's (x, y) shows src at the mapped coordinate.
func orientImage(src *image.RGBA, o orient.Code) *image.RGBA {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := orient.Dims(o, sw, sh)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			sx, sy := orient.Map(o, x, y, sw, sh)
			copy(dst.Pix[dst.PixOffset(x, y):], src.Pix[src.PixOffset(sx, sy):src.PixOffset(sx, sy)+4])
		}
	}
	return dst
}
