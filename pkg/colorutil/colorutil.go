// Package colorutil provides shared ARGB32 color utilities for the viewer.
package colorutil

import (
	"image/color"
)

// Common pens used throughout the viewer overlay.
const (
	Black       uint32 = 0xff000000
	White       uint32 = 0xffffffff
	Transparent uint32 = 0x00000000
)

// ARGB packs the four components into an ARGB32 pixel.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Alpha returns the alpha component of an ARGB32 pixel.
func Alpha(p uint32) uint8 {
	return uint8(p >> 24)
}

// Red returns the red component of an ARGB32 pixel.
func Red(p uint32) uint8 {
	return uint8(p >> 16)
}

// Green returns the green component of an ARGB32 pixel.
func Green(p uint32) uint8 {
	return uint8(p >> 8)
}

// Blue returns the blue component of an ARGB32 pixel.
func Blue(p uint32) uint8 {
	return uint8(p)
}

// Opaque forces full alpha on an ARGB32 pixel.
func Opaque(p uint32) uint32 {
	return 0xff000000 | p
}

// ToRGBA converts an ARGB32 pixel to a color.RGBA.
func ToRGBA(p uint32) color.RGBA {
	return color.RGBA{R: Red(p), G: Green(p), B: Blue(p), A: Alpha(p)}
}

// FromColor converts any color.Color to an ARGB32 pixel.
func FromColor(c color.Color) uint32 {
	r, g, b, a := c.RGBA()
	return ARGB(uint8(a>>8), uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
