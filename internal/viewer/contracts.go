package viewer

import (
	"gfxscope/internal/raster"
	"gfxscope/pkg/geometry"

	"gfxscope/internal/orient"
)

// Action is an abstract input command. The host maps its own key bindings
// onto these; the viewer never sees raw key codes.
type Action int

const (
	ActionSelect Action = iota // cycle viewer mode
	ActionCancel               // exit the overlay
	ActionPause                // toggle host pause
	ActionZoomIn
	ActionZoomOut
	ActionPrevGroup // device/set/subset cycling
	ActionNextGroup
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd
	ActionRotate
	ActionSnapshot // request a batch export
)

// Modifier selects the tilemap pan step size.
type Modifier int

const (
	ModNone      Modifier = iota
	ModPrecision          // pan one pixel at a time
	ModFast               // pan 64 pixels at a time
)

// Input is the host's per-frame key/pointer state as seen by the viewer.
type Input interface {
	// Pressed reports a one-shot press of the action this frame.
	Pressed(Action) bool

	// PressedRepeat reports a press with held-key auto-repeat at the
	// given speed (frames between repeats).
	PressedRepeat(a Action, speed int) bool

	// Modifier returns the currently held pan modifier.
	Modifier() Modifier

	// Pointer returns the pointer position in normalized render
	// coordinates, or ok=false when the pointer is outside the target.
	Pointer() (x, y float64, ok bool)
}

// Renderer is the drawing surface the viewer emits primitives to, in
// normalized coordinates where the full target is the unit square.
type Renderer interface {
	// TargetSize returns the render target dimensions in pixels.
	TargetSize() (width, height int)

	// LineHeight is the normalized height of one line of UI text.
	LineHeight() float64

	// CharWidth is the normalized advance width of one glyph at the UI
	// line height.
	CharWidth(ch rune) float64

	// StringWidth is the normalized width of a whole string.
	StringWidth(s string) float64

	FillRect(r geometry.Rect, pen uint32)

	// OutlinedBox draws a filled background box with a border, the
	// standard backdrop for every overlay panel.
	OutlinedBox(r geometry.Rect, bg uint32)

	DrawChar(x, y float64, pen uint32, ch rune)
	DrawPoint(x, y float64, pen uint32)

	// DrawQuad stretches a texture over r, presenting it under the given
	// orientation.
	DrawQuad(t raster.Texture, r geometry.Rect, o orient.Code)

	// AllocTexture creates a display handle for the raster cache.
	AllocTexture() raster.Texture
}
