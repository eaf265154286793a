// Package viewer implements the interactive graphics inspector: a
// frame-synchronous overlay that browses the host machine's palettes,
// decoded graphics sets and tilemaps. It owns the per-mode navigation
// state and the shared raster cache; drawing, input and resource data all
// come from collaborator interfaces.
package viewer

import (
	"io"
	"log"

	"gfxscope/internal/machine"
	"gfxscope/internal/orient"
	"gfxscope/internal/raster"
)

// Mode selects which resource kind the viewer is showing.
type Mode int

const (
	ModePalette Mode = iota
	ModeGfxSet
	ModeTilemap
	modeCount
)

// maxDecoders caps how many graphics decoder devices the viewer tracks.
const maxDecoders = 8

// bgPen is the translucent backdrop color of every overlay panel.
const bgPen = 0xef101030

// Viewer is the session-scoped inspector state: current mode, the three
// per-mode view states and the shared raster cache. Create one per host
// session with New and release it with Close.
type Viewer struct {
	machine machine.Machine
	log     *log.Logger

	// Notify, when set, receives transient status messages (zoom and
	// category changes). Nil is fine.
	Notify func(format string, args ...interface{})

	// OnSnapshot, when set, runs the batch export. Invoked at the end of
	// the frame in which the snapshot action was pressed.
	OnSnapshot func()

	started bool
	mode    Mode
	save    bool

	cache raster.Cache

	pal    paletteState
	gfx    gfxsetState
	gfxdev []decoderInfo
	tmap   tilemapState

	wasPaused bool
}

type paletteState struct {
	devindex int
	which    int // 0 = direct entries, 1 = indirect color table
	columns  int
	offset   int
}

type gfxsetState struct {
	devindex int
	set      int
}

// setInfo is the mutable per-set navigation state of one graphics set.
type setInfo struct {
	rotate     orient.Code
	columns    int
	offset     int
	color      int
	colorCount int

	// palDev is the palette device index supplying this set's colors, or
	// -1 when the set carries its own embedded palette. Resolved by
	// lookup at render time, never cached as a pointer.
	palDev int
}

type decoderInfo struct {
	dev  machine.Decoder
	sets []setInfo
}

type tilemapState struct {
	index    int
	xoffs    int
	yoffs    int
	zoom     int // 0 = auto fit, else explicit 1..8
	rotate   orient.Code
	category int // machine.CategoryAll or 0..machine.MaxCategory
}

// New creates a viewer for the given machine. Resource enumeration is
// deferred to the first Relevant or Frame call, since hosts may still be
// creating graphics sets during startup.
func New(m machine.Machine, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Viewer{
		machine: m,
		log:     logger,
		pal:     paletteState{columns: 16},
		tmap:    tilemapState{category: machine.CategoryAll},
	}
}

// countDevices snapshots the machine's decoder enumeration into per-set
// navigation state. Palette references are stored as device indices (or
// -1 for embedded), never as pointers.
func (v *Viewer) countDevices() {
	pals := v.machine.Palettes()

	for _, dev := range v.machine.Decoders() {
		sets := dev.Sets()
		if len(sets) == 0 {
			continue
		}
		info := decoderInfo{dev: dev, sets: make([]setInfo, len(sets))}
		for i, set := range sets {
			si := &info.sets[i]
			si.columns = 16
			if set.Palette() != nil {
				si.palDev = -1
				si.colorCount = set.Colors()
			} else {
				si.palDev = 0
				if len(pals) > 0 && set.Granularity() > 0 {
					si.colorCount = pals[0].Entries() / set.Granularity()
				}
				if si.colorCount == 0 {
					si.colorCount = 1
				}
			}
		}
		v.gfxdev = append(v.gfxdev, info)
		if len(v.gfxdev) == maxDecoders {
			break
		}
	}

	v.started = true
}

// Relevant reports whether the machine has anything to inspect. A host
// should not show the viewer when this is false.
func (v *Viewer) Relevant() bool {
	if !v.started {
		v.countDevices()
	}
	return len(v.machine.Palettes()) > 0 ||
		len(v.gfxdev) > 0 ||
		len(v.machine.Tilemaps()) > 0
}

// Show prepares the overlay for display: the host is paused for the
// duration unless it already was, in which case its pause state is left
// alone on exit.
func (v *Viewer) Show() {
	v.wasPaused = v.machine.Paused()
	if !v.wasPaused {
		v.machine.Pause()
	}
	v.cache.MarkDirty()
}

// Frame runs one synchronous viewer frame: draw the active view, consume
// input, and run a requested export. Returns false when the overlay has
// exited and the host should stop invoking it.
func (v *Viewer) Frame(r Renderer, in Input) bool {
	if !v.Relevant() {
		return v.exit()
	}

	// live data may change under an unpaused machine
	if !v.machine.Paused() {
		v.cache.MarkDirty()
	}

	v.dispatch(r, in)

	if in.Pressed(ActionSelect) {
		v.mode = (v.mode + 1) % modeCount
		v.cache.MarkDirty()
	}

	if in.Pressed(ActionPause) {
		if v.machine.Paused() {
			v.machine.Resume()
		} else {
			v.machine.Pause()
		}
	}

	if in.Pressed(ActionSnapshot) {
		v.save = true
	}
	if v.save {
		v.save = false
		if v.OnSnapshot != nil {
			v.OnSnapshot()
		}
	}

	if in.Pressed(ActionCancel) {
		return v.exit()
	}
	return true
}

// dispatch invokes the active mode's handler, skipping forward past any
// mode with no resources. Relevant has already guaranteed at least one
// mode is populated.
func (v *Viewer) dispatch(r Renderer, in Input) {
	for i := 0; i < int(modeCount); i++ {
		switch v.mode {
		case ModePalette:
			if len(v.machine.Palettes()) > 0 {
				v.paletteHandler(r, in)
				return
			}
			v.mode = ModeGfxSet
		case ModeGfxSet:
			if len(v.gfxdev) > 0 {
				v.gfxsetHandler(r, in)
				return
			}
			v.mode = ModeTilemap
		case ModeTilemap:
			if len(v.machine.Tilemaps()) > 0 {
				v.tilemapHandler(r, in)
				return
			}
			v.mode = ModePalette
		}
	}
}

// exit leaves the overlay: the host resumes iff the viewer paused it, and
// the raster is marked dirty so the next entry starts from a clean redraw.
func (v *Viewer) exit() bool {
	if !v.wasPaused {
		v.machine.Resume()
	}
	v.cache.MarkDirty()
	return false
}

// Close releases the raster cache's bitmap and texture.
func (v *Viewer) Close() {
	v.cache.Release()
}

// Mode returns the active mode, after emptiness skip.
func (v *Viewer) Mode() Mode {
	return v.mode
}

// PaletteColumns returns the palette view's current grid width, which the
// export pipeline reuses for palette rasters.
func (v *Viewer) PaletteColumns() int {
	return v.pal.columns
}

// GfxRotation returns the current orientation of one graphics set, so
// exports match the on-screen presentation.
func (v *Viewer) GfxRotation(dev, set int) orient.Code {
	if dev < 0 || dev >= len(v.gfxdev) {
		return orient.Rot0
	}
	sets := v.gfxdev[dev].sets
	if set < 0 || set >= len(sets) {
		return orient.Rot0
	}
	return sets[set].rotate
}

func (v *Viewer) popmessage(format string, args ...interface{}) {
	if v.Notify != nil {
		v.Notify(format, args...)
	}
}

// drawText draws a string one glyph at a time, returning the x position
// after the final glyph.
func drawText(r Renderer, x, y float64, pen uint32, s string) float64 {
	for _, ch := range s {
		r.DrawChar(x, y, pen, ch)
		x += r.CharWidth(ch)
	}
	return x
}

// hexDigit returns the column header glyph for column x.
func hexDigit(x int) rune {
	return rune("0123456789ABCDEF"[x&0xf])
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
