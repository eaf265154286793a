package gfxwindow

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"gfxscope/internal/viewer"
)

// keymap translates desktop keys to viewer actions.
var keymap = map[fyne.KeyName]viewer.Action{
	fyne.KeyReturn:       viewer.ActionSelect,
	fyne.KeyEnter:        viewer.ActionSelect,
	fyne.KeyEscape:       viewer.ActionCancel,
	fyne.KeyP:            viewer.ActionPause,
	fyne.KeyMinus:        viewer.ActionZoomOut,
	fyne.KeyEqual:        viewer.ActionZoomIn,
	fyne.KeyPlus:         viewer.ActionZoomIn,
	fyne.KeyLeftBracket:  viewer.ActionPrevGroup,
	fyne.KeyRightBracket: viewer.ActionNextGroup,
	fyne.KeyUp:           viewer.ActionUp,
	fyne.KeyDown:         viewer.ActionDown,
	fyne.KeyLeft:         viewer.ActionLeft,
	fyne.KeyRight:        viewer.ActionRight,
	fyne.KeyPageUp:       viewer.ActionPageUp,
	fyne.KeyPageDown:     viewer.ActionPageDown,
	fyne.KeyHome:         viewer.ActionHome,
	fyne.KeyEnd:          viewer.ActionEnd,
	fyne.KeyR:            viewer.ActionRotate,
	fyne.KeyF12:          viewer.ActionSnapshot,
}

// inputState adapts desktop key and pointer events to the viewer's
// frame-polled input contract. Edge-triggered presses are latched until
// the frame that consumes them; held counts drive auto-repeat.
type inputState struct {
	mu sync.Mutex

	pressed map[viewer.Action]bool // latched key-down edges
	held    map[viewer.Action]int  // frames the key has been down

	shift, ctrl bool

	ptrX, ptrY float64
	hasPtr     bool
}

func newInputState() *inputState {
	return &inputState{
		pressed: make(map[viewer.Action]bool),
		held:    make(map[viewer.Action]int),
	}
}

// initialRepeatDelay is the held-frame count before auto-repeat kicks
// in, at the ~60Hz frame rate.
const initialRepeatDelay = 24

func (in *inputState) keyDown(name fyne.KeyName) {
	in.mu.Lock()
	defer in.mu.Unlock()

	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		in.shift = true
		return
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		in.ctrl = true
		return
	}
	if a, ok := keymap[name]; ok {
		if _, down := in.held[a]; !down {
			in.pressed[a] = true
			in.held[a] = 0
		}
	}
}

func (in *inputState) keyUp(name fyne.KeyName) {
	in.mu.Lock()
	defer in.mu.Unlock()

	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		in.shift = false
		return
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		in.ctrl = false
		return
	}
	if a, ok := keymap[name]; ok {
		delete(in.held, a)
	}
}

func (in *inputState) setPointer(x, y float64, ok bool) {
	in.mu.Lock()
	in.ptrX, in.ptrY, in.hasPtr = x, y, ok
	in.mu.Unlock()
}

// tick advances held counters and clears consumed edges. Called once
// after each viewer frame.
func (in *inputState) tick() {
	in.mu.Lock()
	defer in.mu.Unlock()

	for a := range in.held {
		in.held[a]++
	}
	for a := range in.pressed {
		delete(in.pressed, a)
	}
}

// Pressed reports a single key-down edge.
func (in *inputState) Pressed(a viewer.Action) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pressed[a]
}

// PressedRepeat reports the edge plus auto-repeat every speed frames
// after the initial delay.
func (in *inputState) PressedRepeat(a viewer.Action, speed int) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.pressed[a] {
		return true
	}
	frames, down := in.held[a]
	if !down || frames < initialRepeatDelay {
		return false
	}
	if speed < 1 {
		speed = 1
	}
	return (frames-initialRepeatDelay)%speed == 0
}

// Modifier reports the precision/fast pan modifier.
func (in *inputState) Modifier() viewer.Modifier {
	in.mu.Lock()
	defer in.mu.Unlock()

	switch {
	case in.shift:
		return viewer.ModPrecision
	case in.ctrl:
		return viewer.ModFast
	}
	return viewer.ModNone
}

// Pointer reports the normalized pointer position.
func (in *inputState) Pointer() (float64, float64, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.ptrX, in.ptrY, in.hasPtr
}
