// Package app wires a machine, the viewer, preferences and the export
// pipeline into one session, and fans out session events to the UI.
package app

import (
	"fmt"
	"io"
	"log"
	"sync"

	"gfxscope/internal/machine"
	"gfxscope/internal/snapshot"
	"gfxscope/internal/viewer"
	"gfxscope/ui/prefs"
)

// Preference keys used by the session and its hosts.
const (
	PrefSnapshotDir      = "snapshot_dir"
	PrefSnapshotTemplate = "snapshot_template"
	PrefWindowScale      = "window_scale"
)

// DefaultSnapshotDir is where exports land when no directory is
// configured.
const DefaultSnapshotDir = "snap"

// EventType identifies session events.
type EventType int

const (
	// EventNotification carries transient status text (string).
	EventNotification EventType = iota

	// EventSnapshotDone fires after a batch export; data is the output
	// directory (string).
	EventSnapshotDone

	// EventViewerExited fires when the viewer leaves the screen.
	EventViewerExited
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session owns one machine/viewer pair and the plumbing between them.
type Session struct {
	mu sync.RWMutex

	Machine machine.Machine
	Viewer  *viewer.Viewer
	Prefs   *prefs.Prefs

	log       *log.Logger
	listeners map[EventType][]EventListener
}

// NewSession builds a session over the given machine. A nil logger
// discards; nil prefs load from the user config dir.
func NewSession(m machine.Machine, p *prefs.Prefs, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if p == nil {
		p = prefs.Load()
	}

	s := &Session{
		Machine:   m,
		Prefs:     p,
		log:       logger,
		listeners: make(map[EventType][]EventListener),
	}

	s.Viewer = viewer.New(m, logger)
	s.Viewer.Notify = func(format string, args ...interface{}) {
		s.Emit(EventNotification, fmt.Sprintf(format, args...))
	}
	s.Viewer.OnSnapshot = func() {
		dir := s.SnapshotDir()
		s.Export(snapshot.DirFiler{Root: dir})
		s.Emit(EventSnapshotDone, dir)
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SnapshotDir resolves the configured snapshot directory.
func (s *Session) SnapshotDir() string {
	return s.Prefs.StringWithFallback(PrefSnapshotDir, DefaultSnapshotDir)
}

// Export runs one batch export into the given file tree, carrying the
// viewer's current palette grid width and per-set rotations so the
// files match the on-screen presentation.
func (s *Session) Export(filer snapshot.Filer) {
	p := &snapshot.Pipeline{
		Machine:     s.Machine,
		Filer:       filer,
		Template:    s.Prefs.StringWithFallback(PrefSnapshotTemplate, snapshot.DefaultTemplate),
		Columns:     s.Viewer.PaletteColumns(),
		Orientation: s.Viewer.GfxRotation,
		Log:         s.log,
	}
	p.ExportAll()
}

// Frame runs one viewer frame, reporting exit via EventViewerExited.
func (s *Session) Frame(r viewer.Renderer, in viewer.Input) bool {
	alive := s.Viewer.Frame(r, in)
	if !alive {
		s.Emit(EventViewerExited, nil)
	}
	return alive
}

// Close tears the session down.
func (s *Session) Close() {
	s.Viewer.Close()
}
