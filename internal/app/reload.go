package app

import (
	"os"
	"path/filepath"
	"time"
)

// BuildWatcher polls the running executable and reports once when a
// newer build replaces it on disk, so a long-lived inspector session
// can surface "restart to pick up the new build" without being killed.
type BuildWatcher struct {
	execPath string
	baseline time.Time
	interval time.Duration
	stop     chan struct{}
	onUpdate func()
}

// NewBuildWatcher creates a watcher over the current executable.
// Returns nil if the executable path cannot be resolved.
func NewBuildWatcher(interval time.Duration) *BuildWatcher {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}

	// go build writes a new file; follow the symlink so we stat the
	// real one.
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	return &BuildWatcher{
		execPath: execPath,
		baseline: info.ModTime(),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// OnUpdate sets the callback invoked when a newer binary appears. It
// runs on the watcher goroutine.
func (w *BuildWatcher) OnUpdate(fn func()) {
	w.onUpdate = fn
}

// Start begins polling in a background goroutine. The watcher fires at
// most once and then stops itself.
func (w *BuildWatcher) Start() {
	go w.watch()
}

// Stop ends the watcher goroutine.
func (w *BuildWatcher) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
}

func (w *BuildWatcher) watch() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if w.updated() {
				if w.onUpdate != nil {
					w.onUpdate()
				}
				return
			}
		}
	}
}

func (w *BuildWatcher) updated() bool {
	info, err := os.Stat(w.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(w.baseline)
}
