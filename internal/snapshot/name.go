// Package snapshot implements the batch export pipeline: templated
// output naming, PNG and text encoders, and a single-pass walk over
// every palette, graphics set and tilemap of a machine.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gfxscope/internal/machine"
)

// DefaultTemplate is the output name template used when none is
// configured or the configured one is malformed.
const DefaultTemplate = "%g/%i"

// ErrNoFreeIndex is returned when all 10000 auto-increment slots for a
// basename are already taken.
var ErrNoFreeIndex = errors.New("snapshot: no free index")

// Filer abstracts the output tree so tests and alternate hosts can
// capture files in memory. Names use forward slashes.
type Filer interface {
	Create(name string) (io.WriteCloser, error)
	Exists(name string) bool
}

// DirFiler writes files under a root directory, creating parents as
// needed.
type DirFiler struct {
	Root string
}

// Create opens name for writing under the root.
func (d DirFiler) Create(name string) (io.WriteCloser, error) {
	path := filepath.Join(d.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create snapshot file: %w", err)
	}
	return f, nil
}

// Exists reports whether name is already present under the root.
func (d DirFiler) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(d.Root, filepath.FromSlash(name)))
	return err == nil
}

// ExpandName resolves a snapshot name template against the machine and
// its mounted media, then numbers it. base is the per-resource stem the
// %i substitution appends its counter to; ext includes the dot.
//
// Substitutions: %g is the machine name; %d_<name> is the basename of
// the matching media device; %i becomes base_NNNN for the first index
// in 0..9999 whose file does not exist yet. A template with more than
// one %d_ reference, or one naming an unmounted or unknown device,
// falls back to the default template. A template without %i resolves
// as-is and overwrites.
func ExpandName(filer Filer, template, machineName string, media []machine.Media, base, ext string) (string, error) {
	tmpl := template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	if strings.Count(tmpl, "%d_") > 1 {
		tmpl = DefaultTemplate
	}

	if idx := strings.Index(tmpl, "%d_"); idx >= 0 {
		expanded := ""
		for _, m := range media {
			token := "%d_" + m.Name()
			if !strings.Contains(tmpl, token) {
				continue
			}
			basename := m.Basename()
			if dot := strings.LastIndexByte(basename, '.'); dot > 0 {
				basename = basename[:dot]
			}
			if basename != "" {
				expanded = strings.ReplaceAll(tmpl, token, basename)
			}
			break
		}
		if expanded == "" {
			expanded = DefaultTemplate
		}
		tmpl = expanded
	}

	tmpl = strings.ReplaceAll(tmpl, "%g", machineName)

	if !strings.Contains(tmpl, "%i") {
		return tmpl + ext, nil
	}
	for seq := 0; seq <= 9999; seq++ {
		name := strings.Replace(tmpl, "%i", fmt.Sprintf("%s_%04d", base, seq), 1) + ext
		if !filer.Exists(name) {
			return name, nil
		}
	}
	return "", ErrNoFreeIndex
}
