package app

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gfxscope/internal/sample"
	"gfxscope/internal/snapshot"
	"gfxscope/ui/prefs"
)

type memFiler struct {
	files map[string]*bytes.Buffer
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (f *memFiler) Create(name string) (io.WriteCloser, error) {
	b := &bytes.Buffer{}
	f.files[name] = b
	return nopCloser{b}, nil
}

func (f *memFiler) Exists(name string) bool {
	_, ok := f.files[name]
	return ok
}

func newSession(t *testing.T) *Session {
	t.Helper()
	m, err := sample.New()
	require.NoError(t, err)
	return NewSession(m, prefs.New(), nil)
}

func TestNotificationFanOut(t *testing.T) {
	s := newSession(t)
	defer s.Close()

	var got []string
	s.On(EventNotification, func(data interface{}) {
		got = append(got, data.(string))
	})

	s.Viewer.Notify("Zoom = %d", 2)
	assert.Equal(t, []string{"Zoom = 2"}, got)
}

func TestExportWritesEveryResourceKind(t *testing.T) {
	s := newSession(t)
	defer s.Close()

	f := &memFiler{files: map[string]*bytes.Buffer{}}
	s.Export(f)

	var pal, gfx, tmap bool
	for name := range f.files {
		switch {
		case strings.Contains(name, "pal_"):
			pal = true
		case strings.Contains(name, "gfx_"):
			gfx = true
		case strings.Contains(name, "tmap_"):
			tmap = true
		}
		assert.True(t, strings.HasPrefix(name, sample.Name+"/"), "name %q should use the default template", name)
	}
	assert.True(t, pal, "palette files")
	assert.True(t, gfx, "gfx set files")
	assert.True(t, tmap, "tilemap files")
}

func TestExportHonorsTemplatePref(t *testing.T) {
	s := newSession(t)
	defer s.Close()
	s.Prefs.SetString(PrefSnapshotTemplate, "out/%d_cart/%i")

	f := &memFiler{files: map[string]*bytes.Buffer{}}
	s.Export(f)

	for name := range f.files {
		assert.True(t, strings.HasPrefix(name, "out/demo/"), "name %q", name)
	}
	assert.NotEmpty(t, f.files)
}

func TestSnapshotDirPref(t *testing.T) {
	s := newSession(t)
	defer s.Close()

	assert.Equal(t, DefaultSnapshotDir, s.SnapshotDir())
	s.Prefs.SetString(PrefSnapshotDir, "/tmp/shots")
	assert.Equal(t, "/tmp/shots", s.SnapshotDir())
}

var _ snapshot.Filer = (*memFiler)(nil)
