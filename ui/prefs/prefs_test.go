package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringWithFallback(t *testing.T) {
	p := New()

	assert.Equal(t, "snap", p.StringWithFallback("snapshot_dir", "snap"))

	p.SetString("snapshot_dir", "out")
	assert.Equal(t, "out", p.StringWithFallback("snapshot_dir", "snap"))

	// an empty stored value still falls back
	p.SetString("snapshot_dir", "")
	assert.Equal(t, "snap", p.StringWithFallback("snapshot_dir", "snap"))
}

func TestFloatRoundTrip(t *testing.T) {
	p := New()

	assert.Equal(t, 0.0, p.Float("window_scale"))

	p.SetFloat("window_scale", 1.5)
	assert.Equal(t, 1.5, p.Float("window_scale"))
}
