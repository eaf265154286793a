// Package sample provides a small self-contained machine with one of
// every visual resource kind: a direct-color ramp palette, an indirect
// palette, a two-set graphics decoder fed from generated ROM data, and
// a scrolling tilemap. Everything is seeded and deterministic, so tests
// and the headless export tool can assert exact pixels.
package sample

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"gfxscope/internal/machine"
	"gfxscope/pkg/colorutil"
)

// Name is the sample machine's system name.
const Name = "demo"

// Machine implements machine.Machine over the generated resources.
type Machine struct {
	pals   []machine.Palette
	decs   []machine.Decoder
	tmaps  []machine.Tilemap
	media  []machine.Media
	paused bool
}

// New builds the sample machine from its embedded seed data.
func New() (*Machine, error) {
	direct := rampPalette()
	mapped := indirectPalette()

	dec, err := newDecoder()
	if err != nil {
		return nil, fmt.Errorf("sample decoder: %w", err)
	}

	tm := newTilemap(dec.sets[0].(*gfxSet), direct)

	return &Machine{
		pals:  []machine.Palette{direct, mapped},
		decs:  []machine.Decoder{dec},
		tmaps: []machine.Tilemap{tm},
		media: []machine.Media{&mediaDevice{name: "cart", basename: "demo.bin"}},
	}, nil
}

// Name returns the system name used by snapshot templates.
func (m *Machine) Name() string { return Name }

// Palettes returns the palette devices.
func (m *Machine) Palettes() []machine.Palette { return m.pals }

// Decoders returns the graphics decoder devices.
func (m *Machine) Decoders() []machine.Decoder { return m.decs }

// Tilemaps returns the tile layers.
func (m *Machine) Tilemaps() []machine.Tilemap { return m.tmaps }

// Media returns the mounted image devices.
func (m *Machine) Media() []machine.Media { return m.media }

// Paused reports the pause flag.
func (m *Machine) Paused() bool { return m.paused }

// Pause sets the pause flag.
func (m *Machine) Pause() { m.paused = true }

// Resume clears the pause flag.
func (m *Machine) Resume() { m.paused = false }

type mediaDevice struct {
	name     string
	basename string
}

func (d *mediaDevice) Name() string     { return d.name }
func (d *mediaDevice) Basename() string { return d.basename }

// lcg is the 32-bit linear congruential generator seeding all sample
// data.
type lcg uint32

func (l *lcg) next() byte {
	*l = *l*1664525 + 1013904223
	return byte(*l >> 24)
}

// palette is an immutable slice-backed palette device.
type palette struct {
	tag      string
	entries  []uint32
	indirect []uint32
	penmap   []int
}

func (p *palette) Tag() string          { return p.tag }
func (p *palette) Entries() int         { return len(p.entries) }
func (p *palette) IndirectEntries() int { return len(p.indirect) }

func (p *palette) Entry(index int) uint32         { return p.entries[index] }
func (p *palette) IndirectColor(index int) uint32 { return p.indirect[index] }
func (p *palette) PenIndirect(index int) int      { return p.penmap[index] }

// rampPalette builds the 256-entry direct device: a full hue sweep in
// HCL space with luminance rising along the ramp.
func rampPalette() *palette {
	p := &palette{tag: "ramp", entries: make([]uint32, 256)}
	for i := range p.entries {
		t := float64(i) / 255.0
		c := colorful.Hcl(360.0*t, 0.5, 0.15+0.7*t).Clamped()
		r, g, b := c.RGB255()
		p.entries[i] = colorutil.ARGB(0xff, r, g, b)
	}
	return p
}

// indirectPalette builds the mapped device: 16 evenly spaced base
// colors behind 64 pens, each row of 16 pens rotated one slot further
// through the table.
func indirectPalette() *palette {
	p := &palette{tag: "mapped"}

	p.indirect = make([]uint32, 16)
	for i := range p.indirect {
		c := colorful.Hcl(360.0*float64(i)/16.0, 0.6, 0.55).Clamped()
		r, g, b := c.RGB255()
		p.indirect[i] = colorutil.ARGB(0xff, r, g, b)
	}

	p.entries = make([]uint32, 64)
	p.penmap = make([]int, 64)
	for i := range p.entries {
		p.penmap[i] = (i + i/16) % 16
		p.entries[i] = p.indirect[p.penmap[i]]
	}
	return p
}
