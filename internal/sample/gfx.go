package sample

import (
	"fmt"

	"github.com/gravestench/bitstream"

	"gfxscope/internal/machine"
)

// ROM geometry of the two generated graphics sets.
const (
	charCount = 128 // 8x8 4bpp cells
	charSeed  = 0x1234abcd

	spriteCount = 64 // 16x16 2bpp cells
	spriteSeed  = 0xcafe0042
)

// decoder holds the two decoded sample sets.
type decoder struct {
	sets []machine.Set
}

func (d *decoder) Tag() string         { return "chargen" }
func (d *decoder) Sets() []machine.Set { return d.sets }

func newDecoder() (*decoder, error) {
	chars, err := decodePlanar(romBytes(charCount*8*4, charSeed), charCount, 8, 8, 4)
	if err != nil {
		return nil, fmt.Errorf("char set: %w", err)
	}

	sprites, err := decodePlanar(romBytes(spriteCount*16*2*2, spriteSeed), spriteCount, 16, 16, 2)
	if err != nil {
		return nil, fmt.Errorf("sprite set: %w", err)
	}

	return &decoder{sets: []machine.Set{
		// the char set draws from the machine's ramp palette device
		&gfxSet{
			width: 8, height: 8, cells: chars,
			granularity: 16, colors: 16,
		},
		// the sprite set carries its own embedded palette
		&gfxSet{
			width: 16, height: 16, cells: sprites,
			granularity: 4, colors: 4,
			pal: spritePalette(),
		},
	}}, nil
}

// gfxSet is one decoded sample set; cell pixels are stored unpacked,
// one palette-relative index per byte.
type gfxSet struct {
	width, height int
	cells         [][]byte
	granularity   int
	colors        int
	pal           machine.Palette
}

func (s *gfxSet) Width() int               { return s.width }
func (s *gfxSet) Height() int              { return s.height }
func (s *gfxSet) Elements() int            { return len(s.cells) }
func (s *gfxSet) RowBytes() int            { return s.width }
func (s *gfxSet) Data(element int) []byte  { return s.cells[element] }
func (s *gfxSet) Granularity() int         { return s.granularity }
func (s *gfxSet) ColorBase() int           { return 0 }
func (s *gfxSet) Colors() int              { return s.colors }
func (s *gfxSet) Palette() machine.Palette { return s.pal }

// spritePalette is the embedded 16-entry palette of the sprite set:
// four 4-entry color blocks sweeping the hue wheel.
func spritePalette() *palette {
	p := &palette{tag: "sprites", entries: make([]uint32, 16)}
	for i := range p.entries {
		t := float64(i) / 15.0
		p.entries[i] = 0xff000000 |
			uint32(0x30+0xc0*t)<<16 |
			uint32(0xc0-0x90*t)<<8 |
			uint32(0x20+0x60*t)
	}
	return p
}

// romBytes generates n seeded pseudo-ROM bytes.
func romBytes(n int, seed uint32) []byte {
	gen := lcg(seed)
	out := make([]byte, n)
	for i := range out {
		out[i] = gen.next()
	}
	return out
}

// decodePlanar unpacks count cells of width x height pixels from
// bitplane-ordered ROM data: all of plane 0's rows for a cell, then
// plane 1's, and so on. Rows are packed MSB first, width/8 bytes per
// row per plane.
func decodePlanar(rom []byte, count, width, height, depth int) ([][]byte, error) {
	stream := bitstream.ReaderFromBytes(rom...)
	rowBytes := width / 8

	cells := make([][]byte, count)
	for c := range cells {
		pix := make([]byte, width*height)
		for plane := 0; plane < depth; plane++ {
			for y := 0; y < height; y++ {
				for bx := 0; bx < rowBytes; bx++ {
					b, err := stream.Next(1).Bytes().AsByte()
					if err != nil {
						return nil, fmt.Errorf("planar cell %d plane %d: %w", c, plane, err)
					}
					for bit := 0; bit < 8; bit++ {
						if b&(0x80>>bit) != 0 {
							pix[y*width+bx*8+bit] |= 1 << plane
						}
					}
				}
			}
		}
		cells[c] = pix
	}
	return cells, nil
}
