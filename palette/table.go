package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of entries in the fixed table.
const Size = 256

// Offsets of the three sections of the fixed table.
const (
	CubeOffset = 16
	GreyOffset = CubeOffset + 6*6*6
)

type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

func (c RGB) Hex() string {
	col, _ := colorful.MakeColor(c)
	return col.Hex()
}

// Palette is an ordered colour table. Lookups scan it front to back.
type Palette []RGB

// vga is the 16-colour set at the start of the table, in ANSI order.
var vga = [16]RGB{
	{0x00, 0x00, 0x00},
	{0xAA, 0x00, 0x00},
	{0x00, 0xAA, 0x00},
	{0xAA, 0x55, 0x00},
	{0x00, 0x00, 0xAA},
	{0xAA, 0x00, 0xAA},
	{0x00, 0xAA, 0xAA},
	{0xAA, 0xAA, 0xAA},
	{0x55, 0x55, 0x55},
	{0xFF, 0x55, 0x55},
	{0x55, 0xFF, 0x55},
	{0xFF, 0xFF, 0x55},
	{0x55, 0x55, 0xFF},
	{0xFF, 0x55, 0xFF},
	{0x55, 0xFF, 0xFF},
	{0xFF, 0xFF, 0xFF},
}

// Default is the fixed 256-entry table: the VGA set, a 6x6x6 colour cube with
// steps of 51 and a 24-step grey ramp that excludes black and white.
// It must not be modified.
var Default = buildDefault()

func buildDefault() Palette {
	p := make(Palette, 0, Size)
	p = append(p, vga[:]...)
	for r := range 6 {
		for g := range 6 {
			for b := range 6 {
				p = append(p, RGB{uint8(r * 51), uint8(g * 51), uint8(b * 51)})
			}
		}
	}
	for j := 1; j <= 24; j++ {
		v := uint8(j * 0xFF / 25)
		p = append(p, RGB{v, v, v})
	}
	return p
}

// CubeIndex returns the table index of cube cell (r, g, b), each in [0, 5].
func CubeIndex(r, g, b int) int {
	return CubeOffset + r*36 + g*6 + b
}

// Color returns p as a standard library palette, usable by image.Paletted.
func (p Palette) Color() color.Palette {
	pal := make(color.Palette, len(p))
	for i, c := range p {
		pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	return pal
}
