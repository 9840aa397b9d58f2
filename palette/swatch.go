package palette

import (
	"image"
)

// swatchColumns is the number of tiles per swatch row.
const swatchColumns = 16

// Swatch renders p as a grid of tile-sized squares, 16 per row.
func (p Palette) Swatch(tile int) *image.Paletted {
	if tile <= 0 {
		tile = 16
	}
	rows := (len(p) + swatchColumns - 1) / swatchColumns
	img := image.NewPaletted(image.Rect(0, 0, swatchColumns*tile, rows*tile), p.Color())
	for i := range p {
		x0 := (i % swatchColumns) * tile
		y0 := (i / swatchColumns) * tile
		for y := y0; y < y0+tile; y++ {
			for x := x0; x < x0+tile; x++ {
				img.SetColorIndex(x, y, uint8(i))
			}
		}
	}
	return img
}
