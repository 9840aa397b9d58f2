package palette

import "math"

// Nearest returns the index of the entry with the smallest sum of absolute
// channel differences to c. Ties go to the lowest index. An empty palette
// yields 0.
func (p Palette) Nearest(c RGB) int {
	ret, best := 0, math.MaxInt
	for i, v := range p {
		d := absDiff(c.R, v.R) + absDiff(c.G, v.G) + absDiff(c.B, v.B)
		if d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}

// Convert returns the entry closest to c.
func (p Palette) Convert(c RGB) RGB {
	if len(p) == 0 {
		return RGB{}
	}
	return p[p.Nearest(c)]
}

// Index maps c onto the fixed table.
func Index(c RGB) uint8 {
	return uint8(Default.Nearest(c))
}

// IndexPixels quantizes a packed RGB buffer, one index per pixel.
func IndexPixels(rgb []byte) []uint8 {
	out := make([]uint8, len(rgb)/3)
	for i := range out {
		out[i] = Index(RGB{rgb[i*3], rgb[i*3+1], rgb[i*3+2]})
	}
	return out
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
