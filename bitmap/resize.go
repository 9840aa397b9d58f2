package bitmap

import "math"

// ResizeWidth resamples each row to width pixels with linear interpolation
// between the two nearest source columns. The last source column is copied
// verbatim where no right neighbour exists.
func (b Bitmap) ResizeWidth(width int) Bitmap {
	if b.Empty() || width <= 0 {
		return Bitmap{}
	}
	out := New(width, b.Height, b.Channels)
	for x := range width {
		xx, dif := sourceCoord(x, width, b.Width)
		for y := range b.Height {
			if xx+1 < b.Width {
				lerpPixel(b.Pixel(xx, y), b.Pixel(xx+1, y), dif, out.Pixel(x, y))
			} else {
				copy(out.Pixel(x, y), b.Pixel(xx, y))
			}
		}
	}
	return out
}

// ResizeHeight is the vertical counterpart of ResizeWidth.
func (b Bitmap) ResizeHeight(height int) Bitmap {
	if b.Empty() || height <= 0 {
		return Bitmap{}
	}
	out := New(b.Width, height, b.Channels)
	for y := range height {
		yy, dif := sourceCoord(y, height, b.Height)
		for x := range b.Width {
			if yy+1 < b.Height {
				lerpPixel(b.Pixel(x, yy), b.Pixel(x, yy+1), dif, out.Pixel(x, y))
			} else {
				copy(out.Pixel(x, y), b.Pixel(x, yy))
			}
		}
	}
	return out
}

// ResizeScale resizes both axes by f, width first. The intermediate bitmap
// is dropped once the second pass has read it.
func (b Bitmap) ResizeScale(f float64) Bitmap {
	width := int(math.Round(float64(b.Width) * f))
	height := int(math.Round(float64(b.Height) * f))
	return b.ResizeWidth(width).ResizeHeight(height)
}

// sourceCoord maps destination index i of a target-long axis onto a source
// axis of extent pixels, returning the integer and fractional parts.
func sourceCoord(i, target, extent int) (int, float64) {
	src := remap(0, float64(target), 0, float64(extent), float64(i))
	whole := math.Floor(src)
	idx := min(int(whole), extent-1)
	return idx, src - whole
}
