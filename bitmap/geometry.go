package bitmap

import "image"

func (b Bitmap) FlipHorizontal() Bitmap {
	out := New(b.Width, b.Height, b.Channels)
	for y := range b.Height {
		for x := range b.Width {
			copy(out.Pixel(x, y), b.Pixel(b.Width-1-x, y))
		}
	}
	return out
}

func (b Bitmap) FlipVertical() Bitmap {
	out := New(b.Width, b.Height, b.Channels)
	rowLen := b.Width * b.Channels
	for y := range b.Height {
		src := (b.Height - 1 - y) * rowLen
		copy(out.Pix[y*rowLen:(y+1)*rowLen], b.Pix[src:src+rowLen])
	}
	return out
}

// Rotate90 transposes the bitmap: the result is Height wide and Width tall
// and out(x, y) = in(y, x). Visually this is a quarter turn plus a mirror.
func (b Bitmap) Rotate90() Bitmap {
	out := New(b.Height, b.Width, b.Channels)
	for y := range out.Height {
		for x := range out.Width {
			copy(out.Pixel(x, y), b.Pixel(y, x))
		}
	}
	return out
}

// ScaleUp2x doubles both dimensions with nearest-neighbour sampling.
func (b Bitmap) ScaleUp2x() Bitmap {
	out := New(b.Width*2, b.Height*2, b.Channels)
	for y := range b.Height {
		for x := range b.Width {
			p := b.Pixel(x, y)
			xx, yy := x*2, y*2
			copy(out.Pixel(xx, yy), p)
			copy(out.Pixel(xx+1, yy), p)
			copy(out.Pixel(xx, yy+1), p)
			copy(out.Pixel(xx+1, yy+1), p)
		}
	}
	return out
}

// ScaleDown2x halves both dimensions with a 2x2 box filter. Odd trailing
// rows and columns are dropped. Images narrower or shorter than 2 pixels
// produce an empty bitmap; callers that care must check first.
func (b Bitmap) ScaleDown2x() Bitmap {
	out := New(b.Width/2, b.Height/2, b.Channels)
	var block [4][]byte
	for y := range out.Height {
		for x := range out.Width {
			block[0] = b.Pixel(x*2, y*2)
			block[1] = b.Pixel(x*2+1, y*2)
			block[2] = b.Pixel(x*2, y*2+1)
			block[3] = b.Pixel(x*2+1, y*2+1)
			averagePixel(&block, out.Pixel(x, y))
		}
	}
	return out
}

// ContentBounds scans every pixel and returns the smallest rectangle holding
// all of them. No pixel is filtered out, so for a non-empty bitmap the result
// is always the full bounds.
func (b Bitmap) ContentBounds() image.Rectangle {
	if b.Empty() {
		return image.Rectangle{}
	}
	minX, minY := b.Width, b.Height
	maxX, maxY := -1, -1
	for y := range b.Height {
		for x := range b.Width {
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Crop copies the ContentBounds sub-rectangle.
func (b Bitmap) Crop() Bitmap {
	return b.CropRect(b.ContentBounds())
}

// CropRect copies r, clipped to the bitmap bounds, into a new bitmap.
func (b Bitmap) CropRect(r image.Rectangle) Bitmap {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return Bitmap{}
	}
	out := New(r.Dx(), r.Dy(), b.Channels)
	rowLen := out.Width * b.Channels
	for y := range out.Height {
		src := b.PixelOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*rowLen:(y+1)*rowLen], b.Pix[src:src+rowLen])
	}
	return out
}
