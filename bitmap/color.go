package bitmap

import "fmt"

// ChannelConverter re-packs a pixel buffer between channel layouts. The codec
// package provides the implementation used by the command line.
type ChannelConverter interface {
	Convert(pix []byte, width, height, src, dst int) ([]byte, error)
}

func (b Bitmap) Negative() Bitmap {
	out := New(b.Width, b.Height, b.Channels)
	for i, v := range b.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// Greyscale collapses to one channel holding the mean of the colour channels.
// Alpha, the fourth channel, is left out of the mean.
func (b Bitmap) Greyscale() Bitmap {
	out := New(b.Width, b.Height, Grey)
	div := min(b.Channels, RGB)
	for i := range out.Pix {
		p := b.Pix[i*b.Channels:]
		var sum int
		for c := range div {
			sum += int(p[c])
		}
		out.Pix[i] = byte(sum / div)
	}
	return out
}

// BlackAndWhite keeps the channel count and writes the mean of all channels,
// alpha included, into every slot.
func (b Bitmap) BlackAndWhite() Bitmap {
	out := New(b.Width, b.Height, b.Channels)
	for i := 0; i < len(b.Pix); i += b.Channels {
		var sum int
		for _, v := range b.Pix[i : i+b.Channels] {
			sum += int(v)
		}
		m := byte(sum / b.Channels)
		for c := range b.Channels {
			out.Pix[i+c] = m
		}
	}
	return out
}

// WhiteToTransparent returns an RGBA bitmap where pure white pixels, compared
// over the source channels only, become fully transparent. Every other pixel
// keeps its source bytes and gets an opaque alpha.
func (b Bitmap) WhiteToTransparent() Bitmap {
	return b.toTransparent(func(px []byte) bool {
		for _, v := range px {
			if v != 255 {
				return false
			}
		}
		return true
	})
}

// ThresholdToTransparent returns an RGBA bitmap where pixels whose channels
// are all at or below sensibility become fully transparent.
func (b Bitmap) ThresholdToTransparent(sensibility uint8) Bitmap {
	return b.toTransparent(func(px []byte) bool {
		for _, v := range px {
			if v > sensibility {
				return false
			}
		}
		return true
	})
}

func (b Bitmap) toTransparent(clear func([]byte) bool) Bitmap {
	out := New(b.Width, b.Height, RGBA)
	for y := range b.Height {
		for x := range b.Width {
			src := b.Pixel(x, y)
			if clear(src) {
				continue
			}
			dst := out.Pixel(x, y)
			copy(dst, src)
			dst[3] = 255
		}
	}
	return out
}

// Convert re-packs the bitmap to channels using conv. A bitmap that already
// has the requested layout is cloned.
func (b Bitmap) Convert(channels int, conv ChannelConverter) (Bitmap, error) {
	if b.Empty() {
		return Bitmap{}, ErrEmpty
	}
	if channels == b.Channels {
		return b.Clone(), nil
	}
	pix, err := conv.Convert(b.Pix, b.Width, b.Height, b.Channels, channels)
	if err != nil {
		return Bitmap{}, fmt.Errorf("could not convert %s to %d channels: %w", b, channels, err)
	}
	return Bitmap{Width: b.Width, Height: b.Height, Channels: channels, Pix: pix}, nil
}
