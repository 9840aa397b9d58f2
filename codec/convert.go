package codec

import (
	"errors"
	"fmt"

	"imgtool/bitmap"
)

var ErrUnsupportedConversion = errors.New("unsupported channel conversion")

// Converter packs buffers between RGB, RGBA and grey. It supports RGB<->RGBA
// and RGB/RGBA->grey only.
type Converter struct{}

var _ bitmap.ChannelConverter = Converter{}

func (Converter) Convert(pix []byte, width, height, src, dst int) ([]byte, error) {
	n := width * height
	if len(pix) != n*src {
		return nil, fmt.Errorf("buffer holds %d bytes, %dx%dx%d needs %d", len(pix), width, height, src, n*src)
	}

	switch {
	case src == bitmap.RGB && dst == bitmap.RGBA:
		out := make([]byte, n*4)
		for i := range n {
			copy(out[i*4:i*4+3], pix[i*3:i*3+3])
			out[i*4+3] = 255
		}
		return out, nil
	case src == bitmap.RGBA && dst == bitmap.RGB:
		out := make([]byte, n*3)
		for i := range n {
			copy(out[i*3:i*3+3], pix[i*4:i*4+3])
		}
		return out, nil
	case (src == bitmap.RGB || src == bitmap.RGBA) && dst == bitmap.Grey:
		out := make([]byte, n)
		for i := range n {
			p := pix[i*src:]
			out[i] = byte((int(p[0]) + int(p[1]) + int(p[2])) / 3)
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %d to %d channels", ErrUnsupportedConversion, src, dst)
}
