package bitmap

import (
	"errors"
	"fmt"
	"image"
)

// Channel counts understood by every transform.
const (
	Grey      = 1
	GreyAlpha = 2
	RGB       = 3
	RGBA      = 4
)

var ErrEmpty = errors.New("bitmap: no pixel data")

// Bitmap is a row-major 8-bit pixel buffer without row padding. The pixel at
// (x, y) starts at Pix[(y*Width+x)*Channels].
//
// The zero value means "no data"; callers check Empty before transforming.
type Bitmap struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

func New(width, height, channels int) Bitmap {
	return Bitmap{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// Fill returns a bitmap where every pixel is px. Only the first channels bytes
// of px are used.
func Fill(width, height, channels int, px []byte) Bitmap {
	b := New(width, height, channels)
	for i := 0; i < len(b.Pix); i += channels {
		copy(b.Pix[i:i+channels], px)
	}
	return b
}

func (b Bitmap) Empty() bool {
	return len(b.Pix) == 0 || b.Width <= 0 || b.Height <= 0
}

// Validate reports whether the buffer length matches the dimensions.
func (b Bitmap) Validate() error {
	if b.Empty() {
		return ErrEmpty
	}
	if b.Channels < Grey || b.Channels > RGBA {
		return fmt.Errorf("bitmap: unsupported channel count %d", b.Channels)
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("bitmap: buffer holds %d bytes, %dx%dx%d needs %d", len(b.Pix), b.Width, b.Height, b.Channels, want)
	}
	return nil
}

func (b Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

func (b Bitmap) PixelOffset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// Pixel returns the channel bytes of (x, y). The slice aliases Pix.
func (b Bitmap) Pixel(x, y int) []byte {
	i := b.PixelOffset(x, y)
	return b.Pix[i : i+b.Channels : i+b.Channels]
}

func (b Bitmap) Clone() Bitmap {
	c := b
	if b.Pix != nil {
		c.Pix = append([]byte(nil), b.Pix...)
	}
	return c
}

func (b Bitmap) String() string {
	return fmt.Sprintf("%dx%dx%d", b.Width, b.Height, b.Channels)
}
