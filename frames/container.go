// Package frames holds equal-sized RGB frames destined for a 256-colour
// animated image.
package frames

import (
	"errors"
	"fmt"

	"imgtool/bitmap"
	"imgtool/palette"
)

// FrameDelay is the display time of every frame, in 1/100 s.
const FrameDelay = 10

var (
	ErrFrameSize = errors.New("frames: frame does not match container size")
	ErrNoFrames  = errors.New("frames: no frames")
)

// White is the background used when building from bitmaps.
var White = palette.RGB{R: 255, G: 255, B: 255}

// Container is an ordered list of packed RGB frames of Width x Height pixels.
type Container struct {
	Width      int
	Height     int
	Background palette.RGB

	frames [][]byte
}

func New(width, height int, background palette.RGB) *Container {
	return &Container{
		Width:      width,
		Height:     height,
		Background: background,
		frames:     make([][]byte, 0, 1),
	}
}

// FrameLen is the byte length every frame must have.
func (c *Container) FrameLen() int {
	return c.Width * c.Height * bitmap.RGB
}

// Push appends a copy of rgb. The backing list doubles when full.
func (c *Container) Push(rgb []byte) error {
	if len(rgb) != c.FrameLen() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(rgb), c.FrameLen())
	}
	if len(c.frames) == cap(c.frames) {
		grown := make([][]byte, len(c.frames), max(1, 2*cap(c.frames)))
		copy(grown, c.frames)
		c.frames = grown
	}
	c.frames = append(c.frames, append([]byte(nil), rgb...))
	return nil
}

func (c *Container) Len() int {
	return len(c.frames)
}

func (c *Container) Cap() int {
	return cap(c.frames)
}

// Frame returns frame i. The slice is owned by the container.
func (c *Container) Frame(i int) []byte {
	return c.frames[i]
}

// Indexed quantizes every frame against the fixed palette.
func (c *Container) Indexed() [][]uint8 {
	out := make([][]uint8, len(c.frames))
	for i, f := range c.frames {
		out[i] = palette.IndexPixels(f)
	}
	return out
}

// Bitmaps returns an RGB bitmap copy of every frame.
func (c *Container) Bitmaps() []bitmap.Bitmap {
	out := make([]bitmap.Bitmap, len(c.frames))
	for i, f := range c.frames {
		out[i] = bitmap.Bitmap{
			Width:    c.Width,
			Height:   c.Height,
			Channels: bitmap.RGB,
			Pix:      append([]byte(nil), f...),
		}
	}
	return out
}

// FromBitmaps builds a white-background container sized after the first
// bitmap. RGBA sources are flattened to RGB with conv; RGB sources are used
// as they are. Any other layout, or a size mismatch, is an error.
func FromBitmaps(bitmaps []bitmap.Bitmap, conv bitmap.ChannelConverter) (*Container, error) {
	if len(bitmaps) == 0 {
		return nil, ErrNoFrames
	}

	c := New(bitmaps[0].Width, bitmaps[0].Height, White)
	for i, b := range bitmaps {
		if b.Width != c.Width || b.Height != c.Height {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, want %dx%d", ErrFrameSize, i, b.Width, b.Height, c.Width, c.Height)
		}

		switch b.Channels {
		case bitmap.RGB:
		case bitmap.RGBA:
			var err error
			if b, err = b.Convert(bitmap.RGB, conv); err != nil {
				return nil, fmt.Errorf("could not flatten frame %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("frame %d has %d channels, want 3 or 4", i, b.Channels)
		}

		if err := c.Push(b.Pix); err != nil {
			return nil, fmt.Errorf("could not add frame %d: %w", i, err)
		}
	}
	return c, nil
}
