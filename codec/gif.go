package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"imgtool/bitmap"
	"imgtool/frames"
	"imgtool/palette"

	"golang.org/x/image/draw"
)

// WriteGIF encodes every frame of c against the fixed palette with a
// constant frame delay.
func WriteGIF(w io.Writer, c *frames.Container) error {
	if c.Len() == 0 {
		return frames.ErrNoFrames
	}

	pal := palette.Default.Color()
	rect := image.Rect(0, 0, c.Width, c.Height)
	g := &gif.GIF{
		Config: image.Config{
			ColorModel: pal,
			Width:      c.Width,
			Height:     c.Height,
		},
		BackgroundIndex: palette.Index(c.Background),
	}
	for _, idx := range c.Indexed() {
		g.Image = append(g.Image, &image.Paletted{
			Pix:     idx,
			Stride:  c.Width,
			Rect:    rect,
			Palette: pal,
		})
		g.Delay = append(g.Delay, frames.FrameDelay)
	}

	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("could not encode GIF: %w", err)
	}
	return nil
}

// ReadGIF decodes every frame of a GIF stream, composited over the canvas
// the way a viewer would show it.
func ReadGIF(r io.Reader) (*frames.Container, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, frames.ErrNoFrames
	}

	bg := frames.White
	if pal, ok := g.Config.ColorModel.(color.Palette); ok && int(g.BackgroundIndex) < len(pal) {
		cr, cg, cb, _ := pal[g.BackgroundIndex].RGBA()
		bg = palette.RGB{R: uint8(cr >> 8), G: uint8(cg >> 8), B: uint8(cb >> 8)}
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		width, height = g.Image[0].Rect.Dx(), g.Image[0].Rect.Dy()
	}

	c := frames.New(width, height, bg)
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	background := image.NewUniform(color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xFF})
	draw.Draw(canvas, canvas.Rect, background, image.Point{}, draw.Src)

	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = image.NewNRGBA(canvas.Rect)
			copy(previous.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		if err := c.Push(FromImage(canvas, bitmap.RGB).Pix); err != nil {
			return nil, fmt.Errorf("could not add frame %d: %w", i, err)
		}

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), background, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return c, nil
}
