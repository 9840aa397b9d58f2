package codec

import (
	"image"
	"image/color"

	"imgtool/bitmap"

	"golang.org/x/image/draw"
)

// FromImage rasterises img into a bitmap with the given channel count. Grey
// channels hold the mean of red, green and blue.
func FromImage(img image.Image, channels int) bitmap.Bitmap {
	r := img.Bounds()
	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) || src.Stride != r.Dx()*4 {
		src = image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(src, src.Rect, img, r.Min, draw.Src)
	}

	b := bitmap.New(r.Dx(), r.Dy(), channels)
	for i := range b.Width * b.Height {
		p := src.Pix[i*4 : i*4+4]
		out := b.Pix[i*channels : (i+1)*channels]
		switch channels {
		case bitmap.Grey:
			out[0] = grey(p)
		case bitmap.GreyAlpha:
			out[0], out[1] = grey(p), p[3]
		default:
			copy(out, p)
		}
	}
	return b
}

func grey(p []byte) byte {
	return byte((int(p[0]) + int(p[1]) + int(p[2])) / 3)
}

// ToImage wraps a copy of b in the matching standard image type: Gray for one
// channel, NRGBA otherwise.
func ToImage(b bitmap.Bitmap) image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Channels == bitmap.Grey {
		return &image.Gray{Pix: append([]byte(nil), b.Pix...), Stride: b.Width, Rect: rect}
	}

	img := image.NewNRGBA(rect)
	for i := range b.Width * b.Height {
		p := b.Pix[i*b.Channels : (i+1)*b.Channels]
		var c color.NRGBA
		switch b.Channels {
		case bitmap.GreyAlpha:
			c = color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}
		case bitmap.RGB:
			c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: 255}
		default:
			c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// ToRGB repacks any bitmap layout as RGB, dropping alpha.
func ToRGB(b bitmap.Bitmap) bitmap.Bitmap {
	if b.Channels == bitmap.RGB {
		return b
	}
	return FromImage(ToImage(b), bitmap.RGB)
}
