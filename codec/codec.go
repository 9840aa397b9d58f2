// Package codec loads and stores bitmaps and frame containers in the usual
// file formats.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"imgtool/bitmap"
	"imgtool/frames"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatPPM  Format = "ppm"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".gif":
		return FormatGIF, nil
	case ".ppm":
		return FormatPPM, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Channels is the layout a format loads into: RGBA for PNG, RGB otherwise.
func (f Format) Channels() int {
	if f == FormatPNG {
		return bitmap.RGBA
	}
	return bitmap.RGB
}

// Load decodes the file at path. GIF files yield their first frame.
func Load(path string) (bitmap.Bitmap, error) {
	format, err := FormatOf(path)
	if err != nil {
		return bitmap.Bitmap{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	switch format {
	case FormatPPM:
		b, err := ReadPPM(f)
		if err != nil {
			return bitmap.Bitmap{}, fmt.Errorf("could not decode PPM %q: %w", path, err)
		}
		return b, nil
	case FormatGIF:
		c, err := ReadGIF(f)
		if err != nil {
			return bitmap.Bitmap{}, fmt.Errorf("could not decode GIF %q: %w", path, err)
		}
		return c.Bitmaps()[0], nil
	}

	img, imgType, err := image.Decode(f)
	if err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not decode image %q: %w", path, err)
	}
	slog.Debug("decoded", "file", path, "type", imgType, "size", img.Bounds().Size())

	return FromImage(img, format.Channels()), nil
}

// LoadFrames decodes every frame of the GIF at path.
func LoadFrames(path string) (*frames.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open GIF %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close GIF", "file", path, "error", closeErr)
		}
	}()

	c, err := ReadGIF(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode GIF %q: %w", path, err)
	}
	return c, nil
}

// Save encodes b into path, choosing the format from the extension. Formats
// without alpha get an RGB copy first. quality only applies to JPEG output.
func Save(path string, b bitmap.Bitmap, quality int) error {
	if b.Empty() {
		return bitmap.ErrEmpty
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format.Channels() == bitmap.RGB {
		b = ToRGB(b)
	}

	return writeAtomic(path, func(f *os.File) error {
		switch format {
		case FormatPNG:
			enc := png.Encoder{
				CompressionLevel: png.BestCompression,
				BufferPool:       pngPool,
			}
			return enc.Encode(f, ToImage(b))
		case FormatJPEG:
			return jpeg.Encode(f, ToImage(b), &jpeg.Options{Quality: ClampQuality(quality)})
		case FormatGIF:
			c := frames.New(b.Width, b.Height, frames.White)
			if err := c.Push(b.Pix); err != nil {
				return err
			}
			return WriteGIF(f, c)
		case FormatPPM:
			return WritePPM(f, b)
		case FormatBMP:
			return bmp.Encode(f, ToImage(b))
		case FormatTIFF:
			return tiff.Encode(f, ToImage(b), nil)
		default:
			return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
		}
	})
}

// SaveFrames writes c as an animated GIF.
func SaveFrames(path string, c *frames.Container) error {
	return writeAtomic(path, func(f *os.File) error {
		return WriteGIF(f, c)
	})
}

// writeAtomic writes into a temporary file next to path and renames it into
// place once encode succeeded.
func writeAtomic(path string, encode func(*os.File) error) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, name)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
			return
		}
		if defErr := os.Remove(outFile.Name()); defErr != nil {
			slog.Error("could not remove temporary destination", "file", outFile.Name(), "error", defErr)
		}
	}()

	if err = encode(outFile); err != nil {
		return fmt.Errorf("could not encode %q: %w", path, err)
	}

	canRename = true
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
