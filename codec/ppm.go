package codec

import (
	"bufio"
	"fmt"
	"io"

	"imgtool/bitmap"
)

// maxPPMPixels caps the allocation a PPM header may request.
const maxPPMPixels = 1 << 28

// ReadPPM decodes a binary (P6) portable pixmap with a maximum value of 255.
// Header comments are not supported.
func ReadPPM(r io.Reader) (bitmap.Bitmap, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not read header: %w", err)
	}
	switch {
	case magic != "P6":
		return bitmap.Bitmap{}, fmt.Errorf("%w: PPM magic %q", ErrUnsupportedFormat, magic)
	case maxVal != 255:
		return bitmap.Bitmap{}, fmt.Errorf("%w: PPM max value %d", ErrUnsupportedFormat, maxVal)
	case width <= 0 || height <= 0 || width*height > maxPPMPixels:
		return bitmap.Bitmap{}, fmt.Errorf("invalid PPM dimensions %dx%d", width, height)
	}

	// A single whitespace byte separates the header from the raster.
	if _, err := br.ReadByte(); err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not read header: %w", err)
	}

	b := bitmap.New(width, height, bitmap.RGB)
	if _, err := io.ReadFull(br, b.Pix); err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not read %dx%d raster: %w", width, height, err)
	}
	return b, nil
}

// WritePPM encodes an RGB bitmap as a binary (P6) portable pixmap.
func WritePPM(w io.Writer, b bitmap.Bitmap) error {
	if b.Channels != bitmap.RGB {
		return fmt.Errorf("PPM needs 3 channels, got %d", b.Channels)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6 %d %d 255\n", b.Width, b.Height); err != nil {
		return err
	}
	if _, err := bw.Write(b.Pix); err != nil {
		return err
	}
	return bw.Flush()
}
