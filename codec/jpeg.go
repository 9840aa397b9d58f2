package codec

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"imgtool/bitmap"
)

const MaxQuality = 100

// ClampQuality limits q to the JPEG range [1, 100].
func ClampQuality(q int) int {
	return min(max(q, 1), MaxQuality)
}

// Compress runs b through an in-memory JPEG encode/decode cycle at the given
// quality. The result is always RGB.
func Compress(b bitmap.Bitmap, quality int) (bitmap.Bitmap, error) {
	if b.Empty() {
		return bitmap.Bitmap{}, bitmap.ErrEmpty
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, ToImage(ToRGB(b)), &jpeg.Options{Quality: ClampQuality(quality)}); err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not encode JPEG: %w", err)
	}

	img, err := jpeg.Decode(&buf)
	if err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("could not decode JPEG: %w", err)
	}
	return FromImage(img, bitmap.RGB), nil
}
