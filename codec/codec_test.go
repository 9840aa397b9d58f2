package codec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imgtool/bitmap"
	"imgtool/frames"
	"imgtool/palette"

	"github.com/google/go-cmp/cmp"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.png", FormatPNG},
		{"dir/b.JPG", FormatJPEG},
		{"c.jpeg", FormatJPEG},
		{"d.gif", FormatGIF},
		{"e.ppm", FormatPPM},
		{"f.bmp", FormatBMP},
		{"g.tif", FormatTIFF},
		{"h.webp", FormatWebP},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}

	if _, err := FormatOf("noext"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf(noext) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestConverter(t *testing.T) {
	rgb := []byte{10, 20, 30, 200, 100, 0}
	rgba := []byte{10, 20, 30, 40, 200, 100, 0, 255}
	tests := []struct {
		name     string
		pix      []byte
		src, dst int
		want     []byte
	}{
		{"rgb to rgba", rgb, bitmap.RGB, bitmap.RGBA, []byte{10, 20, 30, 255, 200, 100, 0, 255}},
		{"rgba to rgb", rgba, bitmap.RGBA, bitmap.RGB, []byte{10, 20, 30, 200, 100, 0}},
		{"rgb to grey", rgb, bitmap.RGB, bitmap.Grey, []byte{20, 100}},
		{"rgba to grey", rgba, bitmap.RGBA, bitmap.Grey, []byte{20, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Converter{}.Convert(tt.pix, 2, 1, tt.src, tt.dst)
			if err != nil {
				t.Fatalf("Convert error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConverterUnsupported(t *testing.T) {
	tests := []struct{ src, dst int }{
		{bitmap.Grey, bitmap.RGB},
		{bitmap.GreyAlpha, bitmap.RGBA},
		{bitmap.RGB, bitmap.GreyAlpha},
		{bitmap.RGB, bitmap.RGB},
	}
	for _, tt := range tests {
		pix := make([]byte, 2*tt.src)
		if _, err := (Converter{}).Convert(pix, 2, 1, tt.src, tt.dst); !errors.Is(err, ErrUnsupportedConversion) {
			t.Errorf("Convert(%d -> %d) error = %v, want ErrUnsupportedConversion", tt.src, tt.dst, err)
		}
	}

	if _, err := (Converter{}).Convert(make([]byte, 5), 2, 1, bitmap.RGB, bitmap.RGBA); err == nil {
		t.Error("Convert accepted a short buffer")
	}
}

func TestClampQuality(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 1},
		{0, 1},
		{1, 1},
		{75, 75},
		{100, 100},
		{101, 100},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := ClampQuality(tt.in); got != tt.want {
			t.Errorf("ClampQuality(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCompress(t *testing.T) {
	for _, ch := range []int{bitmap.Grey, bitmap.RGB, bitmap.RGBA} {
		b := bitmap.Fill(16, 8, ch, []byte{120, 120, 120, 7})
		got, err := Compress(b, 250)
		if err != nil {
			t.Fatalf("Compress(%d channels) error = %v", ch, err)
		}
		if got.Width != 16 || got.Height != 8 || got.Channels != bitmap.RGB {
			t.Errorf("Compress(%d channels) = %v, want 16x8x3", ch, got)
		}
		for i, v := range got.Pix {
			if v < 115 || v > 125 {
				t.Fatalf("Compress(%d channels) byte %d = %d, want about 120", ch, i, v)
			}
		}
	}

	if _, err := Compress(bitmap.Bitmap{}, 50); !errors.Is(err, bitmap.ErrEmpty) {
		t.Errorf("Compress(empty) error = %v, want ErrEmpty", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	for _, ch := range []int{bitmap.Grey, bitmap.GreyAlpha, bitmap.RGB, bitmap.RGBA} {
		b := bitmap.New(3, 2, ch)
		for i := range b.Pix {
			b.Pix[i] = byte(i * 13)
		}
		got := FromImage(ToImage(b), ch)
		if diff := cmp.Diff(b, got); diff != "" {
			t.Errorf("%d channels: image round trip mismatch (-want +got):\n%s", ch, diff)
		}
	}
}

func testContainer(t *testing.T) *frames.Container {
	t.Helper()
	c := frames.New(3, 2, palette.RGB{R: 255, G: 255, B: 255})
	for _, col := range []palette.RGB{{R: 0, G: 0, B: 0}, {R: 255, G: 0, B: 0}, {R: 51, G: 102, B: 153}} {
		f := make([]byte, 0, 18)
		for i := range 6 {
			if i == 4 {
				f = append(f, 255, 255, 255)
				continue
			}
			f = append(f, col.R, col.G, col.B)
		}
		if err := c.Push(f); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestGIFRoundTrip(t *testing.T) {
	c := testContainer(t)

	var buf bytes.Buffer
	if err := WriteGIF(&buf, c); err != nil {
		t.Fatalf("WriteGIF error = %v", err)
	}

	got, err := ReadGIF(&buf)
	if err != nil {
		t.Fatalf("ReadGIF error = %v", err)
	}
	if got.Width != c.Width || got.Height != c.Height || got.Background != c.Background {
		t.Errorf("ReadGIF = %dx%d bg %v, want %dx%d bg %v", got.Width, got.Height, got.Background, c.Width, c.Height, c.Background)
	}
	if got.Len() != c.Len() {
		t.Fatalf("ReadGIF frames = %d, want %d", got.Len(), c.Len())
	}
	for i := range c.Len() {
		if diff := cmp.Diff(c.Frame(i), got.Frame(i)); diff != "" {
			t.Errorf("frame %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestWriteGIFEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGIF(&buf, frames.New(1, 1, frames.White)); !errors.Is(err, frames.ErrNoFrames) {
		t.Errorf("WriteGIF(empty) error = %v, want ErrNoFrames", err)
	}
}

func TestPPMRoundTrip(t *testing.T) {
	b := bitmap.New(4, 3, bitmap.RGB)
	for i := range b.Pix {
		b.Pix[i] = byte(i * 5)
	}

	var buf bytes.Buffer
	if err := WritePPM(&buf, b); err != nil {
		t.Fatalf("WritePPM error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("P6 4 3 255\n")) {
		t.Errorf("PPM header = %q", buf.Bytes()[:12])
	}

	got, err := ReadPPM(&buf)
	if err != nil {
		t.Fatalf("ReadPPM error = %v", err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("PPM round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPPMErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"ascii", "P3 1 1 255\n0 0 0"},
		{"16 bit", "P6 1 1 65535\n\x00\x00\x00\x00\x00\x00"},
		{"truncated", "P6 2 2 255\n\x00\x00\x00"},
		{"zero size", "P6 0 2 255\n"},
		{"garbage", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPPM(bytes.NewReader([]byte(tt.data))); err == nil {
				t.Error("ReadPPM succeeded")
			}
		})
	}

	if err := WritePPM(&bytes.Buffer{}, bitmap.New(1, 1, bitmap.RGBA)); err == nil {
		t.Error("WritePPM accepted an RGBA bitmap")
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	rgba := bitmap.New(5, 4, bitmap.RGBA)
	for i := range rgba.Pix {
		rgba.Pix[i] = byte(i * 3)
	}
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 255
	}
	rgb, err := rgba.Convert(bitmap.RGB, Converter{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   bitmap.Bitmap
		want bitmap.Bitmap
	}{
		{"out.png", rgba, rgba},
		{"out.bmp", rgba, rgb},
		{"out.tiff", rgba, rgb},
		{"out.ppm", rgba, rgb},
		{"out.ppm", rgb, rgb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := Save(path, tt.in, 90); err != nil {
				t.Fatalf("Save error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Save/Load mismatch (-want +got):\n%s", diff)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("directory holds %d files, want 4 (no temporary leftovers)", len(entries))
	}
}

func TestSaveDropsAlpha(t *testing.T) {
	dir := t.TempDir()
	transparent := bitmap.Fill(8, 8, bitmap.RGBA, []byte{255, 255, 255, 0})
	for _, name := range []string{"a.jpg", "a.bmp", "a.tiff", "a.ppm", "a.gif"} {
		path := filepath.Join(dir, name)
		if err := Save(path, transparent, 100); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if got.Channels != bitmap.RGB {
			t.Errorf("%s: loaded %v, want 3 channels", name, got)
		}
		for i, v := range got.Pix {
			if v < 250 {
				t.Fatalf("%s: byte %d = %d, want about 255", name, i, v)
			}
		}
	}
}

func TestSaveLoadGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.gif")
	b := bitmap.Fill(3, 3, bitmap.RGB, []byte{204, 0, 51})
	if err := Save(path, b, 0); err != nil {
		t.Fatalf("Save error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("GIF Save/Load mismatch (-want +got):\n%s", diff)
	}

	c, err := LoadFrames(path)
	if err != nil {
		t.Fatalf("LoadFrames error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("LoadFrames frames = %d, want 1", c.Len())
	}
}

func TestSaveFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	c := testContainer(t)
	if err := SaveFrames(path, c); err != nil {
		t.Fatalf("SaveFrames error = %v", err)
	}
	got, err := LoadFrames(path)
	if err != nil {
		t.Fatalf("LoadFrames error = %v", err)
	}
	if got.Len() != 3 {
		t.Errorf("LoadFrames frames = %d, want 3", got.Len())
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	b := bitmap.New(1, 1, bitmap.RGB)
	if err := Save(filepath.Join(dir, "x.webp"), b, 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(webp) error = %v, want ErrUnsupportedFormat", err)
	}
	if err := Save(filepath.Join(dir, "x.xyz"), b, 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(xyz) error = %v, want ErrUnsupportedFormat", err)
	}
	if err := Save(filepath.Join(dir, "x.png"), bitmap.Bitmap{}, 0); !errors.Is(err, bitmap.ErrEmpty) {
		t.Errorf("Save(empty) error = %v, want ErrEmpty", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed saves left %d files behind", len(entries))
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
