package frames

import (
	"errors"
	"testing"

	"imgtool/bitmap"
	"imgtool/palette"

	"github.com/google/go-cmp/cmp"
)

type dropAlpha struct{}

func (dropAlpha) Convert(pix []byte, width, height, src, dst int) ([]byte, error) {
	if src != bitmap.RGBA || dst != bitmap.RGB {
		return nil, errors.New("unsupported")
	}
	out := make([]byte, 0, width*height*dst)
	for i := 0; i < len(pix); i += src {
		out = append(out, pix[i:i+dst]...)
	}
	return out, nil
}

func solid(w, h int, v byte) []byte {
	b := make([]byte, w*h*3)
	for i := range b {
		b[i] = v
	}
	return b
}

func TestPushOne(t *testing.T) {
	c := New(2, 2, palette.RGB{})
	if c.Cap() != 1 {
		t.Errorf("initial Cap() = %d, want 1", c.Cap())
	}
	if err := c.Push(solid(2, 2, 7)); err != nil {
		t.Fatalf("Push error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestPushGrowsAndKeepsFrames(t *testing.T) {
	c := New(3, 2, palette.RGB{})
	for i := range 5 {
		if err := c.Push(solid(3, 2, byte(i*10))); err != nil {
			t.Fatalf("Push(%d) error = %v", i, err)
		}
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	if c.Cap() != 8 {
		t.Errorf("Cap() = %d, want 8", c.Cap())
	}
	for i := range 5 {
		if diff := cmp.Diff(solid(3, 2, byte(i*10)), c.Frame(i)); diff != "" {
			t.Errorf("frame %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestPushCopies(t *testing.T) {
	c := New(1, 1, palette.RGB{})
	buf := []byte{1, 2, 3}
	if err := c.Push(buf); err != nil {
		t.Fatalf("Push error = %v", err)
	}
	buf[0] = 99
	if got := c.Frame(0)[0]; got != 1 {
		t.Errorf("frame byte = %d after caller mutation, want 1", got)
	}
}

func TestPushRejectsWrongSize(t *testing.T) {
	c := New(2, 2, palette.RGB{})
	if err := c.Push(make([]byte, 11)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("Push(short) = %v, want ErrFrameSize", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after rejected push, want 0", c.Len())
	}
}

func TestIndexed(t *testing.T) {
	c := New(2, 1, palette.RGB{})
	if err := c.Push([]byte{0, 0, 0, 255, 255, 255}); err != nil {
		t.Fatal(err)
	}
	if err := c.Push([]byte{51, 102, 153, 10, 10, 10}); err != nil {
		t.Fatal(err)
	}
	want := [][]uint8{
		{0, 15},
		{uint8(palette.CubeIndex(1, 2, 3)), palette.GreyOffset},
	}
	if diff := cmp.Diff(want, c.Indexed()); diff != "" {
		t.Errorf("Indexed mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBitmaps(t *testing.T) {
	rgb := bitmap.Fill(2, 1, bitmap.RGB, []byte{1, 2, 3})
	rgba := bitmap.Fill(2, 1, bitmap.RGBA, []byte{4, 5, 6, 0})

	c, err := FromBitmaps([]bitmap.Bitmap{rgb, rgba}, dropAlpha{})
	if err != nil {
		t.Fatalf("FromBitmaps error = %v", err)
	}
	if c.Width != 2 || c.Height != 1 || c.Background != White {
		t.Errorf("container = %dx%d bg %v, want 2x1 bg %v", c.Width, c.Height, c.Background, White)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if diff := cmp.Diff([]byte{4, 5, 6, 4, 5, 6}, c.Frame(1)); diff != "" {
		t.Errorf("flattened frame mismatch (-want +got):\n%s", diff)
	}

	back := c.Bitmaps()
	if diff := cmp.Diff(rgb, back[0]); diff != "" {
		t.Errorf("Bitmaps()[0] mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBitmapsErrors(t *testing.T) {
	rgb := bitmap.New(2, 2, bitmap.RGB)
	tests := []struct {
		name string
		in   []bitmap.Bitmap
		want error
	}{
		{"none", nil, ErrNoFrames},
		{"size mismatch", []bitmap.Bitmap{rgb, bitmap.New(3, 2, bitmap.RGB)}, ErrFrameSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromBitmaps(tt.in, dropAlpha{}); !errors.Is(err, tt.want) {
				t.Errorf("FromBitmaps error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := FromBitmaps([]bitmap.Bitmap{bitmap.New(2, 2, bitmap.Grey)}, dropAlpha{}); err == nil {
		t.Error("FromBitmaps accepted a grey bitmap")
	}
}
