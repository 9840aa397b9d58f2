// Package inspect describes image files: size, layout, per-channel
// statistics and the colours that dominate them.
package inspect

import (
	"fmt"
	"io"
	"math"
	"os"

	"imgtool/bitmap"
	"imgtool/codec"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

type ChannelStats struct {
	Mean   float64
	StdDev float64
}

type Dominant struct {
	Hex    string
	Weight float64
}

type Report struct {
	File     string
	Size     int64
	Width    int
	Height   int
	Channels int
	Stats    []ChannelStats
	Dominant []Dominant
}

// Describe loads path and reports on it. colors caps the number of
// dominant colours; zero skips the search.
func Describe(path string, colors int) (Report, bitmap.Bitmap, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, bitmap.Bitmap{}, fmt.Errorf("cannot stat %q: %w", path, err)
	}
	b, err := codec.Load(path)
	if err != nil {
		return Report{}, bitmap.Bitmap{}, err
	}

	r := Report{
		File:     path,
		Size:     info.Size(),
		Width:    b.Width,
		Height:   b.Height,
		Channels: b.Channels,
		Stats:    Stats(b),
	}
	if colors > 0 {
		r.Dominant = DominantColors(b, colors)
	}
	return r, b, nil
}

// Stats returns the mean and standard deviation of every channel.
func Stats(b bitmap.Bitmap) []ChannelStats {
	n := b.Width * b.Height
	if b.Empty() {
		return nil
	}

	values := make([]float64, n)
	out := make([]ChannelStats, b.Channels)
	for c := range b.Channels {
		for i := range n {
			values[i] = float64(b.Pix[i*b.Channels+c])
		}
		mean, std := stat.MeanStdDev(values, nil)
		if n == 1 || math.IsNaN(std) {
			std = 0
		}
		out[c] = ChannelStats{Mean: mean, StdDev: std}
	}
	return out
}

// DominantColors finds up to k colours weighted by how much of the image
// they cover, heaviest first.
func DominantColors(b bitmap.Bitmap, k int) []Dominant {
	if b.Empty() {
		return nil
	}
	found := dominantcolor.FindWeight(codec.ToImage(b), k)
	out := make([]Dominant, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, Dominant{Hex: col.Clamped().Hex(), Weight: c.Weight})
	}
	return out
}

func (r Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintf(cw, "File Name:\t'%s'\n", r.File)
	fmt.Fprintf(cw, "File Size:\t%dKb\t (%dBytes)\n", r.Size>>10, r.Size)
	fmt.Fprintf(cw, "Image Width:\t%d px\n", r.Width)
	fmt.Fprintf(cw, "Image Height:\t%d px\n", r.Height)
	fmt.Fprintf(cw, "Image Channels:\t%d\n", r.Channels)
	for i, s := range r.Stats {
		fmt.Fprintf(cw, "Channel %d:\tmean %.2f\tstddev %.2f\n", i, s.Mean, s.StdDev)
	}
	for _, d := range r.Dominant {
		fmt.Fprintf(cw, "Dominant:\t%s\t%.1f%%\n", d.Hex, d.Weight*100)
	}
	return cw.n, cw.err
}

// DumpPixels prints every pixel as a (c0-c1-...) tuple, one row per line.
func DumpPixels(w io.Writer, b bitmap.Bitmap) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintf(cw, "Width: %d, Height: %d, Channels: %d\n", b.Width, b.Height, b.Channels)
	for y := range b.Height {
		for x := range b.Width {
			p := b.Pixel(x, y)
			fmt.Fprintf(cw, "(%d", p[0])
			for _, v := range p[1:] {
				fmt.Fprintf(cw, "-%d", v)
			}
			fmt.Fprint(cw, ") ")
		}
		fmt.Fprintln(cw)
	}
	return cw.n, cw.err
}

// countingWriter keeps the first write error and drops everything after it.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
