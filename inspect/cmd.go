package inspect

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"imgtool/bitmap"
	"imgtool/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Inputs []string `arg:"" help:"Images to describe"`
	Pixels bool     `help:"Also dump every pixel value" short:"D"`
	Colors int      `help:"Number of dominant colours to report, 0 to skip" default:"4"`

	Out io.Writer `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Colors < 0 {
		return fmt.Errorf("invalid colour count: %d", c.Colors)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	type result struct {
		report Report
		bitmap bitmap.Bitmap
		ok     bool
	}
	results := make([]result, len(c.Inputs))

	var errCount atomic.Uint64
	for i, path := range c.Inputs {
		worker(func() {
			report, b, err := Describe(path, c.Colors)
			if err != nil {
				errCount.Add(1)
				slog.Error("could not describe image", "file", path, "error", err)
				return
			}
			results[i] = result{report: report, bitmap: b, ok: true}
		})
	}

	wait(true)

	for _, r := range results {
		if !r.ok {
			continue
		}
		if _, err := r.report.WriteTo(c.Out); err != nil {
			return fmt.Errorf("could not write report: %w", err)
		}
		if c.Pixels {
			if _, err := DumpPixels(c.Out, r.bitmap); err != nil {
				return fmt.Errorf("could not write pixels: %w", err)
			}
		}
	}

	if errors := errCount.Load(); errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}
