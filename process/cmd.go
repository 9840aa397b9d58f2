package process

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"imgtool/bitmap"
	"imgtool/codec"
	"imgtool/frames"
	"imgtool/parallel"
	"imgtool/pipeline"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Inputs    []string `arg:"" help:"Images to process, in order"`
	Op        []string `help:"Operation to apply, repeatable and applied in the given order. One of: ${ops}" short:"x" sep:"none" placeholder:"NAME[=ARG]"`
	Output    string   `help:"Output file; its extension picks the format. With several inputs a three digit counter is inserted before the extension." short:"o" default:"output.png" group:"output"`
	InPlace   bool     `help:"Write every result back to its input file" short:"I" group:"output"`
	NoOutput  bool     `help:"Run the operations without writing anything" short:"n" group:"output"`
	Overwrite bool     `help:"Replace existing output files" default:"true" negatable:"" group:"output"`
	Quality   int      `help:"JPEG output quality, clamped to 1-100" short:"q" default:"100" group:"output"`
	FromGIF   bool     `help:"Use every frame of the first input GIF as the inputs" name:"from-gif" group:"gif"`
	ToGIF     bool     `help:"Write every result as one frame of the animated GIF given by --output" name:"to-gif" group:"gif"`
	Open      bool     `help:"Open the first output with the system viewer when done"`

	Pipeline pipeline.Pipeline `kong:"-"`
}

// Vars feeds the operation names into the help text.
func Vars() kong.Vars {
	return kong.Vars{"ops": strings.Join(pipeline.Names(), ", ")}
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Pipeline, err = pipeline.Parse(c.Op); err != nil {
		return fmt.Errorf("invalid operation: %w", err)
	}

	switch {
	case len(c.Inputs) == 0:
		return fmt.Errorf("no input images given")
	case c.InPlace && c.NoOutput:
		return fmt.Errorf("--in-place and --no-output are exclusive")
	case c.InPlace && (c.ToGIF || c.FromGIF):
		return fmt.Errorf("--in-place cannot be combined with GIF frame options")
	case c.ToGIF && c.NoOutput:
		return fmt.Errorf("--to-gif needs an output file")
	}

	if c.FromGIF {
		if f, err := codec.FormatOf(c.Inputs[0]); err != nil || f != codec.FormatGIF {
			return fmt.Errorf("--from-gif needs a GIF input, got %q", c.Inputs[0])
		}
	}

	if !c.InPlace && !c.NoOutput {
		format, err := codec.FormatOf(c.Output)
		if err != nil {
			return fmt.Errorf("invalid output %q: %w", c.Output, err)
		}
		if c.ToGIF && format != codec.FormatGIF {
			return fmt.Errorf("--to-gif needs a .gif output, got %q", c.Output)
		}
	}

	return nil
}

// item is one unit of work: a file to load, or a bitmap already decoded
// from a GIF frame.
type item struct {
	index  int
	source string
	bitmap bitmap.Bitmap
}

func (c *CLICmd) items() ([]item, error) {
	if !c.FromGIF {
		items := make([]item, len(c.Inputs))
		for i, in := range c.Inputs {
			items[i] = item{index: i, source: in}
		}
		return items, nil
	}

	container, err := codec.LoadFrames(c.Inputs[0])
	if err != nil {
		return nil, err
	}
	bitmaps := container.Bitmaps()
	items := make([]item, len(bitmaps))
	for i, b := range bitmaps {
		items[i] = item{index: i, source: fmt.Sprintf("%s#%d", c.Inputs[0], i), bitmap: b}
	}
	slog.Info("expanded GIF", "file", c.Inputs[0], "frames", len(items))
	return items, nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	items, err := c.items()
	if err != nil {
		return fmt.Errorf("could not read input frames: %w", err)
	}

	slog.Debug("running", "inputs", len(items), "ops", c.Pipeline.String())

	results := make([]bitmap.Bitmap, len(items))
	var processedCount, errCount atomic.Uint64
	for _, it := range items {
		worker(func(it item) func() {
			return func() {
				logger := slog.Default().With("file", it.source)

				b := it.bitmap
				if b.Empty() {
					loaded, err := codec.Load(it.source)
					if err != nil {
						errCount.Add(1)
						logger.Error("could not load image", "error", err)
						return
					}
					b = loaded
				}
				logger.Debug("loaded", "bitmap", b.String())

				out, err := c.Pipeline.Apply(b)
				if err != nil {
					errCount.Add(1)
					logger.Error("could not process image", "error", err)
					return
				}

				if c.NoOutput || c.ToGIF {
					results[it.index] = out
					processedCount.Add(1)
					return
				}

				dest := c.destination(it, len(items))
				if err := write(logger, dest, out, c.Quality, c.Overwrite); err != nil {
					errCount.Add(1)
					logger.Error("could not save image", "dest", dest, "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(it))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if c.ToGIF {
		if err := c.writeGIF(results); err != nil {
			return err
		}
	}

	if c.Open && !c.NoOutput && processed > 0 {
		first := c.Output
		if !c.ToGIF {
			first = c.destination(items[0], len(items))
		}
		openViewer(first)
	}

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) writeGIF(results []bitmap.Bitmap) error {
	results = slices.DeleteFunc(results, bitmap.Bitmap.Empty)
	for i, b := range results {
		if b.Channels < bitmap.RGB {
			results[i] = codec.ToRGB(b)
		}
	}
	container, err := frames.FromBitmaps(results, codec.Converter{})
	if err != nil {
		return fmt.Errorf("could not build GIF frames: %w", err)
	}
	if err := checkDest(c.Output, c.Overwrite); err != nil {
		return err
	}
	if err := codec.SaveFrames(c.Output, container); err != nil {
		return fmt.Errorf("could not write GIF %q: %w", c.Output, err)
	}
	slog.Info("wrote GIF", "file", c.Output, "frames", container.Len())
	return nil
}

// destination names the output of it within a batch of n items.
func (c *CLICmd) destination(it item, n int) string {
	switch {
	case c.InPlace:
		return it.source
	case n > 1:
		return numbered(c.Output, it.index)
	default:
		return c.Output
	}
}
