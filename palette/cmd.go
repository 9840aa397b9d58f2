package palette

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	From   string    `help:"Read this RIFF palette instead of the built-in table" type:"existingfile"`
	Pal    string    `help:"Write the palette as a RIFF PAL file" group:"output"`
	Swatch string    `help:"Write the palette as a PNG swatch" group:"output"`
	Tile   int       `help:"Swatch tile size in pixels" default:"16" group:"output"`
	List   bool      `help:"Print every entry as index and hex colour" group:"output"`
	Out    io.Writer `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Pal == "" && c.Swatch == "" && !c.List {
		return fmt.Errorf("nothing to do: give --pal, --swatch or --list")
	}
	if c.Tile < 1 {
		return fmt.Errorf("invalid tile size: %d", c.Tile)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return nil
}

func (c *CLICmd) Run() error {
	pal, err := c.source()
	if err != nil {
		return err
	}

	if c.Pal != "" {
		if err := writeFile(c.Pal, pal.WriteRIFF); err != nil {
			return err
		}
		slog.Info("wrote palette", "file", c.Pal, "colors", len(pal))
	}

	if c.Swatch != "" {
		err := writeFile(c.Swatch, func(w io.Writer) (int64, error) {
			return 0, png.Encode(w, pal.Swatch(c.Tile))
		})
		if err != nil {
			return err
		}
		slog.Info("wrote swatch", "file", c.Swatch, "colors", len(pal))
	}

	if c.List {
		for i, col := range pal {
			if _, err := fmt.Fprintf(c.Out, "%3d %s\n", i, col.Hex()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *CLICmd) source() (Palette, error) {
	if c.From == "" {
		return Default, nil
	}

	f, err := os.Open(c.From)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", c.From, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close palette", "file", c.From, "error", closeErr)
		}
	}()

	var pal Palette
	if _, err := pal.ReadRIFF(f); err != nil {
		return nil, fmt.Errorf("could not read palette %q: %w", c.From, err)
	}
	if len(pal) == 0 || len(pal) > Size {
		return nil, fmt.Errorf("palette %q has %d colors, want 1 to %d", c.From, len(pal), Size)
	}
	return pal, nil
}

func writeFile(path string, write func(io.Writer) (int64, error)) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close %q: %w", path, closeErr)
		}
	}()

	if _, err = write(f); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return nil
}
