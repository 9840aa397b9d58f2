package main

import (
	"log/slog"
	"os"

	"imgtool/inspect"
	"imgtool/palette"
	"imgtool/parallel"
	"imgtool/process"

	"github.com/alecthomas/kong"
)

type CLI struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Workers  int    `help:"Number of images processed at once, 0 for one per CPU" default:"0"`

	Process process.CLICmd `cmd:"" help:"Apply operations to images and write the results"`
	Info    inspect.CLICmd `cmd:"" help:"Describe images: size, layout, statistics and dominant colours"`
	Palette palette.CLICmd `cmd:"" help:"Export the fixed 256-colour palette"`
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("imgtool"),
		kong.Description("Raster image toolkit: apply ordered operations to a batch of images."),
		kong.UsageOnError(),
		process.Vars(),
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		parser.FatalIfErrorf(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(cli.Workers)
	slog.Debug("starting", "command", kctx.Command(), "workers", pool.Workers)

	kctx.FatalIfErrorf(kctx.Run(pool.Do, pool.Wait))
}
