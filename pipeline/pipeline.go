// Package pipeline turns command-line operation tokens into an ordered list
// of bitmap transforms.
package pipeline

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"imgtool/bitmap"
	"imgtool/codec"
)

var (
	ErrUnknownOp  = errors.New("unknown operation")
	ErrInvalidArg = errors.New("invalid operation argument")
	ErrTooSmall   = errors.New("image too small")
)

// Op is one parsed operation. Arg keeps the raw argument for logging.
type Op struct {
	Name string
	Arg  string

	apply func(bitmap.Bitmap) (bitmap.Bitmap, error)
}

func (o Op) String() string {
	if o.Arg == "" {
		return o.Name
	}
	return o.Name + "=" + o.Arg
}

// Apply runs the operation on b. Empty bitmaps are refused.
func (o Op) Apply(b bitmap.Bitmap) (bitmap.Bitmap, error) {
	if b.Empty() {
		return bitmap.Bitmap{}, fmt.Errorf("%s: %w", o, bitmap.ErrEmpty)
	}
	out, err := o.apply(b)
	if err != nil {
		return bitmap.Bitmap{}, fmt.Errorf("%s: %w", o, err)
	}
	return out, nil
}

type builder func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error)

func plain(f func(bitmap.Bitmap) bitmap.Bitmap) builder {
	return func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		if arg != "" {
			return nil, fmt.Errorf("%w: takes no argument", ErrInvalidArg)
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			return f(b), nil
		}, nil
	}
}

var ops = map[string]builder{
	"negative":             plain(bitmap.Bitmap.Negative),
	"bw":                   plain(bitmap.Bitmap.BlackAndWhite),
	"greyscale":            plain(bitmap.Bitmap.Greyscale),
	"flip-h":               plain(bitmap.Bitmap.FlipHorizontal),
	"flip-v":               plain(bitmap.Bitmap.FlipVertical),
	"rotate":               plain(bitmap.Bitmap.Rotate90),
	"scale-up":             plain(bitmap.Bitmap.ScaleUp2x),
	"cut":                  plain(bitmap.Bitmap.Crop),
	"white-to-transparent": plain(bitmap.Bitmap.WhiteToTransparent),
	"dump":                 dump,
	"scale-down": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		if arg != "" {
			return nil, fmt.Errorf("%w: takes no argument", ErrInvalidArg)
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			if b.Width < 2 || b.Height < 2 {
				return bitmap.Bitmap{}, fmt.Errorf("%w: %s", ErrTooSmall, b)
			}
			return b.ScaleDown2x(), nil
		}, nil
	},
	"threshold": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		n, err := intArg(arg, 0, 255)
		if err != nil {
			return nil, err
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			return b.ThresholdToTransparent(uint8(n)), nil
		}, nil
	},
	"compress": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		q, err := intArg(arg, 0, 1<<16)
		if err != nil {
			return nil, err
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			return codec.Compress(b, q)
		}, nil
	},
	"resize-width": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		n, err := intArg(arg, 1, 1<<16)
		if err != nil {
			return nil, err
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			return b.ResizeWidth(n), nil
		}, nil
	},
	"resize-height": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		n, err := intArg(arg, 1, 1<<16)
		if err != nil {
			return nil, err
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			return b.ResizeHeight(n), nil
		}, nil
	},
	"resize": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil || f <= 0 || f > 64 {
			return nil, fmt.Errorf("%w: scale factor %q", ErrInvalidArg, arg)
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			out := b.ResizeScale(f)
			if out.Empty() {
				return bitmap.Bitmap{}, fmt.Errorf("%w: %s scaled by %g", ErrTooSmall, b, f)
			}
			return out, nil
		}, nil
	},
	"channels": func(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
		n, err := intArg(arg, bitmap.Grey, bitmap.RGBA)
		if err != nil {
			return nil, err
		}
		return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
			return b.Convert(n, codec.Converter{})
		}, nil
	},
}

func intArg(arg string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArg, arg)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidArg, n, lo, hi)
	}
	return n, nil
}

// Names lists every known operation, for help output.
func Names() []string {
	return slices.Sorted(maps.Keys(ops))
}

// ParseOp parses a single "name" or "name=arg" token.
func ParseOp(token string) (Op, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(token), "=")
	build, ok := ops[name]
	if !ok {
		return Op{}, fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
	apply, err := build(arg)
	if err != nil {
		return Op{}, fmt.Errorf("%s: %w", name, err)
	}
	return Op{Name: name, Arg: arg, apply: apply}, nil
}

type Pipeline []Op

// Parse builds a pipeline from tokens, keeping their order.
func Parse(tokens []string) (Pipeline, error) {
	p := make(Pipeline, 0, len(tokens))
	for _, token := range tokens {
		op, err := ParseOp(token)
		if err != nil {
			return nil, err
		}
		p = append(p, op)
	}
	return p, nil
}

// Apply runs every operation in order and stops at the first failure.
func (p Pipeline) Apply(b bitmap.Bitmap) (bitmap.Bitmap, error) {
	if b.Empty() {
		return bitmap.Bitmap{}, bitmap.ErrEmpty
	}
	var err error
	for _, op := range p {
		if b, err = op.Apply(b); err != nil {
			return bitmap.Bitmap{}, err
		}
	}
	return b, nil
}

func (p Pipeline) String() string {
	names := make([]string, len(p))
	for i, op := range p {
		names[i] = op.String()
	}
	return strings.Join(names, ",")
}
