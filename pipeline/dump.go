package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"imgtool/bitmap"
	"imgtool/inspect"
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stdout
)

// SetOutput sends the "dump" operation to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	prev := output
	output = w
	return prev
}

// dump prints the pixels the pipeline holds at this point and passes the
// bitmap on unchanged. Each dump is written in one call so concurrent items
// do not interleave.
func dump(arg string) (func(bitmap.Bitmap) (bitmap.Bitmap, error), error) {
	if arg != "" {
		return nil, fmt.Errorf("%w: takes no argument", ErrInvalidArg)
	}
	return func(b bitmap.Bitmap) (bitmap.Bitmap, error) {
		var buf bytes.Buffer
		if _, err := inspect.DumpPixels(&buf, b); err != nil {
			return bitmap.Bitmap{}, err
		}

		outputMu.Lock()
		defer outputMu.Unlock()
		if _, err := output.Write(buf.Bytes()); err != nil {
			return bitmap.Bitmap{}, fmt.Errorf("could not write dump: %w", err)
		}
		return b, nil
	}, nil
}
