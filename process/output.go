package process

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"imgtool/bitmap"
	"imgtool/codec"
)

// numbered inserts a three digit counter before the extension of path:
// out.png becomes out000.png.
func numbered(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s%03d%s", path[:len(path)-len(ext)], n, ext)
}

func write(logger *slog.Logger, dest string, b bitmap.Bitmap, quality int, overwrite bool) error {
	if err := checkDest(dest, overwrite); err != nil {
		return err
	}
	logger.Info("writing", "dest", dest, "bitmap", b.String())
	return codec.Save(dest, b, quality)
}

// checkDest refuses an existing destination unless overwrite is set, and
// anything that is not a regular file in any case.
func checkDest(dest string, overwrite bool) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot write over non-regular file %q: %s", dest, info.Mode().String())
	}
	if !overwrite {
		return fmt.Errorf("destination file already exists: %q", dest)
	}
	return nil
}

func viewerCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

func openViewer(path string) {
	cmd := viewerCommand(path)
	slog.Info("opening", "file", path, "viewer", cmd.Path)
	if err := cmd.Start(); err != nil {
		slog.Error("could not open viewer", "file", path, "error", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Warn("viewer exited", "file", path, "error", err)
		}
	}()
}
