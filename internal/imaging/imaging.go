// Package imaging normalizes captured page rasters to exact target
// dimensions. Captures arrive at double density (device scale factor 2), so
// every image is resampled down to the configured pixel box and verified
// before a render run may report success.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/draw"
)

// ErrImageSize indicates an output image failed exact-size verification.
var ErrImageSize = errors.New("rendered image size mismatch")

// EnsureSize decodes the PNG at path and, when its pixel dimensions differ
// from width x height, resamples it to exactly that size and overwrites the
// file. Catmull-Rom interpolation keeps downscaled captures sharp.
func EnsureSize(path string, width, height int) error {
	f, err := os.Open(path) // #nosec G304 -- path is produced by the capture driver
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	img, err := png.Decode(f)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), closeErr)
	}

	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	out, err := os.Create(path) // #nosec G304 -- overwriting the capture in place
	if err != nil {
		return fmt.Errorf("rewriting %s: %w", filepath.Base(path), err)
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}

// VerifyDir re-opens every PNG in dir and fails if any image's pixel
// dimensions do not exactly equal width x height. This is a hard invariant
// of a finished render run, not a best-effort check.
func VerifyDir(dir string, width, height int) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		w, h, err := decodeSize(p)
		if err != nil {
			return err
		}
		if w != width || h != height {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d",
				ErrImageSize, filepath.Base(p), w, h, width, height)
		}
	}
	return nil
}

// decodeSize reads just the PNG header to get pixel dimensions.
func decodeSize(path string) (int, int, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the glob above
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}
