package atlas

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Inspect reads the header of an atlas image and derives its layout from the
// image size and the size of one cell. The image must be square and an exact
// multiple of cellPixels.
func Inspect(path string, cellPixels int) (Layout, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, "", fmt.Errorf("failed to open atlas %s: %w", path, err)
	}
	defer f.Close()
	return InspectReader(f, cellPixels)
}

// InspectReader is Inspect for an already open image stream.
func InspectReader(r io.Reader, cellPixels int) (Layout, string, error) {
	if cellPixels <= 0 {
		return Layout{}, "", fmt.Errorf("%w: cell pixels %d", ErrInvalidLayout, cellPixels)
	}
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Layout{}, "", fmt.Errorf("failed to decode atlas header: %w", err)
	}
	if cfg.Width != cfg.Height {
		return Layout{}, format, fmt.Errorf("%w: atlas is %dx%d, want square", ErrInvalidLayout, cfg.Width, cfg.Height)
	}
	if cfg.Width%cellPixels != 0 {
		return Layout{}, format, fmt.Errorf("%w: width %d is not a multiple of %d", ErrInvalidLayout, cfg.Width, cellPixels)
	}
	l := Layout{RowCapacity: cfg.Width / cellPixels, CellPixels: cellPixels}
	return l, format, l.Validate()
}
