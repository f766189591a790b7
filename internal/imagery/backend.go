// Package imagery wraps the bitmap operations the pipeline needs: reading
// pixel dimensions from image headers and producing bounded JPEG
// derivatives. TIFF, JPEG, and PNG sources are supported.
package imagery

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff"
)

// Backend performs decode, resize, and encode operations on source
// photographs. Safe for concurrent use.
type Backend struct {
	quality int
}

// NewBackend builds a Backend encoding JPEG output at the given quality.
func NewBackend(quality int) *Backend {
	return &Backend{quality: quality}
}

// Dimensions reads the pixel dimensions from an image file header without
// decoding the full bitmap.
func (b *Backend) Dimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return cfg.Width, cfg.Height, nil
}

// DeriveJPEG loads the source image, scales it down preserving aspect
// ratio so the longer edge is at most bound pixels, and writes a JPEG to
// dst. Sources already within the bound are encoded at their original
// dimensions; the backend never upscales.
func (b *Backend) DeriveJPEG(src, dst string, bound int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}

	// Fit returns the original when it already fits the bounding box.
	img = imaging.Fit(img, bound, bound, imaging.Lanczos)

	if err := imaging.Save(img, dst, imaging.JPEGQuality(b.quality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", dst, err)
	}
	return nil
}
