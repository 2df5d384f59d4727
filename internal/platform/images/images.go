// Package images resizes and stores uploaded recipe images.
package images

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// maxWidth is the width images are resized to before saving; height scales
// proportionally.
const maxWidth = 800

// Processor saves uploaded images into a directory served statically.
type Processor struct {
	dir string
}

// NewProcessor creates a Processor writing into dir.
func NewProcessor(dir string) *Processor {
	return &Processor{dir: dir}
}

// ContentHash returns a short content-derived name for an image, so repeated
// uploads of the same bytes reuse one file.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// Save decodes the image, resizes it to at most maxWidth wide, and writes it
// under a content-hash filename. Returns the saved path relative to the
// working directory. Only JPEG and PNG are supported.
func (p *Processor) Save(imageData []byte, extension string) (string, error) {
	img, _, err := image.Decode(strings.NewReader(string(imageData)))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	imagePath := filepath.Join(p.dir, ContentHash(imageData)+extension)
	out, err := os.Create(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	switch extension {
	case ".jpeg", ".jpg":
		err = jpeg.Encode(out, img, nil)
	case ".png":
		err = png.Encode(out, img)
	default:
		return "", fmt.Errorf("unsupported image format: %s", extension)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return imagePath, nil
}
