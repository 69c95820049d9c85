// Package screenshot writes framebuffer captures to PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "2006-01-02_15-04-05.000"

// Capturer names and writes screenshots under a directory.
type Capturer struct {
	dir    string
	prefix string
	now    func() time.Time
}

// New creates a capturer writing <dir>/<prefix>_<timestamp>.png files.
func New(dir, prefix string) *Capturer {
	return &Capturer{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture would be written to.
func (c *Capturer) Filename() string {
	name := fmt.Sprintf("%s_%s.png", c.prefix, c.now().Format(timestampLayout))
	if c.dir != "" {
		name = filepath.Join(c.dir, name)
	}
	return name
}

// SavePixels writes bottom-up RGBA rows, as returned by glReadPixels, to a
// new PNG file and returns its path.
func (c *Capturer) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromBottomUp(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.Save(img)
}

// Save encodes img to a new PNG file and returns its path.
func (c *Capturer) Save(img image.Image) (string, error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := writePNG(file, img); err != nil {
		os.Remove(filename)
		return "", err
	}
	return filename, nil
}

// writePNG encodes img to w and closes it. A PNG is only complete once the
// close succeeds, so its error is reported too.
func writePNG(w io.WriteCloser, img image.Image) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing PNG: %w", cerr)
		}
	}()

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// FromBottomUp copies OpenGL-ordered RGBA pixels into a top-down image.
func FromBottomUp(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
