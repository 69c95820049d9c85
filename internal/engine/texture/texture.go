// Package texture decodes texture images into RGBA pixel data for upload.
package texture

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when no registered decoder accepts the data.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Image is decoded RGBA pixel data plus the detected source format.
type Image struct {
	*image.RGBA
	Format string
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.Rect.Dx() }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.Rect.Dy() }

// Load decodes the image file at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode reads any registered image format and converts it to tightly packed
// RGBA with the origin at the top-left.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedImage
		}
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	return &Image{RGBA: toRGBA(src), Format: format}, nil
}

// toRGBA returns src as an *image.RGBA whose bounds start at (0, 0).
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
