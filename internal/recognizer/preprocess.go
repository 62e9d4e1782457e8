package recognizer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxUploadDimension caps the longer image side before upload. Recipe cards
// photographed at phone resolution recognize just as well downscaled, and the
// smaller payload keeps recognition latency bounded.
const MaxUploadDimension = 1600

// PrepareImage normalizes an image for upload: downscale to the dimension
// cap, convert to grayscale, encode as PNG.
func PrepareImage(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > MaxUploadDimension || b.Dy() > MaxUploadDimension {
		img = imaging.Fit(img, MaxUploadDimension, MaxUploadDimension, imaging.Lanczos)
	}
	img = imaging.Grayscale(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding image for recognition: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadImage reads an image file from disk, applying EXIF auto-orientation,
// and prepares it for upload.
func LoadImage(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	return PrepareImage(img)
}
