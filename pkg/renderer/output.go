package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an output file extension with no encoder
var ErrUnsupportedFormat = errors.New("renderer: unsupported image format")

// CheckFormat reports whether an image can be written to path
func CheckFormat(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".tif", ".tiff", ".bmp":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode writes img in the format named by ext (".png", ".tiff", ".tif" or ".bmp")
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// WriteImage saves the image to path, choosing the format by extension
func WriteImage(path string, img *Image) (err error) {
	ext := filepath.Ext(path)
	if err := CheckFormat(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := Encode(f, img.RGBA(), ext); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
