package photofix

// A few helper routines for golang's image libraries

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// WriteImage picks an encoder from the filename's extension.
func WriteImage(img image.Image, filename string, jpegQuality int) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		err = png.Encode(writer, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: jpegQuality})
	case ".tif", ".tiff":
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		err = bmp.Encode(writer, img)
	default:
		err = fmt.Errorf("extension '%s': %w", ext, ErrUnknownFormat)
	}

	if err != nil {
		return fmt.Errorf("encoding '%s': %w", filename, err)
	}
	return nil
}

func WritePNG(img image.Image, filename string) error {
	return WriteImage(img, filename, 0)
}

// WriteCompare saves a before/after sheet: the two images side by side,
// each with a caption above it.
func WriteCompare(before, after image.Image, caption, filename string) error {
	const margin = 20
	w, h := before.Bounds().Dx(), before.Bounds().Dy()

	dc := gg.NewContext(2*w, h+margin)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(before, 0, margin)
	dc.DrawImage(after, w, margin)

	dc.SetRGB(0, 0, 0)
	dc.DrawString("before", 4, margin-6)
	dc.DrawString(caption, float64(w)+4, margin-6)

	return dc.SavePNG(filename)
}
