// Package pixbuf holds the pixel buffer that every filter reads and writes:
// a dense row-major grid of non-premultiplied RGBA bytes.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Channel offsets within a pixel.
const (
	R = 0
	G = 1
	B = 2
	A = 3
)

var ErrBadDimensions = errors.New("pixel buffer dimensions do not match its length")

// A Buffer is owned by whoever loaded the image; filters borrow it and
// write in place.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*4
}

// Index is the offset of channel c of pixel (x,y) in a buffer of the given
// width. It does no bounds checking; callers keep (x,y) inside the image.
func Index(x, y, width, c int) int {
	return (y*width+x)*4 + c
}

func New(w, h int) *Buffer {
	return &Buffer{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// Wrap makes a Buffer around pix without copying it.
func Wrap(w, h int, pix []byte) (*Buffer, error) {
	b := &Buffer{Width: w, Height: h, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the length invariant. A 0x0 buffer with no bytes is
// valid; filters do nothing to it.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer: %w", ErrBadDimensions)
	}
	if b.Width < 0 || b.Height < 0 || len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("%dx%d with %d bytes: %w", b.Width, b.Height, len(b.Pix), ErrBadDimensions)
	}
	return nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer[%dx%d]", b.Width, b.Height)
}

// At returns the four samples of pixel (x,y).
func (b *Buffer) At(x, y int) color.NRGBA {
	i := Index(x, y, b.Width, 0)
	return color.NRGBA{b.Pix[i+R], b.Pix[i+G], b.Pix[i+B], b.Pix[i+A]}
}

func (b *Buffer) Set(x, y int, c color.NRGBA) {
	i := Index(x, y, b.Width, 0)
	b.Pix[i+R], b.Pix[i+G], b.Pix[i+B], b.Pix[i+A] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i+R], b.Pix[i+G], b.Pix[i+B], b.Pix[i+A] = c.R, c.G, c.B, c.A
	}
}

// Clone is a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]byte, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// FromImage converts any decoded image into a new Buffer. The image is
// translated so its top-left pixel lands at (0,0).
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty image %s: %w", bounds, ErrBadDimensions)
	}

	dst := image.NewNRGBA(image.Rectangle{Max: image.Point{bounds.Dx(), bounds.Dy()}})
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	return &Buffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: dst.Pix}, nil
}

// Image returns an image.NRGBA that shares the buffer's pixels, for
// handing to encoders.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
