package emath

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// A FloatGrid is a grid of floats, one per pixel. The diagnostics use it
// to hold per-pixel change maps.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (fg *FloatGrid) Set(x, y int, v float64) { fg.values[fg.stride*y+x] = v }
func (fg *FloatGrid) Get(x, y int) float64    { return fg.values[fg.stride*y+x] }
func (fg *FloatGrid) Dx() int                 { return fg.stride }
func (fg *FloatGrid) Dy() int                 { return len(fg.values) / fg.stride }

// MinMax returns the smallest and largest values in the grid.
func (fg *FloatGrid) MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min
	for i := 0; i < len(fg.values); i++ {
		if fg.values[i] > max {
			max = fg.values[i]
		}
		if fg.values[i] < min {
			min = fg.values[i]
		}
	}
	return min, max
}

func (fg *FloatGrid) Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// Image renders the grid as grayscale, stretched over the range of values
// in the grid, and gamma scaled so the gray looks normal to human vision.
// A flat grid renders black.
func (fg *FloatGrid) Image() *image.RGBA64 {
	min, max := fg.MinMax()
	img := image.NewRGBA64(image.Rectangle{Max: image.Point{fg.Dx(), fg.Dy()}})
	for x := 0; x < fg.Dx(); x++ {
		for y := 0; y < fg.Dy(); y++ {
			gray := 0.0
			if max > min {
				gray = GammaExpand_F64((fg.Get(x, y) - min) / (max - min))
			}
			v := uint16(math.Round(gray * 65535.0))
			img.Set(x, y, color.RGBA64{v, v, v, 0xFFFF})
		}
	}
	return img
}

// ToImg saves the grid as a grayscale PNG with a title drawn on it.
func (fg *FloatGrid) ToImg(title, filename string) error {
	dc := gg.NewContextForImage(fg.Image())
	dc.SetRGB(1, 0, 0)
	dc.DrawString(title, 10, 20)
	return dc.SavePNG(filename)
}
