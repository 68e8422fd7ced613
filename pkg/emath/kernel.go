package emath

// Small convolution kernels, used by the neighbourhood filters

import (
	"fmt"

	"golang.org/x/image/math/f64"
)

// Mat3 is a row-major 3x3 matrix; a 3x3 kernel is written as one.
type Mat3 f64.Mat3

// A Kernel is a square of weights centered on the pixel being computed,
// (2*Radius+1) on a side, stored row-major. The weighted sum is divided
// by Divisor.
type Kernel struct {
	Radius  int
	Weights []float64
	Divisor float64
}

var (
	// SharpenKernel is a discrete Laplacian sharpen. The weights sum to 1,
	// so flat regions come through untouched.
	SharpenKernel = NewKernel3(Mat3{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}, 1)
)

// NewKernel3 wraps a 3x3 matrix as a Kernel.
func NewKernel3(m Mat3, divisor float64) Kernel {
	w := make([]float64, 9)
	copy(w, m[:])
	return Kernel{Radius: 1, Weights: w, Divisor: divisor}
}

// DistanceKernel builds the unsharp-mask blur kernel: each tap at offset
// (dx,dy) weighs 1/((dx*dx+dy*dy)*radius + 1), so the center tap is 1 and
// weights fall off with distance. Divisor is the sum of the weights.
func DistanceKernel(radius int) Kernel {
	k := Kernel{Radius: radius, Weights: make([]float64, 0, (2*radius+1)*(2*radius+1))}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			w := 1.0 / (float64((dx*dx+dy*dy)*radius) + 1.0)
			k.Weights = append(k.Weights, w)
			k.Divisor += w
		}
	}
	return k
}

func (k Kernel) Size() int { return 2*k.Radius + 1 }

// At returns the weight for the tap at offset (dx,dy) from the center.
func (k Kernel) At(dx, dy int) float64 {
	return k.Weights[(dy+k.Radius)*k.Size()+(dx+k.Radius)]
}

// Sum is the total of all the weights.
func (k Kernel) Sum() float64 {
	sum := 0.0
	for _, w := range k.Weights {
		sum += w
	}
	return sum
}

func (k Kernel) String() string {
	str := fmt.Sprintf("Kernel[%dx%d, /%.4f]\n", k.Size(), k.Size(), k.Divisor)
	for row := 0; row < k.Size(); row++ {
		for col := 0; col < k.Size(); col++ {
			str += fmt.Sprintf(" %8.4f", k.Weights[row*k.Size()+col])
		}
		str += "\n"
	}
	return str
}
