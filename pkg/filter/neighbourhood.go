package filter

import (
	"sort"

	"github.com/abworrall/photofix/pkg/emath"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

// Neighbourhood filters. These all read from a snapshot and skip a border
// as wide as their radius, which is left exactly as it was.

const medianRadius = 1

// ApplyMedian replaces each interior sample with the median of its 3x3
// neighbourhood, per channel. Outliers (salt and pepper noise) vanish
// instead of being smeared out as they would be by a mean.
func ApplyMedian(b *pixbuf.Buffer) {
	snap := b.Snapshot()
	r := medianRadius
	values := make([]int, 0, (2*r+1)*(2*r+1))

	for y := r; y < b.Height-r; y++ {
		for x := r; x < b.Width-r; x++ {
			for c := pixbuf.R; c <= pixbuf.B; c++ {
				values = values[:0]
				for dy := -r; dy <= r; dy++ {
					for dx := -r; dx <= r; dx++ {
						values = append(values, int(snap.At(x+dx, y+dy, c)))
					}
				}
				sort.Ints(values)
				b.Pix[pixbuf.Index(x, y, b.Width, c)] = byte(values[len(values)/2])
			}
		}
	}
}

// Convolve computes the kernel-weighted sum around (x,y) for channel c,
// divided by the kernel's divisor. (x,y) must be at least k.Radius from
// every edge.
func Convolve(snap pixbuf.Snapshot, k emath.Kernel, x, y, c int) float64 {
	sum := 0.0
	for dy := -k.Radius; dy <= k.Radius; dy++ {
		for dx := -k.Radius; dx <= k.Radius; dx++ {
			sum += float64(snap.At(x+dx, y+dy, c)) * k.At(dx, dy)
		}
	}
	return sum / k.Divisor
}

// ApplySharpen convolves the interior with emath.SharpenKernel.
func ApplySharpen(b *pixbuf.Buffer) {
	snap := b.Snapshot()
	k, _ := Sharpen.Kernel(Params{})

	for y := k.Radius; y < b.Height-k.Radius; y++ {
		for x := k.Radius; x < b.Width-k.Radius; x++ {
			for c := pixbuf.R; c <= pixbuf.B; c++ {
				b.Pix[pixbuf.Index(x, y, b.Width, c)] = emath.ToByte(Convolve(snap, k, x, y, c))
			}
		}
	}
}
