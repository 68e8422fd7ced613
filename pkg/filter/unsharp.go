package filter

import (
	"fmt"
	"math"

	"github.com/abworrall/photofix/pkg/emath"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

// UnsharpParams tune the unsharp mask.
type UnsharpParams struct {
	Amount    float64 // how much of the detail (original - blur) to add back
	Radius    int     // neighbourhood half-width; also the untouched border width
	Threshold float64 // details no bigger than this are left alone
}

func DefaultUnsharpParams() UnsharpParams {
	return UnsharpParams{Amount: 0.8, Radius: 1, Threshold: 10}
}

func (p UnsharpParams) Validate() error {
	if p.Radius < 1 {
		return fmt.Errorf("unsharp radius %d, must be >= 1", p.Radius)
	}
	if p.Amount < 0 || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return fmt.Errorf("unsharp amount %f, must be finite and >= 0", p.Amount)
	}
	if p.Threshold < 0 || math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) {
		return fmt.Errorf("unsharp threshold %f, must be finite and >= 0", p.Threshold)
	}
	return nil
}

func (p UnsharpParams) String() string {
	return fmt.Sprintf("amount=%.2f, radius=%d, threshold=%.1f", p.Amount, p.Radius, p.Threshold)
}

// UnsharpValue is the unsharp mask for one sample: given its original
// value and the local blur, it returns the new value and whether the
// detail was big enough to change anything.
func UnsharpValue(orig, blur float64, p UnsharpParams) (byte, bool) {
	diff := orig - blur
	if math.Abs(diff) <= p.Threshold {
		return 0, false
	}
	return emath.ToByte(orig + diff*p.Amount), true
}

// ApplyUnsharp sharpens by adding back the difference between each sample
// and a distance-weighted blur of its neighbourhood. Samples in flat areas
// (difference within the threshold) keep their value, so noise is not
// amplified.
func ApplyUnsharp(b *pixbuf.Buffer, p UnsharpParams) {
	snap := b.Snapshot()
	k, _ := Unblur.Kernel(Params{Unsharp: p})

	for y := p.Radius; y < b.Height-p.Radius; y++ {
		for x := p.Radius; x < b.Width-p.Radius; x++ {
			for c := pixbuf.R; c <= pixbuf.B; c++ {
				blur := Convolve(snap, k, x, y, c)
				if v, changed := UnsharpValue(float64(snap.At(x, y, c)), blur, p); changed {
					b.Pix[pixbuf.Index(x, y, b.Width, c)] = v
				}
			}
		}
	}
}
