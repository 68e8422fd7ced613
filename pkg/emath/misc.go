package emath

import "math"

// Some functions that only operate on basic types, that are useful

// Clamp255 constrains an intermediate channel value to the valid 8-bit range.
// Every filter calls this as the last step before writing a sample.
func Clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// ToByte clamps and rounds a channel value into a sample. Halves round to
// even, which is what a clamped byte store does with a float.
func ToByte(x float64) byte {
	return byte(math.RoundToEven(Clamp255(x)))
}

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}
