package filter

import (
	"github.com/abworrall/photofix/pkg/emath"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

const (
	faceRedBoost   = 1.1
	faceGreenBoost = 1.05
)

// IsSkinTone is a rule-of-thumb skin detector in raw RGB byte space. It
// misses skin under uneven lighting and skin tones outside its ranges,
// and flags plenty of warm non-skin colors.
func IsSkinTone(r, g, b byte) bool {
	ri, gi, bi := int(r), int(g), int(b)

	max, min := ri, ri
	if gi > max {
		max = gi
	}
	if bi > max {
		max = bi
	}
	if gi < min {
		min = gi
	}
	if bi < min {
		min = bi
	}

	rg := ri - gi
	if rg < 0 {
		rg = -rg
	}

	return ri > 95 && gi > 40 && bi > 20 &&
		ri > gi && ri > bi &&
		max-min > 15 &&
		rg > 15
}

// BoxMean is the plain average of channel c over the 3x3 neighbourhood of
// (x,y). Taps outside the image are skipped, so edge and corner pixels
// average over 6 or 4 samples.
func BoxMean(snap pixbuf.Snapshot, x, y, c int) float64 {
	sum, n := 0.0, 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !snap.In(x+dx, y+dy) {
				continue
			}
			sum += float64(snap.At(x+dx, y+dy, c))
			n++
		}
	}
	return sum / float64(n)
}

// ApplyFaceEnhance smooths pixels that look like skin, then warms them up
// a little (red x1.1, green x1.05). Everything else is left alone.
func ApplyFaceEnhance(b *pixbuf.Buffer) {
	snap := b.Snapshot()

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if !IsSkinTone(snap.At(x, y, pixbuf.R), snap.At(x, y, pixbuf.G), snap.At(x, y, pixbuf.B)) {
				continue
			}

			r := emath.ToByte(BoxMean(snap, x, y, pixbuf.R))
			g := emath.ToByte(BoxMean(snap, x, y, pixbuf.G))
			bl := emath.ToByte(BoxMean(snap, x, y, pixbuf.B))

			i := pixbuf.Index(x, y, b.Width, 0)
			b.Pix[i+pixbuf.R] = emath.ToByte(float64(r) * faceRedBoost)
			b.Pix[i+pixbuf.G] = emath.ToByte(float64(g) * faceGreenBoost)
			b.Pix[i+pixbuf.B] = bl
		}
	}
}
