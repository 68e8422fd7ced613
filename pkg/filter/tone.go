package filter

import (
	"github.com/abworrall/photofix/pkg/emath"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

// Single-pixel tone filters. Each output sample depends only on its own
// pixel, so these write straight back with no snapshot.

const (
	midpoint      = 128.0
	autoLevelGain = 1.2
	oldPhotoBoost = 0.5
)

// AutoLevelValue stretches one sample's contrast around the midpoint.
func AutoLevelValue(v byte) byte {
	return emath.ToByte((float64(v)-midpoint)*autoLevelGain + midpoint)
}

// ApplyAutoLevel stretches R, G and B of every pixel independently.
func ApplyAutoLevel(b *pixbuf.Buffer) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i+pixbuf.R] = AutoLevelValue(b.Pix[i+pixbuf.R])
		b.Pix[i+pixbuf.G] = AutoLevelValue(b.Pix[i+pixbuf.G])
		b.Pix[i+pixbuf.B] = AutoLevelValue(b.Pix[i+pixbuf.B])
	}
}

// OldPhotoValue desaturates a pixel to its channel average, then boosts
// contrast around the midpoint by half again.
func OldPhotoValue(r, g, b byte) byte {
	avg := (float64(r) + float64(g) + float64(b)) / 3
	return emath.ToByte(avg + (avg-midpoint)*oldPhotoBoost)
}

// ApplyOldPhoto turns every pixel into a contrasty gray.
func ApplyOldPhoto(b *pixbuf.Buffer) {
	for i := 0; i < len(b.Pix); i += 4 {
		v := OldPhotoValue(b.Pix[i+pixbuf.R], b.Pix[i+pixbuf.G], b.Pix[i+pixbuf.B])
		b.Pix[i+pixbuf.R], b.Pix[i+pixbuf.G], b.Pix[i+pixbuf.B] = v, v, v
	}
}
