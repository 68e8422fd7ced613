// Package imgstats computes diagnostics about a pixel buffer, and about
// what a filter did to it. Nothing in the filter engine depends on it.
package imgstats

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/codahale/hdrhistogram"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/photofix/pkg/emath"
	"github.com/abworrall/photofix/pkg/filter"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

var channelNames = []string{"R", "G", "B"}

// Stats summarises the color content of a buffer. Alpha is ignored.
type Stats struct {
	Width, Height int

	Mean   [3]float64 // per channel, [0,255]
	StdDev [3]float64

	LumaP01 int64 // Rec.601 luma percentiles
	LumaP50 int64
	LumaP99 int64

	SkinFraction float64 // fraction of pixels filter.IsSkinTone flags
	MeanColor    colorful.Color

	Hists [3]histogram.Histogram // 256 buckets per channel
}

// Luma is the Rec.601 luma of an 8-bit pixel, rounded.
func Luma(r, g, b byte) int64 {
	return int64(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}

func Summary(buf *pixbuf.Buffer) Stats {
	s := Stats{Width: buf.Width, Height: buf.Height}
	n := buf.Width * buf.Height

	chans := [3][]float64{}
	for c := range chans {
		chans[c] = make([]float64, 0, n)
		s.Hists[c] = histogram.Histogram{NumBuckets: 256, ValMin: 0, ValMax: 256}
	}

	lumas := hdrhistogram.New(0, 255, 3)
	nSkin := 0

	for i := 0; i < len(buf.Pix); i += 4 {
		r, g, b := buf.Pix[i+pixbuf.R], buf.Pix[i+pixbuf.G], buf.Pix[i+pixbuf.B]
		for c, v := range []byte{r, g, b} {
			chans[c] = append(chans[c], float64(v))
			s.Hists[c].Add(histogram.ScalarVal(int(v)))
		}
		_ = lumas.RecordValue(Luma(r, g, b)) // only fails outside [0,255]
		if filter.IsSkinTone(r, g, b) {
			nSkin++
		}
	}

	for c := range chans {
		s.Mean[c], s.StdDev[c] = stat.MeanStdDev(chans[c], nil)
	}
	s.LumaP01 = lumas.ValueAtQuantile(1)
	s.LumaP50 = lumas.ValueAtQuantile(50)
	s.LumaP99 = lumas.ValueAtQuantile(99)
	s.SkinFraction = float64(nSkin) / float64(n)
	s.MeanColor = colorful.Color{R: s.Mean[0] / 255, G: s.Mean[1] / 255, B: s.Mean[2] / 255}

	return s
}

func (s Stats) String() string {
	str := fmt.Sprintf("Stats[%dx%d] mean %s", s.Width, s.Height, s.MeanColor.Hex())
	for c, name := range channelNames {
		str += fmt.Sprintf(", %s=%.1f±%.1f", name, s.Mean[c], s.StdDev[c])
	}
	str += fmt.Sprintf(", luma p1/p50/p99=%d/%d/%d", s.LumaP01, s.LumaP50, s.LumaP99)
	return str + fmt.Sprintf(", skin %.1f%%", 100*s.SkinFraction)
}

// HistogramDump renders the per-channel histograms, for verbose logging.
func (s Stats) HistogramDump() string {
	str := ""
	for c, name := range channelNames {
		str += fmt.Sprintf("-- %s histogram: %v\n", name, s.Hists[c])
	}
	return str
}

// A DiffReport describes how a filter changed a buffer.
type DiffReport struct {
	Changed         int     // pixels with any RGB sample changed
	MeanAbsDelta    float64 // mean |after-before| over all RGB samples
	MaxDelta        int     // largest single-sample change
	MeanLabDistance float64 // mean CIE Lab distance over changed pixels
	Grid            emath.FloatGrid
}

func (d DiffReport) String() string {
	return fmt.Sprintf("Diff: %d pixels changed, mean |delta| %.3f, max delta %d, mean Lab distance %.4f",
		d.Changed, d.MeanAbsDelta, d.MaxDelta, d.MeanLabDistance)
}

func toColorful(p []byte) colorful.Color {
	return colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
}

// Diff compares two buffers of the same size. Grid holds the largest
// per-channel change at each pixel.
func Diff(before, after *pixbuf.Buffer) (DiffReport, error) {
	if before.Width != after.Width || before.Height != after.Height {
		return DiffReport{}, fmt.Errorf("diff %s against %s: size mismatch", before, after)
	}

	d := DiffReport{Grid: emath.NewFloatGrid(before.Width, before.Height)}
	totAbs, totLab := 0.0, 0.0

	for y := 0; y < before.Height; y++ {
		for x := 0; x < before.Width; x++ {
			i := pixbuf.Index(x, y, before.Width, 0)
			pixMax := 0
			for c := pixbuf.R; c <= pixbuf.B; c++ {
				delta := int(after.Pix[i+c]) - int(before.Pix[i+c])
				if delta < 0 {
					delta = -delta
				}
				totAbs += float64(delta)
				if delta > pixMax {
					pixMax = delta
				}
			}
			d.Grid.Set(x, y, float64(pixMax))

			if pixMax > 0 {
				d.Changed++
				totLab += toColorful(before.Pix[i : i+3]).DistanceLab(toColorful(after.Pix[i : i+3]))
			}
			if pixMax > d.MaxDelta {
				d.MaxDelta = pixMax
			}
		}
	}

	d.MeanAbsDelta = totAbs / float64(before.Width*before.Height*3)
	if d.Changed > 0 {
		d.MeanLabDistance = totLab / float64(d.Changed)
	}

	return d, nil
}

// SkinMask is white where filter.IsSkinTone flags a pixel, black elsewhere.
func SkinMask(buf *pixbuf.Buffer) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := buf.At(x, y)
			if filter.IsSkinTone(c.R, c.G, c.B) {
				mask.SetGray(x, y, color.Gray{0xFF})
			}
		}
	}
	return mask
}
