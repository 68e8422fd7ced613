package photofix

import (
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/abworrall/photofix/pkg/filter"
	"github.com/abworrall/photofix/pkg/imgstats"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

// PixelDump describes one pixel before and after a filter.
func PixelDump(before, after *pixbuf.Buffer, pt image.Point) string {
	str := fmt.Sprintf("----- Pixel @(%d,%d)-----\n", pt.X, pt.Y)
	if !pt.In(image.Rect(0, 0, before.Width, before.Height)) {
		return str + "-- outside image\n"
	}

	b, a := before.At(pt.X, pt.Y), after.At(pt.X, pt.Y)
	str += fmt.Sprintf("Before             : [%3d, %3d, %3d, %3d] skin=%v\n", b.R, b.G, b.B, b.A,
		filter.IsSkinTone(b.R, b.G, b.B))
	str += fmt.Sprintf("After              : [%3d, %3d, %3d, %3d]\n", a.R, a.G, a.B, a.A)
	return str
}

func (s *Session) diagnosticsPath(name string) string {
	return filepath.Join(s.Config.DiagnosticsDir, name)
}

// diagnose logs and writes out whatever the config asks for, about what
// filter k just did.
func (s *Session) diagnose(k filter.Kind, before *pixbuf.Buffer) error {
	diff, err := imgstats.Diff(before, s.Buffer)
	if err != nil {
		return err
	}

	if s.Verbosity > 0 {
		log.Printf("%s: %s\n", k, diff)
		log.Printf("%s before: %s\n", k, imgstats.Summary(before))
		after := imgstats.Summary(s.Buffer)
		log.Printf("%s after : %s\n", k, after)
		if s.Verbosity > 1 {
			log.Printf("%s after histograms:-\n%s", k, after.HistogramDump())
			if kernel, ok := k.Kernel(s.Config.Params()); ok {
				log.Printf("%s %s", k, kernel)
			}
			log.Printf("%s diff grid %s\n", k, diff.Grid.Stats())
		}
	}

	for _, pt := range s.DebugPixels {
		log.Printf("%s\n%s", k, PixelDump(before, s.Buffer, pt))
	}

	if s.WriteDiff {
		title := fmt.Sprintf("%s: %d changed, max %d", k, diff.Changed, diff.MaxDelta)
		if err := diff.Grid.ToImg(title, s.diagnosticsPath(fmt.Sprintf("diff-%s.png", k))); err != nil {
			return fmt.Errorf("diff image: %v", err)
		}
	}

	if s.WriteSkinMask && k == filter.FaceEnhance {
		if err := WritePNG(imgstats.SkinMask(before), s.diagnosticsPath("skin-mask.png")); err != nil {
			return fmt.Errorf("skin mask: %v", err)
		}
	}

	if s.WriteCompare {
		filename := s.diagnosticsPath(fmt.Sprintf("compare-%s.png", k))
		if err := WriteCompare(before.Image(), s.Buffer.Image(), k.String(), filename); err != nil {
			return fmt.Errorf("compare image: %v", err)
		}
	}

	return nil
}
