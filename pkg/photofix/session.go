// Package photofix is everything around the filter engine: loading an
// image into a pixel buffer, running filters over it, and writing it back
// out, plus diagnostics along the way.
package photofix

import (
	"fmt"
	"log"
	"time"

	"github.com/abworrall/photofix/pkg/filter"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

// A Session holds one image being worked on. Each filter reads the
// current buffer and overwrites it; there is no history. Not safe for
// concurrent use.
type Session struct {
	Config

	Buffer   *pixbuf.Buffer // nil until an image is loaded
	Filename string         // where Buffer was loaded from
	Exif     ExifInfo
}

func NewSession() Session {
	return Session{Config: NewConfig()}
}

func (s Session) String() string {
	if !s.Loaded() {
		return "Session[no image]"
	}
	return fmt.Sprintf("Session[%s, %s, %s]", s.Filename, s.Buffer, s.Exif)
}

func (s *Session) Loaded() bool { return s.Buffer != nil }

// Apply runs one filter over the current image. With nothing loaded it
// does nothing.
func (s *Session) Apply(k filter.Kind) error {
	if !s.Loaded() {
		log.Printf("No image loaded, skipping filter %s\n", k)
		return nil
	}

	var before *pixbuf.Buffer
	if s.Config.wantDiagnostics() {
		before = s.Buffer.Clone()
	}

	t0 := time.Now()
	filter.ApplyWithParams(k, s.Config.Params(), s.Buffer)
	log.Printf("Applied filter %s to %s in %s\n", k, s.Buffer, time.Since(t0))

	if before != nil {
		return s.diagnose(k, before)
	}
	return nil
}

// ApplyAll runs the configured filters, in order, over the current image.
func (s *Session) ApplyAll() error {
	kinds, err := s.Config.FilterKinds()
	if err != nil {
		return err
	}
	for _, k := range kinds {
		if err := s.Apply(k); err != nil {
			return fmt.Errorf("filter %s: %v", k, err)
		}
	}
	return nil
}

// Write encodes the current image to filename, or to the configured
// output filename if that is empty.
func (s *Session) Write(filename string) error {
	if !s.Loaded() {
		return fmt.Errorf("write: no image loaded")
	}
	if filename == "" {
		filename = s.Config.OutputFilename
	}
	if err := WriteImage(s.Buffer.Image(), filename, s.Config.JPEGQuality); err != nil {
		return err
	}
	log.Printf("Output file written '%s'\n", filename)
	return nil
}
