package photofix

import (
	"fmt"
	"image"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/photofix/pkg/filter"
)

/* Example config file ...

verbosity: 1
filters: [denoiser, unblur]
unsharp:
  amount: 0.8
  radius: 1
  threshold: 10
tonemapper: reinhard05
outputfilename: fixed.png
debugpixels:
  - {x: 120, y: 80}
writediff: true

*/

type Config struct {
	Verbosity int

	Filters []string             // applied in order to the loaded image
	Unsharp filter.UnsharpParams // settings for the "unblur" filter

	Tonemapper     string // how .hdr inputs get mapped down to 8 bits
	OutputFilename string
	JPEGQuality    int

	// Diagnostics
	DiagnosticsDir string        // where diff/mask/compare images go
	DebugPixels    []image.Point // logged before and after each filter
	WriteDiff      bool
	WriteSkinMask  bool
	WriteCompare   bool
}

const DefaultOutputFilename = "filtered_image.png"

func NewConfig() Config {
	return Config{
		Filters:        []string{},
		Unsharp:        filter.DefaultUnsharpParams(),
		Tonemapper:     "linear",
		OutputFilename: DefaultOutputFilename,
		JPEGQuality:    90,
		DebugPixels:    []image.Point{},
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, c.Finalize()
}

func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Printf("Can't marshal config yaml: %v\n", err)
		return ""
	}
	return string(b)
}

// Finalize does sanity checks and fills in defaults.
func (c *Config) Finalize() error {
	if c.OutputFilename == "" {
		c.OutputFilename = DefaultOutputFilename
	}
	if c.Tonemapper == "" {
		c.Tonemapper = "linear"
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = 90
	}

	if _, err := c.FilterKinds(); err != nil {
		return err
	}
	if err := c.Unsharp.Validate(); err != nil {
		return err
	}
	if !isTonemapper(c.Tonemapper) {
		return fmt.Errorf("no tonemapper named '%s', wanted %s", c.Tonemapper, ListTonemappers())
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpegquality %d not in [1,100]", c.JPEGQuality)
	}

	return nil
}

// FilterKinds maps the configured filter names to filter kinds.
func (c Config) FilterKinds() ([]filter.Kind, error) {
	kinds := []filter.Kind{}
	for _, name := range c.Filters {
		k, err := filter.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func (c Config) Params() filter.Params {
	return filter.Params{Unsharp: c.Unsharp}
}

// wantDiagnostics is whether filters need a before-copy kept around.
func (c Config) wantDiagnostics() bool {
	return c.Verbosity > 0 || c.WriteDiff || c.WriteSkinMask || c.WriteCompare || len(c.DebugPixels) > 0
}
