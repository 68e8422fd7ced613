package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/abworrall/photofix/pkg/filter"
	"github.com/abworrall/photofix/pkg/photofix"
)

var (
	fVerbosity  int
	fFilters    string
	fOutput     string
	fAmount     float64
	fRadius     int
	fThreshold  float64
	fTonemapper string
	fCompare    bool
	fList       bool
)

func init() {
	def := filter.DefaultUnsharpParams()

	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fFilters, "filter", "", "comma separated filters to apply, in order: "+filter.ListKinds())
	flag.StringVar(&fOutput, "o", photofix.DefaultOutputFilename, "output file (.png, .jpg, .tif, .bmp)")

	flag.Float64Var(&fAmount, "amount", def.Amount, "unblur: how much of the detail to add back")
	flag.IntVar(&fRadius, "radius", def.Radius, "unblur: blur radius, in pixels")
	flag.Float64Var(&fThreshold, "threshold", def.Threshold, "unblur: leave samples alone if detail is this small")

	flag.StringVar(&fTonemapper, "tonemapper", "linear", "how to tonemap .hdr inputs: "+photofix.ListTonemappers())
	flag.BoolVar(&fCompare, "compare", false, "also write a before/after sheet per filter")
	flag.BoolVar(&fList, "list", false, "list the filters and exit")
	flag.Parse()

	log.Printf("photofix starting\n")
}

// applyFlags overrides the config with any flags given on the command line,
// so a config file loaded from args only supplies what the flags don't.
func applyFlags(c *photofix.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			c.Verbosity = fVerbosity
		case "filter":
			c.Filters = splitFilters(fFilters)
		case "o":
			c.OutputFilename = fOutput
		case "amount":
			c.Unsharp.Amount = fAmount
		case "radius":
			c.Unsharp.Radius = fRadius
		case "threshold":
			c.Unsharp.Threshold = fThreshold
		case "tonemapper":
			c.Tonemapper = fTonemapper
		case "compare":
			c.WriteCompare = fCompare
		}
	})
}

func splitFilters(s string) []string {
	names := []string{}
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func main() {
	if fList {
		for _, k := range filter.Kinds {
			fmt.Println(k)
		}
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		log.Fatal("usage: photofix [flags] <image|dir|config.yaml>...")
	}

	s := photofix.NewSession()
	applyFlags(&s.Config) // .hdr loading wants the tonemapper
	if err := s.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	applyFlags(&s.Config)

	if err := s.Config.Finalize(); err != nil {
		log.Fatal(err)
	}
	if s.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", s.Config.AsYaml())
	}

	if !s.Loaded() {
		log.Fatal("no image found in ", flag.Args())
	}
	log.Printf("Loaded %s\n", s)

	if err := s.ApplyAll(); err != nil {
		log.Fatal(err)
	}
	if err := s.Write(""); err != nil {
		log.Fatal(err)
	}
}
