package photofix

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/abworrall/photofix/pkg/pixbuf"
)

var ErrUnknownFormat = errors.New("unknown file format")

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".tif": true, ".tiff": true, ".bmp": true, ".webp": true,
}

// ExifInfo is the bit of camera metadata we log on load.
type ExifInfo struct {
	Make  string
	Model string
	ISO   int64
}

func (e ExifInfo) String() string {
	if e.Model == "" {
		return "no exif"
	}
	return fmt.Sprintf("%s %s, ISO%d", e.Make, e.Model, e.ISO)
}

// LoadFilesAndDirs loads each arg in turn. Directories are walked; inside
// them, files we don't understand are skipped. A .yaml file replaces the
// config, an image replaces the current image.
func (s *Session) LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {
		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				err := s.LoadFilesAndDirs(filepath.Join(arg, content.Name()))
				if errors.Is(err, ErrUnknownFormat) {
					continue
				} else if err != nil {
					return fmt.Errorf("load %s: %w", arg, err)
				}
			}

		default:
			if err := s.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %w", arg, err)
			}
		}
	}

	return nil
}

func (s *Session) loadFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case ext == ".yaml" || ext == ".yml":
		cfg, err := loadConfig(filename)
		if err != nil {
			return fmt.Errorf("loading %s as config YAML failed: %v", filename, err)
		}
		s.Config = cfg
		log.Printf("Loaded configuration from %s\n", filename)

	case ext == ".hdr":
		img, err := loadHDR(filename, s.Config.Tonemapper)
		if err != nil {
			return err
		}
		return s.setImage(filename, img)

	case imageExtensions[ext]:
		img, err := loadImage(filename)
		if err != nil {
			return err
		}
		if err := s.setImage(filename, img); err != nil {
			return err
		}
		if ex, err := ReadExif(filename); err == nil {
			s.Exif = ex
		} else if s.Verbosity > 0 {
			log.Printf("%s: %v\n", filename, err)
		}

	default:
		return fmt.Errorf("%s: %w", filename, ErrUnknownFormat)
	}

	return nil
}

func loadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	return newConfigFromYaml(contents)
}

func loadImage(filename string) (image.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r img '%s': %v", filename, err)
	}
	defer reader.Close()

	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %v", filename, err)
	}
	log.Printf("Decoded %s (%s, %s)\n", filename, format, img.Bounds())

	return img, nil
}

// loadHDR decodes a Radiance RGBE file and tonemaps it into an LDR image.
func loadHDR(filename, tonemapper string) (image.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r hdr '%s': %v", filename, err)
	}
	defer reader.Close()

	img, err := rgbe.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("rgbe decoding '%s': %v", filename, err)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("'%s' did not decode to an HDR image", filename)
	}

	op, err := SetupTonemapper(tonemapper, hdrImg)
	if err != nil {
		return nil, err
	}
	log.Printf("Tonemapping %s (%s)\n", filename, tonemapper)

	return op.Perform(), nil
}

// ReadExif pulls camera make, model and ISO out of the file's EXIF block.
// Plenty of images (most PNGs) have none; that is an error here, and
// callers generally just log it.
func ReadExif(filename string) (ExifInfo, error) {
	ei := ExifInfo{}

	reader, err := os.Open(filename)
	if err != nil {
		return ei, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ei, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	if tag, err := ex.Get(exif.Make); err == nil {
		ei.Make, _ = tag.StringVal()
	}
	if tag, err := ex.Get(exif.Model); err != nil {
		return ei, fmt.Errorf("exif Model '%s': %v", filename, err)
	} else if ei.Model, err = tag.StringVal(); err != nil {
		return ei, fmt.Errorf("exif Model '%s': %v", filename, err)
	}
	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		ei.ISO, _ = tag.Int64(0)
	}

	return ei, nil
}

func (s *Session) setImage(filename string, img image.Image) error {
	buf, err := pixbuf.FromImage(img)
	if err != nil {
		return fmt.Errorf("%s: %v", filename, err)
	}
	s.Buffer = buf
	s.Filename = filename
	s.Exif = ExifInfo{}
	return nil
}
