// Package filter is the pixel-processing engine: six fixed spatial filters
// that rewrite a pixbuf.Buffer in place. Filters are deterministic, keep no
// state between calls, and never touch the alpha channel.
package filter

import (
	"fmt"
	"strings"

	"github.com/abworrall/photofix/pkg/emath"
	"github.com/abworrall/photofix/pkg/pixbuf"
)

// Kind selects one of the filters.
type Kind int

const (
	AutoLevel Kind = iota
	Denoise
	OldPhoto
	Unblur
	Sharpen
	FaceEnhance
)

// Kinds lists every filter, in menu order.
var Kinds = []Kind{AutoLevel, Denoise, OldPhoto, Unblur, Sharpen, FaceEnhance}

var kindNames = map[Kind]string{
	AutoLevel:   "colorFixer",
	Denoise:     "denoiser",
	OldPhoto:    "oldPhotoRestorer",
	Unblur:      "unblur",
	Sharpen:     "sharpener",
	FaceEnhance: "faceEnhancer",
}

func (k Kind) String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a filter name (case-insensitive) to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(name, kindNames[k]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("no filter named '%s', wanted %s", name, ListKinds())
}

func ListKinds() string {
	names := []string{}
	for _, k := range Kinds {
		names = append(names, k.String())
	}
	return fmt.Sprintf("%v", names)
}

// Params holds the tunable filter settings. Only the unsharp mask has any.
type Params struct {
	Unsharp UnsharpParams
}

func DefaultParams() Params {
	return Params{Unsharp: DefaultUnsharpParams()}
}

// A Func rewrites a buffer in place.
type Func func(Params, *pixbuf.Buffer)

// Get returns the function that implements a filter.
func (k Kind) Get() Func {
	switch k {
	case AutoLevel:
		return func(_ Params, b *pixbuf.Buffer) { ApplyAutoLevel(b) }
	case Denoise:
		return func(_ Params, b *pixbuf.Buffer) { ApplyMedian(b) }
	case OldPhoto:
		return func(_ Params, b *pixbuf.Buffer) { ApplyOldPhoto(b) }
	case Unblur:
		return func(p Params, b *pixbuf.Buffer) { ApplyUnsharp(b, p.Unsharp) }
	case Sharpen:
		return func(_ Params, b *pixbuf.Buffer) { ApplySharpen(b) }
	case FaceEnhance:
		return func(_ Params, b *pixbuf.Buffer) { ApplyFaceEnhance(b) }
	}
	return nil
}

// Kernel returns the convolution kernel a filter uses, if it uses one.
func (k Kind) Kernel(p Params) (emath.Kernel, bool) {
	switch k {
	case Unblur:
		return emath.DistanceKernel(p.Unsharp.Radius), true
	case Sharpen:
		return emath.SharpenKernel, true
	}
	return emath.Kernel{}, false
}

// Apply runs one filter with default parameters. See ApplyWithParams.
func Apply(k Kind, b *pixbuf.Buffer) *pixbuf.Buffer {
	return ApplyWithParams(k, DefaultParams(), b)
}

// ApplyWithParams runs one filter over b and returns b. It panics, before
// writing anything, if b breaks the length invariant, p is out of range or
// k is not a known filter; all are programming errors in the caller. An
// empty buffer is left as it is.
func ApplyWithParams(k Kind, p Params, b *pixbuf.Buffer) *pixbuf.Buffer {
	if err := b.Validate(); err != nil {
		panic(fmt.Sprintf("filter %s: %v", k, err))
	}
	if err := p.Unsharp.Validate(); err != nil {
		panic(fmt.Sprintf("filter %s: %v", k, err))
	}
	f := k.Get()
	if f == nil {
		panic(fmt.Sprintf("filter: unknown kind %d", int(k)))
	}
	f(p, b)
	return b
}
