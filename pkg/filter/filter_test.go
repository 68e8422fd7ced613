package filter

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/abworrall/photofix/pkg/pixbuf"
)

// uniform returns a w x h buffer filled with c.
func uniform(w, h int, c color.NRGBA) *pixbuf.Buffer {
	b := pixbuf.New(w, h)
	b.Fill(c)
	return b
}

// columns returns a buffer whose columns are gray levels vals, all opaque.
func columns(h int, vals ...byte) *pixbuf.Buffer {
	b := pixbuf.New(len(vals), h)
	for y := 0; y < h; y++ {
		for x, v := range vals {
			b.Set(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return b
}

// centerOutlier is the 3x3 image used by the end-to-end checks.
func centerOutlier() *pixbuf.Buffer {
	b := uniform(3, 3, color.NRGBA{100, 100, 100, 255})
	b.Set(1, 1, color.NRGBA{200, 50, 50, 255})
	return b
}

func assertBorderUnchanged(t *testing.T, before, after *pixbuf.Buffer) {
	t.Helper()
	for y := 0; y < before.Height; y++ {
		for x := 0; x < before.Width; x++ {
			if x > 0 && y > 0 && x < before.Width-1 && y < before.Height-1 {
				continue
			}
			if before.At(x, y) != after.At(x, y) {
				t.Errorf("border pixel (%d,%d) changed: %v -> %v", x, y, before.At(x, y), after.At(x, y))
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.String(), got, err, k)
		}
	}

	if got, err := ParseKind("UNBLUR"); err != nil || got != Unblur {
		t.Errorf("ParseKind is not case-insensitive: %v, %v", got, err)
	}
	if _, err := ParseKind("sepia"); err == nil {
		t.Errorf("ParseKind(sepia) should fail")
	}
	if s := Kind(42).String(); s != "Kind(42)" {
		t.Errorf("unknown kind String() = %q", s)
	}
}

func TestApplyPanicsOnBadBuffer(t *testing.T) {
	b := &pixbuf.Buffer{Width: 3, Height: 3, Pix: make([]byte, 10)}
	defer func() {
		if recover() == nil {
			t.Errorf("Apply on malformed buffer did not panic")
		}
		for _, v := range b.Pix {
			if v != 0 {
				t.Errorf("malformed buffer was written to")
			}
		}
	}()
	Apply(Sharpen, b)
}

func TestApplyPanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Apply with unknown kind did not panic")
		}
	}()
	Apply(Kind(99), pixbuf.New(2, 2))
}

func TestApplyPanicsOnBadParams(t *testing.T) {
	tests := []struct {
		name string
		p    UnsharpParams
	}{
		{"negative radius", UnsharpParams{Amount: 1, Radius: -1}},
		{"NaN amount and threshold", UnsharpParams{Amount: math.NaN(), Radius: 1, Threshold: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := columns(3, 50, 50, 150, 150)
			before := b.Clone()
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("ApplyWithParams with %v did not panic", tt.p)
				}
				if _, isRuntime := r.(error); isRuntime {
					t.Errorf("panic was a runtime error, not a parameter check: %v", r)
				}
				if !bytes.Equal(b.Pix, before.Pix) {
					t.Errorf("buffer was written to before the panic")
				}
			}()
			ApplyWithParams(Unblur, Params{Unsharp: tt.p}, b)
		})
	}
}

func TestKindKernel(t *testing.T) {
	p := DefaultParams()
	p.Unsharp.Radius = 2
	if k, ok := Unblur.Kernel(p); !ok || k.Radius != 2 {
		t.Errorf("Unblur.Kernel() = %v, %v; want radius 2", k, ok)
	}
	if k, ok := Sharpen.Kernel(p); !ok || k.At(0, 0) != 5 {
		t.Errorf("Sharpen.Kernel() = %v, %v", k, ok)
	}
	for _, kind := range []Kind{AutoLevel, Denoise, OldPhoto, FaceEnhance} {
		if _, ok := kind.Kernel(p); ok {
			t.Errorf("%s should have no kernel", kind)
		}
	}
}

func TestApplyEmptyBuffer(t *testing.T) {
	for _, k := range Kinds {
		b := pixbuf.New(0, 0)
		if got := Apply(k, b); got != b || len(got.Pix) != 0 {
			t.Errorf("%s on empty buffer = %s", k, got)
		}
	}
}

func TestAlphaNeverModified(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			b := pixbuf.New(5, 4)
			for i := range b.Pix {
				b.Pix[i] = byte(i*37 + 11)
			}
			b.Set(2, 2, color.NRGBA{200, 150, 100, 77})
			before := b.Clone()

			Apply(k, b)

			for i := pixbuf.A; i < len(b.Pix); i += 4 {
				if b.Pix[i] != before.Pix[i] {
					t.Fatalf("alpha at byte %d changed %d -> %d", i, before.Pix[i], b.Pix[i])
				}
			}
		})
	}
}

func TestUniformImagesUnchanged(t *testing.T) {
	// Every neighbourhood filter leaves a flat image alone.
	for _, k := range []Kind{Denoise, Unblur, Sharpen} {
		t.Run(k.String(), func(t *testing.T) {
			b := uniform(6, 5, color.NRGBA{90, 140, 30, 255})
			before := b.Clone()
			Apply(k, b)
			if !bytes.Equal(b.Pix, before.Pix) {
				t.Errorf("uniform image changed")
			}
		})
	}
}

func TestAutoLevelValue(t *testing.T) {
	if got := AutoLevelValue(128); got != 128 {
		t.Errorf("AutoLevelValue(128) = %d, want 128", got)
	}

	prev := byte(0)
	for v := 0; v <= 255; v++ {
		want := math.Round((float64(v)-128)*1.2 + 128)
		want = math.Max(0, math.Min(255, want))

		got := AutoLevelValue(byte(v))
		if float64(got) != want {
			t.Errorf("AutoLevelValue(%d) = %d, want %v", v, got, want)
		}
		if got < prev {
			t.Errorf("AutoLevelValue not monotonic at %d: %d < %d", v, got, prev)
		}
		prev = got
	}
}

func TestApplyAutoLevel(t *testing.T) {
	b := uniform(2, 2, color.NRGBA{0, 128, 255, 40})
	b.Set(1, 1, color.NRGBA{100, 150, 200, 255})
	Apply(AutoLevel, b)

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{0, 128, 255, 40}},
		{1, 1, color.NRGBA{94, 154, 214, 255}},
	}
	for _, tt := range tests {
		if got := b.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMedianRemovesOutlier(t *testing.T) {
	b := uniform(5, 5, color.NRGBA{80, 80, 80, 255})
	b.Set(2, 2, color.NRGBA{250, 0, 250, 255})
	b.Set(0, 0, color.NRGBA{1, 2, 3, 255})
	before := b.Clone()

	Apply(Denoise, b)

	if got := b.At(2, 2); got != (color.NRGBA{80, 80, 80, 255}) {
		t.Errorf("outlier = %v, want gray 80", got)
	}
	assertBorderUnchanged(t, before, b)
}

func TestMedianReadsSnapshot(t *testing.T) {
	// (1,1) turns from 0 to 200. Its right-hand neighbour (2,1) has four
	// 200s in the original image, so it stays 0; if it read the already
	// updated (1,1) it would see five and flip to 200.
	b := pixbuf.New(5, 4)
	b.Fill(color.NRGBA{0, 0, 0, 255})
	for _, p := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {3, 0}} {
		b.Set(p[0], p[1], color.NRGBA{200, 200, 200, 255})
	}

	Apply(Denoise, b)

	if got := b.At(1, 1).R; got != 200 {
		t.Errorf("(1,1) = %d, want 200", got)
	}
	if got := b.At(2, 1).R; got != 0 {
		t.Errorf("(2,1) = %d, want 0", got)
	}
}

func TestMedianIsOrderStatistic(t *testing.T) {
	// Samples 0,10,...,80 with the 0 replaced by 255.
	b := pixbuf.New(3, 3)
	v := byte(0)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			b.Set(x, y, color.NRGBA{v, v, v, 255})
			v += 10
		}
	}
	b.Set(0, 0, color.NRGBA{255, 255, 255, 255})

	Apply(Denoise, b)

	// samples: 255,10,20,30,40,50,60,70,80 -> sorted index 4 is 50
	if got := b.At(1, 1).R; got != 50 {
		t.Errorf("center = %d, want 50", got)
	}
}

func TestOldPhoto(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b byte
		want    byte
	}{
		{"mid gray", 128, 128, 128, 128},
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"dark", 60, 90, 30, 26},
		{"bright", 200, 210, 220, 251},
		{"saturated red", 255, 0, 0, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OldPhotoValue(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("OldPhotoValue(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestApplyOldPhotoIsGray(t *testing.T) {
	b := pixbuf.New(4, 4)
	for i := range b.Pix {
		b.Pix[i] = byte(i * 13)
	}
	Apply(OldPhoto, b)

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.At(x, y)
			if c.R != c.G || c.G != c.B {
				t.Errorf("(%d,%d) = %v, not gray", x, y, c)
			}
		}
	}
}

func TestOldPhotoNotIdempotent(t *testing.T) {
	b := uniform(1, 1, color.NRGBA{60, 90, 30, 255})
	Apply(OldPhoto, b)
	first := b.At(0, 0)
	Apply(OldPhoto, b)
	second := b.At(0, 0)

	// 60 -> 26 -> 0: gray values keep moving away from 128.
	if first.R != 26 || second.R != 0 {
		t.Errorf("passes = %d then %d, want 26 then 0", first.R, second.R)
	}

	// The fixed points are the midpoint and the clamped ends.
	for _, v := range []byte{0, 128, 255} {
		if got := OldPhotoValue(v, v, v); got != v {
			t.Errorf("OldPhotoValue(%d) = %d, want fixed point", v, got)
		}
	}
}

func TestSharpenEndToEnd(t *testing.T) {
	b := centerOutlier()
	before := b.Clone()
	Apply(Sharpen, b)

	// R: 5*200 - 4*100 = 600; G,B: 5*50 - 4*100 = -150
	if got := b.At(1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("center = %v, want {255 0 0 255}", got)
	}
	assertBorderUnchanged(t, before, b)
}

func TestSharpenBrightPixel(t *testing.T) {
	b := uniform(5, 5, color.NRGBA{10, 10, 10, 255})
	b.Set(2, 2, color.NRGBA{60, 60, 60, 255})
	Apply(Sharpen, b)

	// center: 5*60 - 4*10 = 260 -> 255
	if got := b.At(2, 2).R; got != 255 {
		t.Errorf("center = %d, want 255", got)
	}
	// 4-connected neighbour: 5*10 - 10 - 10 - 10 - 60 = -40 -> 0
	for _, p := range [][2]int{{2, 1}, {1, 2}, {3, 2}, {2, 3}} {
		if got := b.At(p[0], p[1]).R; got != 0 {
			t.Errorf("neighbour (%d,%d) = %d, want 0", p[0], p[1], got)
		}
	}
	// diagonal neighbours have weight 0, so see nothing
	if got := b.At(1, 1).R; got != 10 {
		t.Errorf("diagonal (1,1) = %d, want 10", got)
	}
}

func TestMedianEndToEnd(t *testing.T) {
	b := centerOutlier()
	Apply(Denoise, b)

	if got := b.At(1, 1); got != (color.NRGBA{100, 100, 100, 255}) {
		t.Errorf("center = %v, want {100 100 100 255}", got)
	}
}

func TestUnsharpStepEdge(t *testing.T) {
	b := columns(3, 50, 50, 150, 150)
	before := b.Clone()
	Apply(Unblur, b)

	// blur at (1,1) = 50 + 100*(7/6)/(13/3) = 76.92; diff = -26.92
	// 50 + 0.8*-26.92 = 28.46 -> 28, and symmetrically 172 on the bright side.
	if got := b.At(1, 1); got != (color.NRGBA{28, 28, 28, 255}) {
		t.Errorf("dark side = %v, want 28", got)
	}
	if got := b.At(2, 1); got != (color.NRGBA{172, 172, 172, 255}) {
		t.Errorf("bright side = %v, want 172", got)
	}
	assertBorderUnchanged(t, before, b)
}

func TestUnsharpAmountScalesOvershoot(t *testing.T) {
	b := columns(3, 50, 50, 150, 150)
	p := DefaultParams()
	p.Unsharp.Amount = 0.4
	ApplyWithParams(Unblur, p, b)

	// half the amount, half the overshoot: 50 - 10.77 = 39.23
	if got := b.At(1, 1).R; got != 39 {
		t.Errorf("dark side = %d, want 39", got)
	}
	if got := b.At(2, 1).R; got != 161 {
		t.Errorf("bright side = %d, want 161", got)
	}
}

func TestUnsharpThreshold(t *testing.T) {
	// A step of 10 gives |diff| = 2.7, inside the threshold.
	b := columns(3, 50, 50, 60, 60)
	before := b.Clone()
	Apply(Unblur, b)
	if !bytes.Equal(b.Pix, before.Pix) {
		t.Errorf("small step was sharpened")
	}

	// With no threshold the same step is sharpened.
	p := DefaultParams()
	p.Unsharp.Threshold = 0
	ApplyWithParams(Unblur, p, b)
	if b.At(1, 1).R >= 50 || b.At(2, 1).R <= 60 {
		t.Errorf("zero threshold did not sharpen: %v %v", b.At(1, 1), b.At(2, 1))
	}
}

func TestUnsharpRadiusBorder(t *testing.T) {
	b := columns(5, 100, 100, 100, 200, 200, 200)
	before := b.Clone()
	p := DefaultParams()
	p.Unsharp.Radius = 2
	ApplyWithParams(Unblur, p, b)

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if x >= 2 && x < b.Width-2 && y >= 2 && y < b.Height-2 {
				continue
			}
			if b.At(x, y) != before.At(x, y) {
				t.Errorf("pixel (%d,%d) inside the radius-2 border changed", x, y)
			}
		}
	}
	if b.At(2, 2) == before.At(2, 2) {
		t.Errorf("interior edge pixel not sharpened")
	}
}

func TestUnsharpParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       UnsharpParams
		wantErr bool
	}{
		{"defaults", DefaultUnsharpParams(), false},
		{"zero radius", UnsharpParams{Amount: 1, Radius: 0}, true},
		{"negative amount", UnsharpParams{Amount: -1, Radius: 1}, true},
		{"negative threshold", UnsharpParams{Amount: 1, Radius: 1, Threshold: -1}, true},
		{"NaN amount", UnsharpParams{Amount: math.NaN(), Radius: 1}, true},
		{"infinite amount", UnsharpParams{Amount: math.Inf(1), Radius: 1}, true},
		{"NaN threshold", UnsharpParams{Amount: 1, Radius: 1, Threshold: math.NaN()}, true},
		{"infinite threshold", UnsharpParams{Amount: 1, Radius: 1, Threshold: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsSkinTone(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b byte
		want    bool
	}{
		{"typical skin", 200, 150, 100, true},
		{"too dark", 10, 10, 10, false},
		{"red too low", 95, 50, 30, false},
		{"green too low", 200, 40, 30, false},
		{"blue too low", 200, 100, 20, false},
		{"green dominant", 120, 130, 50, false},
		{"blue dominant", 120, 60, 130, false},
		{"red close to green", 150, 140, 60, false},
		{"gray", 150, 150, 150, false},
		{"pale skin", 230, 190, 170, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSkinTone(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("IsSkinTone(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestBoxMean(t *testing.T) {
	b := uniform(3, 3, color.NRGBA{200, 100, 50, 255})
	b.Set(1, 1, color.NRGBA{236, 100, 50, 255})
	snap := b.Snapshot()

	tests := []struct {
		name string
		x, y int
		want float64
	}{
		{"corner, 4 taps", 0, 0, (3*200 + 236) / 4.0},
		{"edge, 6 taps", 1, 0, (5*200 + 236) / 6.0},
		{"center, 9 taps", 1, 1, (8*200 + 236) / 9.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoxMean(snap, tt.x, tt.y, pixbuf.R); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BoxMean(%d,%d) = %f, want %f", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFaceEnhance(t *testing.T) {
	b := uniform(3, 3, color.NRGBA{200, 100, 50, 255})
	b.Set(1, 1, color.NRGBA{236, 100, 50, 255})
	Apply(FaceEnhance, b)

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		// smoothed R 209 * 1.1 = 229.9; G 100 * 1.05 = 105; B stays smoothed
		{"corner", 0, 0, color.NRGBA{230, 105, 50, 255}},
		// 206 * 1.1 = 226.6
		{"edge", 1, 0, color.NRGBA{227, 105, 50, 255}},
		// 204 * 1.1 = 224.4
		{"center", 1, 1, color.NRGBA{224, 105, 50, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.At(tt.x, tt.y); got != tt.want {
				t.Errorf("At(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFaceEnhanceUniformSkin(t *testing.T) {
	b := uniform(4, 4, color.NRGBA{200, 150, 100, 255})
	Apply(FaceEnhance, b)

	// 150 * 1.05 = 157.5 in exact arithmetic; float rounding lands on 158.
	want := color.NRGBA{220, 158, 100, 255}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if got := b.At(x, y); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFaceEnhanceLeavesNonSkin(t *testing.T) {
	b := uniform(3, 3, color.NRGBA{200, 150, 100, 255})
	b.Set(1, 1, color.NRGBA{10, 10, 10, 255})
	b.Set(2, 2, color.NRGBA{40, 90, 200, 255})
	Apply(FaceEnhance, b)

	if got := b.At(1, 1); got != (color.NRGBA{10, 10, 10, 255}) {
		t.Errorf("dark pixel changed: %v", got)
	}
	if got := b.At(2, 2); got != (color.NRGBA{40, 90, 200, 255}) {
		t.Errorf("blue pixel changed: %v", got)
	}
	// Skin next to the dark pixel is smoothed over it:
	// (0,0) R mean = (200*3 + 10) / 4 = 152.5 -> 152, *1.1 = 167.2
	if got := b.At(0, 0).R; got != 167 {
		t.Errorf("skin beside dark pixel R = %d, want 167", got)
	}
}
