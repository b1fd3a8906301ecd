package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/coursekit/thumbgen/pkg/config"
)

// solid returns a uniform NRGBA test image.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestBuildBaseSolidColor(t *testing.T) {
	fill := color.RGBA{215, 63, 9, 255}
	canvas := BuildBase(64, 36, nil, fill)

	if got := canvas.Bounds(); got.Dx() != 64 || got.Dy() != 36 {
		t.Fatalf("bounds = %v", got)
	}
	for _, pt := range []image.Point{{0, 0}, {63, 0}, {0, 35}, {63, 35}, {32, 18}} {
		if got := canvas.RGBAAt(pt.X, pt.Y); got != fill {
			t.Errorf("pixel %v = %v, want %v", pt, got, fill)
		}
	}
}

func TestBuildBasePhotoFill(t *testing.T) {
	// A wide photo on a square canvas must fill it exactly: cropped, never
	// letterboxed.
	photo := solid(200, 50, color.NRGBA{10, 200, 30, 255})
	canvas := BuildBase(60, 60, photo, color.RGBA{})

	if got := canvas.Bounds(); got.Dx() != 60 || got.Dy() != 60 {
		t.Fatalf("bounds = %v", got)
	}
	// Every pixel comes from the photo, none from the (zero) fill color.
	for _, pt := range []image.Point{{0, 0}, {59, 59}, {30, 30}} {
		if got := canvas.RGBAAt(pt.X, pt.Y); got.A == 0 {
			t.Errorf("pixel %v untouched by photo fill", pt)
		}
	}
}

func TestApplyOverlayNil(t *testing.T) {
	canvas := BuildBase(32, 32, nil, color.RGBA{100, 100, 100, 255})
	before := append([]uint8(nil), canvas.Pix...)

	ApplyOverlay(canvas, nil, 50)

	if !bytes.Equal(before, canvas.Pix) {
		t.Error("nil pattern must leave the canvas untouched")
	}
}

func TestApplyOverlayZeroOpacity(t *testing.T) {
	fill := color.RGBA{100, 100, 100, 255}
	plain := BuildBase(32, 32, nil, fill)
	overlaid := BuildBase(32, 32, nil, fill)

	pattern := solid(8, 8, color.NRGBA{255, 0, 0, 255})
	ApplyOverlay(overlaid, pattern, 0)

	if !bytes.Equal(plain.Pix, overlaid.Pix) {
		t.Error("opacity 0 must be indistinguishable from no overlay")
	}
}

func TestApplyOverlayFullOpacity(t *testing.T) {
	canvas := BuildBase(32, 32, nil, color.RGBA{0, 0, 0, 255})
	pattern := solid(8, 8, color.NRGBA{255, 0, 0, 255})

	ApplyOverlay(canvas, pattern, 100)

	if got := canvas.RGBAAt(16, 16); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("opaque pattern should replace the base, got %v", got)
	}
}

func TestApplyOverlayHalfOpacity(t *testing.T) {
	canvas := BuildBase(32, 32, nil, color.RGBA{0, 0, 0, 255})
	pattern := solid(32, 32, color.NRGBA{255, 255, 255, 255})

	ApplyOverlay(canvas, pattern, 50)

	got := canvas.RGBAAt(16, 16)
	// White at alpha 127 over black: each channel near 127.
	if got.R < 120 || got.R > 134 {
		t.Errorf("expected a mid blend, got %v", got)
	}
	if got.A != 255 {
		t.Errorf("base opacity must be preserved, got alpha %d", got.A)
	}
}

func TestApplyOverlayDoesNotMutatePattern(t *testing.T) {
	canvas := BuildBase(16, 16, nil, color.RGBA{0, 0, 0, 255})
	pattern := solid(16, 16, color.NRGBA{40, 80, 120, 200})
	before := append([]uint8(nil), pattern.Pix...)

	ApplyOverlay(canvas, pattern, 30)

	if !bytes.Equal(before, pattern.Pix) {
		t.Error("opacity adjustment must work on a derived copy")
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Width = 400
	cfg.Height = 225
	cfg.TextMargin = 40
	cfg.FontSize = 30
	return cfg
}

func TestComposeDeterministic(t *testing.T) {
	cfg := testConfig()
	fonts := NewResolver(nil)

	a, warn, err := Compose(cfg, "Week 3 Overview", nil, nil, fonts, cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
	b, _, err := Compose(cfg, "Week 3 Overview", nil, nil, fonts, cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("identical inputs must produce pixel-identical output")
	}
}

func TestComposeConcurrent(t *testing.T) {
	// A server renders through one shared resolver, so parallel composes
	// share cached font handles. Run under -race this catches unguarded
	// face access; the pixel comparison catches corrupted rasterization.
	cfg := testConfig()
	fonts := NewResolver(nil)

	want, _, err := Compose(cfg, "Week 3 Overview", nil, nil, fonts, cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				got, _, err := Compose(cfg, "Week 3 Overview", nil, nil, fonts, cfg.Width, cfg.Height)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if !bytes.Equal(want.Pix, got.Pix) {
					t.Error("concurrent renders must match the serial result")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestComposeEmptyTitle(t *testing.T) {
	cfg := testConfig()
	fonts := NewResolver(nil)

	bg, _ := config.ParseHex(cfg.BackgroundColor)
	plain := BuildBase(cfg.Width, cfg.Height, nil, bg)

	got, _, err := Compose(cfg, "", nil, nil, fonts, cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(plain.Pix, got.Pix) {
		t.Error("empty title should draw nothing")
	}
}

func TestComposeDrawsText(t *testing.T) {
	cfg := testConfig()
	fonts := NewResolver(nil)

	bg, _ := config.ParseHex(cfg.BackgroundColor)
	plain := BuildBase(cfg.Width, cfg.Height, nil, bg)

	got, _, err := Compose(cfg, "Week 1", nil, nil, fonts, cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(plain.Pix, got.Pix) {
		t.Error("a non-empty title should change the canvas")
	}
}

func TestComposeMarginError(t *testing.T) {
	cfg := testConfig()
	cfg.TextMargin = cfg.Width / 2

	_, _, err := Compose(cfg, "Week 1", nil, nil, NewResolver(nil), cfg.Width, cfg.Height)
	var cerr *config.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigurationError, got %v", err)
	}
}

func TestComposeFontFallbackWarns(t *testing.T) {
	cfg := testConfig()
	cfg.FontName = "missing-font"

	canvas, warn, err := Compose(cfg, "Week 1", nil, nil, NewResolver(nil), cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("font fallback must not fail the render: %v", err)
	}
	if canvas == nil {
		t.Fatal("expected a rendered canvas")
	}
	if warn == nil {
		t.Fatal("expected a fallback warning")
	}
}

func TestComposeOverlayPipeline(t *testing.T) {
	cfg := testConfig()
	cfg.PatternOpacity = 100
	pattern := solid(10, 10, color.NRGBA{0, 0, 255, 255})

	got, _, err := Compose(cfg, "", nil, pattern, NewResolver(nil), cfg.Width, cfg.Height)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if px := got.RGBAAt(cfg.Width/2, cfg.Height/2); px != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("opaque overlay should cover the background, got %v", px)
	}
}
