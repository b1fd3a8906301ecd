// compositor.go - Canvas composition: background (photo fill-crop or solid
// color), opacity-adjusted pattern overlay, and text rasterization. Layered
// approach: base -> overlay -> text, each step mutating one private canvas.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/coursekit/thumbgen/pkg/config"
)

// BuildBase creates the canvas. A background photo is scaled and
// center-cropped to exactly fill width×height without distortion; otherwise
// the canvas is a solid fill.
func BuildBase(width, height int, bg image.Image, fill color.RGBA) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	if bg != nil {
		fitted := imaging.Fill(bg, width, height, imaging.Center, imaging.Lanczos)
		draw.Draw(canvas, canvas.Bounds(), fitted, image.Point{}, draw.Src)
		return canvas
	}

	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{fill}, image.Point{}, draw.Src)
	return canvas
}

// ApplyOverlay stretches pattern to the canvas dimensions and composites it
// over the canvas. The stretch is non-aspect-preserving: the pattern is a
// texture, not a photo. At opacity below 100 the pattern's alpha channel is
// scaled multiplicatively on a derived copy; the source pattern is never
// mutated. A nil pattern is a no-op.
func ApplyOverlay(canvas *image.RGBA, pattern image.Image, opacityPct int) {
	if pattern == nil {
		return
	}

	b := canvas.Bounds()
	resized := imaging.Resize(pattern, b.Dx(), b.Dy(), imaging.Lanczos)

	if opacityPct < 100 {
		scaleAlpha(resized, opacityPct)
	}

	draw.Draw(canvas, b, resized, image.Point{}, draw.Over)
}

// scaleAlpha multiplies every alpha value by pct/100. The image is NRGBA
// (non-premultiplied), so color channels are left untouched.
func scaleAlpha(img *image.NRGBA, pct int) {
	if pct < 0 {
		pct = 0
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(int(img.Pix[i]) * pct / 100)
	}
}

// DrawText rasterizes each placed line onto the canvas with a flat opaque
// fill, using the font rasterizer's default anti-aliasing.
func DrawText(canvas *image.RGBA, layout Layout, fnt *Handle, col color.RGBA) {
	for _, line := range layout.Lines {
		fnt.DrawString(canvas, line.Text, line.X, line.Baseline, col)
	}
}

// Compose renders one finished thumbnail: base, then overlay, then the
// wrapped and centered title. Preview and export both go through this
// function with different dimensions, so preview is a scaled proxy of the
// final output. A font fallback is returned as a non-fatal warning next to a
// fully usable canvas; the error return is reserved for failures that abort
// the render.
func Compose(cfg config.Config, title string, bg, pattern image.Image, fonts *Resolver, width, height int) (canvas *image.RGBA, warn *FontLoadError, err error) {
	wrapWidth := width - 2*cfg.TextMargin
	if wrapWidth <= 0 {
		return nil, nil, &config.ConfigurationError{
			Field:  "textMargin",
			Reason: "margins leave no horizontal room for text at this resolution",
		}
	}

	bgColor, err := config.ParseHex(cfg.BackgroundColor)
	if err != nil {
		return nil, nil, &config.ConfigurationError{Field: "backgroundColor", Reason: err.Error()}
	}
	textColor, err := config.ParseHex(cfg.TextColor)
	if err != nil {
		return nil, nil, &config.ConfigurationError{Field: "textColor", Reason: err.Error()}
	}

	canvas = BuildBase(width, height, bg, bgColor)
	ApplyOverlay(canvas, pattern, cfg.PatternOpacity)

	fnt, fontErr := fonts.Resolve(cfg.FontName, cfg.FontSize)
	if fontErr != nil {
		var fle *FontLoadError
		if errors.As(fontErr, &fle) {
			warn = fle
		} else {
			return nil, nil, fontErr
		}
	}

	lines := Wrap(title, fnt, wrapWidth)
	layout := Place(lines, fnt, cfg.FontSize, cfg.LineSpacing, width, height)
	DrawText(canvas, layout, fnt, textColor)

	return canvas, warn, nil
}
