// layout.go - Greedy word-wrap and line placement. Wrapping measures real
// glyph advances; placement centers the line block vertically and each line
// horizontally, so the layout fully determines drawing positions.
package render

import (
	"math"
	"strings"
)

// Line is one placed line of text. X is the left edge, Baseline the y
// coordinate handed to the font drawer, Width the measured advance.
type Line struct {
	Text     string
	X        int
	Baseline int
	Width    int
}

// Layout is the positioned result of wrapping a title onto a canvas.
type Layout struct {
	Lines       []Line
	BlockHeight int
}

// Wrap breaks text into lines that each fit within maxWidth pixels measured
// with fnt. Words are never split: a single word wider than maxWidth is
// placed alone on its own line. Empty or whitespace-only text yields nil.
func Wrap(text string, fnt *Handle, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	currentLine := words[0]
	for _, word := range words[1:] {
		testLine := currentLine + " " + word
		if fnt.Measure(testLine) > maxWidth {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine = testLine
		}
	}
	lines = append(lines, currentLine)

	return lines
}

// Place positions wrapped lines on a width×height canvas. The vertical pitch
// per line is fontSize plus round(fontSize*spacing); spacing is inserted only
// between lines, never after the last one. The block is centered vertically
// by integer floor division and each line is centered horizontally on its
// own measured width.
func Place(lines []string, fnt *Handle, fontSize int, spacing float64, width, height int) Layout {
	if len(lines) == 0 {
		return Layout{}
	}

	gap := int(math.Round(float64(fontSize) * spacing))
	pitch := fontSize + gap
	block := pitch*len(lines) - gap

	top := (height - block) / 2
	ascent := fnt.Ascent()

	placed := make([]Line, 0, len(lines))
	for _, text := range lines {
		w := fnt.Measure(text)
		placed = append(placed, Line{
			Text:     text,
			X:        (width - w) / 2,
			Baseline: top + ascent,
			Width:    w,
		})
		top += pitch
	}

	return Layout{Lines: placed, BlockHeight: block}
}
