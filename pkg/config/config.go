// Package config provides the thumbnail generation parameters and their
// validation. A Config is an immutable value passed into each render call;
// callers construct a new Config per change rather than mutating a shared one.
package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Preview resolution. Export resolution comes from Config; the preview uses
// the same layout math at a smaller canvas so it stays a faithful proxy.
const (
	PreviewWidth  = 800
	PreviewHeight = 450
)

// Placeholder is the token in TitleTemplate replaced by the sequence number.
const Placeholder = "#"

// Config holds every parameter that drives thumbnail generation.
type Config struct {
	CourseName    string `json:"courseName"`    // optional, used in filenames only
	TitleTemplate string `json:"titleTemplate"` // "#" is replaced by the item number

	StartNumber int `json:"startNumber"`
	BatchCount  int `json:"batchCount"`

	FontName    string  `json:"fontName"`    // library name, file path, or empty for built-in
	FontSize    int     `json:"fontSize"`    // pixels
	TextMargin  int     `json:"textMargin"`  // pixels from each horizontal edge
	LineSpacing float64 `json:"lineSpacing"` // fraction of font size between lines

	TextColor       string `json:"textColor"`       // "#rrggbb"
	BackgroundColor string `json:"backgroundColor"` // "#rrggbb", used when no image

	BackgroundImage string `json:"backgroundImage"` // path, empty = solid color
	Pattern         string `json:"pattern"`         // pattern library name, empty = none
	PatternOpacity  int    `json:"patternOpacity"`  // 0–100

	Width  int `json:"width"`
	Height int `json:"height"`
}

// Default returns a Config matching the original tool's startup state.
func Default() Config {
	return Config{
		TitleTemplate:   "Week # Overview",
		StartNumber:     1,
		BatchCount:      10,
		FontSize:        60,
		TextMargin:      100,
		LineSpacing:     0.3,
		TextColor:       "#ffffff",
		BackgroundColor: "#d73f09",
		PatternOpacity:  100,
		Width:           1280,
		Height:          720,
	}
}

// ConfigurationError reports an invalid parameter value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks all numeric ranges and color formats. The first violation
// found is returned as a *ConfigurationError.
func (c Config) Validate() error {
	if c.StartNumber < 1 {
		return &ConfigurationError{"startNumber", "must be at least 1"}
	}
	if c.BatchCount < 1 {
		return &ConfigurationError{"batchCount", "must be at least 1"}
	}
	if c.FontSize <= 0 {
		return &ConfigurationError{"fontSize", "must be positive"}
	}
	if c.TextMargin < 0 {
		return &ConfigurationError{"textMargin", "must not be negative"}
	}
	if c.LineSpacing < 0 {
		return &ConfigurationError{"lineSpacing", "must not be negative"}
	}
	if c.PatternOpacity < 0 || c.PatternOpacity > 100 {
		return &ConfigurationError{"patternOpacity", "must be in 0–100"}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return &ConfigurationError{"width/height", "must be positive"}
	}
	if c.Width-2*c.TextMargin <= 0 {
		return &ConfigurationError{"textMargin",
			fmt.Sprintf("margins of %dpx leave no room for text on a %dpx-wide canvas", c.TextMargin, c.Width)}
	}
	if _, err := ParseHex(c.TextColor); err != nil {
		return &ConfigurationError{"textColor", err.Error()}
	}
	if _, err := ParseHex(c.BackgroundColor); err != nil {
		return &ConfigurationError{"backgroundColor", err.Error()}
	}
	return nil
}

// ExpandTitle substitutes n for every placeholder occurrence in the title
// template. A template without a placeholder yields the same title for every
// item.
func (c Config) ExpandTitle(n int) string {
	return strings.ReplaceAll(c.TitleTemplate, Placeholder, strconv.Itoa(n))
}

// OutputName composes the output filename for a rendered title. The course
// name is a filename prefix only; it never appears in the drawn text.
func (c Config) OutputName(title string) string {
	course := strings.TrimSpace(c.CourseName)
	if course != "" {
		return course + " - " + title + "_Thumbnail.png"
	}
	return title + "_Thumbnail.png"
}

// ParseHex converts a "#rrggbb" string to an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: expected 6-char hex", s)
	}

	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid red channel in %q", s)
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid green channel in %q", s)
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid blue channel in %q", s)
	}

	return color.RGBA{uint8(rv), uint8(gv), uint8(bv), 255}, nil
}
