// Package assets scans fixed directories for pattern overlays and fonts.
// Undecodable files are skipped with a warning so one bad asset never blocks
// startup.
package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/coursekit/thumbgen/pkg/render"
)

// SystemFonts is the short fixed list of system font names offered next to
// the scanned font files.
var SystemFonts = []string{"Impact", "Arial", "Aptos", "Calibri"}

var (
	patternExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	fontExts    = map[string]bool{".ttf": true, ".otf": true}
)

// Library holds the preloaded pattern rasters and the discovered font files.
type Library struct {
	patterns map[string]image.Image // file name -> decoded RGBA raster
	fonts    map[string]string      // base name -> file path
}

// Scan loads patterns and fonts from their directories. Either directory may
// be empty or missing; that yields an empty library, not an error. Decode
// failures are returned as warnings.
func Scan(patternDir, fontDir string) (*Library, []string) {
	lib := &Library{
		patterns: make(map[string]image.Image),
		fonts:    make(map[string]string),
	}

	var warnings []string

	if patternDir != "" {
		warnings = append(warnings, lib.scanPatterns(patternDir)...)
	}
	if fontDir != "" {
		warnings = append(warnings, lib.scanFonts(fontDir)...)
	}

	return lib, warnings
}

func (l *Library) scanPatterns(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{fmt.Sprintf("pattern directory %s: %v", dir, err)}
	}

	var warnings []string
	for _, e := range entries {
		if e.IsDir() || !patternExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		img, err := imaging.Open(path)
		if err != nil {
			lerr := &render.ImageLoadError{Path: path, Err: err}
			warnings = append(warnings, lerr.Error())
			continue
		}
		l.patterns[e.Name()] = img
	}
	return warnings
}

func (l *Library) scanFonts(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{fmt.Sprintf("font directory %s: %v", dir, err)}
	}

	for _, e := range entries {
		if e.IsDir() || !fontExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		l.fonts[name] = filepath.Join(dir, e.Name())
	}
	return nil
}

// Pattern looks up a preloaded pattern by file name.
func (l *Library) Pattern(name string) (image.Image, bool) {
	img, ok := l.patterns[name]
	return img, ok
}

// PatternNames returns the loaded pattern names, sorted.
func (l *Library) PatternNames() []string {
	names := make([]string, 0, len(l.patterns))
	for n := range l.patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Fonts returns the name→path mapping for the resolver.
func (l *Library) Fonts() map[string]string {
	return l.fonts
}

// FontNames returns the scanned font names followed by the system fonts.
func (l *Library) FontNames() []string {
	names := make([]string, 0, len(l.fonts)+len(SystemFonts))
	for n := range l.fonts {
		names = append(names, n)
	}
	sort.Strings(names)
	return append(names, SystemFonts...)
}

// LoadBackground decodes a single background image. Unlike pattern scanning
// this is fatal to the requesting operation: the caller asked for this
// specific file.
func LoadBackground(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &render.ImageLoadError{Path: path, Err: err}
	}
	return img, nil
}
