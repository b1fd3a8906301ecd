// fonts.go - Font resolution with per-(name,size) caching and embedded
// fallback. Uses golang.org/x/image/font for OpenType rendering. Falls back
// to Go Regular when a font cannot be loaded, without failing the render.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Handle is an immutable rasterizable font at a fixed pixel size. An
// opentype face reuses internal scratch buffers and is not safe for
// concurrent use, so every measurement and draw goes through the handle's
// mutex; the handle itself may be shared freely across goroutines.
type Handle struct {
	mu       sync.Mutex
	face     font.Face
	Size     int
	Fallback bool // true when the built-in font was substituted
}

// Measure returns the advance width of s in pixels.
func (h *Handle) Measure(s string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return font.MeasureString(h.face, s).Ceil()
}

// Ascent returns the face ascent in pixels, used to convert a line's top
// coordinate into a baseline.
func (h *Handle) Ascent() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.face.Metrics().Ascent.Ceil()
}

// DrawString rasterizes s onto dst with a flat fill, placing the baseline
// dot at (x, y).
func (h *Handle) DrawString(dst draw.Image, s string, x, y int, col color.Color) {
	h.mu.Lock()
	defer h.mu.Unlock()
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: h.face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}

type faceKey struct {
	name string
	size int
}

type faceEntry struct {
	handle *Handle
	err    error // *FontLoadError when the fallback was substituted
}

// Resolver maps font names to rasterizable handles. Entries are cached per
// (name, size) and never evicted; each size is rasterized natively rather
// than scaled from a base size. Safe for concurrent use.
type Resolver struct {
	mu     sync.Mutex
	custom map[string]string // display name -> font file path
	cache  map[faceKey]faceEntry
}

// NewResolver creates a resolver. custom maps library names to .ttf/.otf
// paths; it may be nil.
func NewResolver(custom map[string]string) *Resolver {
	return &Resolver{
		custom: custom,
		cache:  make(map[faceKey]faceEntry),
	}
}

// Resolve returns a usable handle for the named font at the given pixel
// size. The handle is never nil: if the font cannot be loaded, the built-in
// Go Regular font is substituted, the handle's Fallback flag is set, and the
// returned error is a *FontLoadError describing why. Repeated calls with the
// same key return the same handle and the same diagnostic.
func (r *Resolver) Resolve(name string, size int) (*Handle, error) {
	key := faceKey{name, size}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cache[key]; ok {
		return e.handle, e.err
	}

	handle, err := r.load(name, size)
	r.cache[key] = faceEntry{handle, err}
	return handle, err
}

// Reset clears the cache so fonts are re-read from disk on next use.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cache = make(map[faceKey]faceEntry)
	r.mu.Unlock()
}

// load resolves name as a library entry, then as a literal file path, then
// falls back to the embedded font. Called with the mutex held.
func (r *Resolver) load(name string, size int) (*Handle, error) {
	if name != "" {
		path := name
		if p, ok := r.custom[name]; ok {
			path = p
		}

		data, err := os.ReadFile(path)
		if err == nil {
			face, ferr := newFace(data, size)
			if ferr == nil {
				return &Handle{face: face, Size: size}, nil
			}
			err = ferr
		}

		fallback, berr := builtinFace(size)
		if berr != nil {
			return nil, berr
		}
		return &Handle{face: fallback, Size: size, Fallback: true},
			&FontLoadError{Name: name, Size: size, Err: err}
	}

	// Empty name requests the built-in font directly; not a fallback.
	face, err := builtinFace(size)
	if err != nil {
		return nil, err
	}
	return &Handle{face: face, Size: size}, nil
}

func newFace(data []byte, size int) (font.Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

func builtinFace(size int) (font.Face, error) {
	face, err := newFace(goregular.TTF, size)
	if err != nil {
		return nil, fmt.Errorf("built-in font: %w", err)
	}
	return face, nil
}
