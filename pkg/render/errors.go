// errors.go — Typed failures so callers can tell fallback-and-continue
// (fonts) apart from abort-and-report (asset I/O).
package render

import "fmt"

// FontLoadError records a font that could not be resolved or parsed. The
// resolver substitutes the built-in font and rendering continues; this error
// exists for diagnostics, not control flow.
type FontLoadError struct {
	Name string
	Size int
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("font %q at %dpx: %v (using built-in fallback)", e.Name, e.Size, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// ImageLoadError records a background or pattern file that could not be
// decoded. The operation that requested the image is aborted.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }
