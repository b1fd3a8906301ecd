// sink.go — Output sinks: PNG files in a directory, or in-memory capture.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// WriteError reports a failed write along with how far the batch got, so the
// caller can tell the user "N of M written".
type WriteError struct {
	Name    string
	Written int
	Total   int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s (%d of %d written): %v", e.Name, e.Written, e.Total, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DirSink writes each thumbnail as a PNG file in a directory, creating the
// directory on first use. Same-named files are overwritten without
// confirmation.
type DirSink struct {
	Dir string
}

func (s DirSink) Write(name string, img image.Image) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	return imaging.Save(img, filepath.Join(s.Dir, name))
}

// MemorySink collects rendered items in order. Used by tests and the preview
// surface.
type MemorySink struct {
	Names  []string
	Images []image.Image
}

func (s *MemorySink) Write(name string, img image.Image) error {
	s.Names = append(s.Names, name)
	s.Images = append(s.Images, img)
	return nil
}
