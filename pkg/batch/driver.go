// Package batch runs the sequential thumbnail generation loop: substitute
// the item number into the title template, compose the canvas, and hand the
// result to a sink. Cancellation is checked at iteration boundaries only; an
// in-flight render always completes.
package batch

import (
	"context"
	"fmt"
	"image"

	"github.com/coursekit/thumbgen/pkg/config"
	"github.com/coursekit/thumbgen/pkg/render"
)

// Sink consumes finished thumbnails. Write must either persist the image
// under the given name or return an error; partial writes must not clobber
// previously written items.
type Sink interface {
	Write(name string, img image.Image) error
}

// Driver generates a numbered batch from one immutable configuration.
// Background and Pattern are pre-decoded rasters (either may be nil);
// Progress, if set, is called after each item as (completed, total).
type Driver struct {
	Config     config.Config
	Background image.Image
	Pattern    image.Image
	Fonts      *render.Resolver
	Progress   func(completed, total int)

	// Warn receives non-fatal diagnostics such as font fallbacks. Defaults
	// to discarding them.
	Warn func(msg string)
}

// GenerateOne renders the thumbnail for one sequence number at the given
// resolution. It is a pure function of the driver's inputs: identical
// arguments produce pixel-identical output.
func (d *Driver) GenerateOne(n, width, height int) (*image.RGBA, string, error) {
	title := d.Config.ExpandTitle(n)

	canvas, warn, err := render.Compose(d.Config, title, d.Background, d.Pattern, d.Fonts, width, height)
	if err != nil {
		return nil, "", fmt.Errorf("item %d (%s): %w", n, title, err)
	}
	if warn != nil && d.Warn != nil {
		d.Warn(warn.Error())
	}

	return canvas, d.Config.OutputName(title), nil
}

// Preview renders the first batch item at the fixed preview resolution.
func (d *Driver) Preview() (*image.RGBA, error) {
	canvas, _, err := d.GenerateOne(d.Config.StartNumber, config.PreviewWidth, config.PreviewHeight)
	return canvas, err
}

// GenerateBatch renders Config.BatchCount items starting at
// Config.StartNumber at full output resolution, writing each to sink. It
// stops at the first render or write failure, or when ctx is cancelled, and
// always reports how many items were successfully written. Already-written
// files are never touched by a later failure; same-named outputs from prior
// runs are silently overwritten.
func (d *Driver) GenerateBatch(ctx context.Context, sink Sink) (int, error) {
	if err := d.Config.Validate(); err != nil {
		return 0, err
	}

	total := d.Config.BatchCount
	written := 0

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n := d.Config.StartNumber + i
		canvas, name, err := d.GenerateOne(n, d.Config.Width, d.Config.Height)
		if err != nil {
			return written, err
		}

		if err := sink.Write(name, canvas); err != nil {
			return written, &WriteError{Name: name, Written: written, Total: total, Err: err}
		}
		written++

		if d.Progress != nil {
			d.Progress(written, total)
		}
	}

	return written, nil
}
