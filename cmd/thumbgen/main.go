// thumbgen — Batch course-thumbnail generation.
//
// Usage:
//
//	thumbgen [--config <path>] [options]        generate a batch
//	thumbgen preview -o <file> [options]        render one preview image
//	thumbgen serve [--port 8080]                start the HTTP API
//	thumbgen init                               write a sample config
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/coursekit/thumbgen/clients/server"
	"github.com/coursekit/thumbgen/pkg/assets"
	"github.com/coursekit/thumbgen/pkg/batch"
	"github.com/coursekit/thumbgen/pkg/config"
	"github.com/coursekit/thumbgen/pkg/render"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"help"}
	}

	switch args[0] {
	case "init":
		if err := runInit(args[1:]); err != nil {
			fatal(err)
		}
	case "preview":
		if err := runPreview(args[1:]); err != nil {
			fatal(err)
		}
	case "serve":
		if err := server.RunServe(args[1:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		if err := runGenerate(args); err != nil {
			fatal(err)
		}
	}
}

// genOpts carries the parsed generate/preview inputs: the effective config
// plus the asset and output directories.
type genOpts struct {
	cfg        config.Config
	patternDir string
	fontDir    string
	outDir     string
}

func parseGenFlags(name string, args []string, extra func(fs *flag.FlagSet)) (*genOpts, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	var configPath string
	opts := &genOpts{}

	fs.StringVar(&configPath, "config", "", "Path to config JSON")
	fs.StringVar(&opts.patternDir, "patterns", "patterns", "Pattern overlay directory")
	fs.StringVar(&opts.fontDir, "fonts", "fonts", "Font directory (.ttf/.otf)")
	fs.StringVar(&opts.outDir, "out", "output", "Output directory")

	def := config.Default()
	course := fs.String("course", def.CourseName, "Course name (filename prefix)")
	title := fs.String("title", def.TitleTemplate, "Title template; # is the item number")
	start := fs.Int("start", def.StartNumber, "First sequence number")
	count := fs.Int("count", def.BatchCount, "Number of thumbnails")
	fontName := fs.String("font", def.FontName, "Font name or .ttf/.otf path")
	fontSize := fs.Int("font-size", def.FontSize, "Font size in pixels")
	margin := fs.Int("margin", def.TextMargin, "Text margin in pixels per side")
	spacing := fs.Float64("spacing", def.LineSpacing, "Line spacing as a fraction of font size")
	textColor := fs.String("text-color", def.TextColor, "Text color '#rrggbb'")
	bgColor := fs.String("bg-color", def.BackgroundColor, "Background color '#rrggbb'")
	bgImage := fs.String("bg-image", def.BackgroundImage, "Background image path (overrides color)")
	pattern := fs.String("pattern", def.Pattern, "Pattern overlay name from the pattern directory")
	opacity := fs.Int("opacity", def.PatternOpacity, "Pattern opacity 0-100")
	width := fs.Int("width", def.Width, "Output width in pixels")
	height := fs.Int("height", def.Height, "Output height in pixels")

	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := def
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	// Explicit flags override the config file.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["course"] {
		cfg.CourseName = *course
	}
	if set["title"] {
		cfg.TitleTemplate = *title
	}
	if set["start"] {
		cfg.StartNumber = *start
	}
	if set["count"] {
		cfg.BatchCount = *count
	}
	if set["font"] {
		cfg.FontName = *fontName
	}
	if set["font-size"] {
		cfg.FontSize = *fontSize
	}
	if set["margin"] {
		cfg.TextMargin = *margin
	}
	if set["spacing"] {
		cfg.LineSpacing = *spacing
	}
	if set["text-color"] {
		cfg.TextColor = *textColor
	}
	if set["bg-color"] {
		cfg.BackgroundColor = *bgColor
	}
	if set["bg-image"] {
		cfg.BackgroundImage = *bgImage
	}
	if set["pattern"] {
		cfg.Pattern = *pattern
	}
	if set["opacity"] {
		cfg.PatternOpacity = *opacity
	}
	if set["width"] {
		cfg.Width = *width
	}
	if set["height"] {
		cfg.Height = *height
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts.cfg = cfg
	return opts, nil
}

// buildDriver scans assets and wires a batch driver for the config.
func buildDriver(opts *genOpts) (*batch.Driver, error) {
	lib, warnings := assets.Scan(opts.patternDir, opts.fontDir)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	d := &batch.Driver{
		Config: opts.cfg,
		Fonts:  render.NewResolver(lib.Fonts()),
		Warn:   func(msg string) { fmt.Fprintf(os.Stderr, "Warning: %s\n", msg) },
	}

	if opts.cfg.Pattern != "" {
		pat, ok := lib.Pattern(opts.cfg.Pattern)
		if !ok {
			return nil, fmt.Errorf("unknown pattern %q (available: %v)", opts.cfg.Pattern, lib.PatternNames())
		}
		d.Pattern = pat
	}

	if opts.cfg.BackgroundImage != "" {
		bg, err := assets.LoadBackground(opts.cfg.BackgroundImage)
		if err != nil {
			return nil, err
		}
		d.Background = bg
	}

	return d, nil
}

func runGenerate(args []string) error {
	opts, err := parseGenFlags("thumbgen", args, nil)
	if err != nil {
		return err
	}

	d, err := buildDriver(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	d.Progress = func(done, total int) {
		fmt.Printf("Generated %d of %d\n", done, total)
	}

	// Ctrl-C stops cleanly at the next iteration boundary.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	written, err := d.GenerateBatch(ctx, batch.DirSink{Dir: opts.outDir})
	if err != nil {
		return fmt.Errorf("%w (%d of %d written to %s)", err, written, opts.cfg.BatchCount, opts.outDir)
	}

	fmt.Printf("Done: %d thumbnails in %s\n", written, opts.outDir)
	return nil
}

func runPreview(args []string) error {
	var output string
	opts, err := parseGenFlags("preview", args, func(fs *flag.FlagSet) {
		fs.StringVar(&output, "o", "preview.png", "Preview output file")
	})
	if err != nil {
		return err
	}

	d, err := buildDriver(opts)
	if err != nil {
		return err
	}

	img, err := d.Preview()
	if err != nil {
		return err
	}

	if err := (batch.DirSink{Dir: "."}).Write(output, img); err != nil {
		return err
	}
	fmt.Printf("Preview: %s\n", output)
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var configOut string
	fs.StringVar(&configOut, "config", "config.json", "Output path for sample config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(configOut, []byte(config.SampleJSON()), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Created: %s\n", configOut)
	fmt.Println("Run: thumbgen --config " + configOut)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`thumbgen — Batch Course-Thumbnail Generation

USAGE:
    thumbgen [--config <path>] [options]
    thumbgen preview -o <file> [options]
    thumbgen serve [--port 8080]
    thumbgen init [--config <path>]

GENERATE:
    --config <path>        Config JSON (flags below override its fields)
    --out <dir>            Output directory (default: output)
    --course <name>        Course name used as the filename prefix
    --title <template>     Title template; '#' becomes the item number
    --start <n>            First sequence number (default: 1)
    --count <n>            Number of thumbnails (default: 10)
    --font <name|path>     Library font name or .ttf/.otf path
    --font-size <px>       Font size (default: 60)
    --margin <px>          Text margin per side (default: 100)
    --spacing <ratio>      Line spacing fraction of font size (default: 0.3)
    --text-color <hex>     Text color (default: #ffffff)
    --bg-color <hex>       Background color (default: #d73f09)
    --bg-image <path>      Background photo, fill-cropped to the canvas
    --pattern <name>       Overlay pattern from the pattern directory
    --opacity <pct>        Pattern opacity 0-100 (default: 100)
    --width <px>           Output width (default: 1280)
    --height <px>          Output height (default: 720)
    --patterns <dir>       Pattern directory (default: patterns)
    --fonts <dir>          Font directory (default: fonts)

PREVIEW:
    Same options, plus -o <file>. Renders the first item at 800x450.

SERVER:
    thumbgen serve [--port 8080] [--patterns dir] [--fonts dir] [--out dir]

EXAMPLES:
    thumbgen init
    thumbgen --config config.json --out thumbs
    thumbgen --title "Week # Overview" --course "CS 101" --count 12
    thumbgen preview -o check.png --pattern dots.png --opacity 40
`)
}
