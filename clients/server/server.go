// Package server exposes thumbnail preview and batch generation over HTTP.
// It replaces the original desktop preview pane: every configuration change
// on a client maps to one POST /api/preview round trip.
package server

import (
	"bytes"
	"errors"
	"flag"
	"image/png"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/thumbgen/pkg/assets"
	"github.com/coursekit/thumbgen/pkg/batch"
	"github.com/coursekit/thumbgen/pkg/config"
	"github.com/coursekit/thumbgen/pkg/render"
)

type srv struct {
	lib    *assets.Library
	fonts  *render.Resolver
	outDir string
}

// RunServe parses serve-mode flags and blocks serving the HTTP API.
func RunServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		port       string
		patternDir string
		fontDir    string
		outDir     string
	)
	fs.StringVar(&port, "port", "8080", "Listen port")
	fs.StringVar(&patternDir, "patterns", "patterns", "Pattern overlay directory")
	fs.StringVar(&fontDir, "fonts", "fonts", "Font directory (.ttf/.otf)")
	fs.StringVar(&outDir, "out", "output", "Directory for generated batches")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lib, warnings := assets.Scan(patternDir, fontDir)
	for _, w := range warnings {
		log.Println("Warning:", w)
	}

	s := &srv{
		lib:    lib,
		fonts:  render.NewResolver(lib.Fonts()),
		outDir: outDir,
	}

	r := gin.Default()
	s.registerRoutes(r)

	log.Println("listening on http://localhost:" + port)
	return r.Run(":" + port)
}

func (s *srv) registerRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/patterns", s.listPatterns)
		api.GET("/fonts", s.listFonts)
		api.POST("/preview", s.preview)
		api.POST("/generate", s.generate)
	}
}

func (s *srv) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *srv) listPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"patterns": s.lib.PatternNames()})
}

func (s *srv) listFonts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fonts": s.lib.FontNames()})
}

// driverFor builds a batch driver from a request config, resolving the named
// pattern and background image.
func (s *srv) driverFor(c *gin.Context) (*batch.Driver, bool) {
	cfg := config.Default()
	if err := c.BindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	d := &batch.Driver{
		Config: cfg,
		Fonts:  s.fonts,
		Warn:   func(msg string) { log.Println("Warning:", msg) },
	}

	if cfg.Pattern != "" {
		pat, ok := s.lib.Pattern(cfg.Pattern)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pattern: " + cfg.Pattern})
			return nil, false
		}
		d.Pattern = pat
	}

	if cfg.BackgroundImage != "" {
		bg, err := assets.LoadBackground(cfg.BackgroundImage)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		d.Background = bg
	}

	return d, true
}

// preview renders the first batch item at preview resolution and returns it
// as a PNG body.
func (s *srv) preview(c *gin.Context) {
	d, ok := s.driverFor(c)
	if !ok {
		return
	}

	img, err := d.Preview()
	if err != nil {
		status := http.StatusInternalServerError
		var cerr *config.ConfigurationError
		if errors.As(err, &cerr) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// generate runs the full batch into the server's output directory.
func (s *srv) generate(c *gin.Context) {
	d, ok := s.driverFor(c)
	if !ok {
		return
	}

	written, err := d.GenerateBatch(c.Request.Context(), batch.DirSink{Dir: s.outDir})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"written": written,
			"total":   d.Config.BatchCount,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"written": written, "total": d.Config.BatchCount})
}
