package orgmd2xhs

import (
	"fmt"
	"time"
)

// Document format constants.
const (
	FormatOrg      = "org"
	FormatMarkdown = "markdown"
)

// Default render parameters. Width and height match the 3:4 portrait box
// used by Xiaohongshu-style carousel posts.
const (
	DefaultWidth    = 1242
	DefaultHeight   = 1660
	DefaultTemplate = "clean"
	DefaultOutDir   = "dist"
	DefaultMaxPages = 30
)

// deviceScaleFactor doubles raster density for output sharpness. The image
// normalizer scales captures back down to the configured box afterwards.
const deviceScaleFactor = 2

// RenderConfig configures output geometry and destination.
type RenderConfig struct {
	Width    int    // page width in pixels
	Height   int    // page height in pixels
	Template string // template name or file path
	OutDir   string // root output directory; each post gets a subdirectory
	MaxPages int    // safety cap on captured pages
}

// DefaultRenderConfig returns a render configuration with default values.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Template: DefaultTemplate,
		OutDir:   DefaultOutDir,
		MaxPages: DefaultMaxPages,
	}
}

// Validate checks that the render configuration is usable.
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidMaxPages, c.MaxPages)
	}
	return nil
}

// Input is one document to render.
type Input struct {
	Source string // raw document text (required)
	Format string // FormatOrg or FormatMarkdown
	Name   string // post name: output subdirectory and fallback title
}

// Document is a converted input: a title plus an HTML fragment ready for
// template wrapping. Immutable once produced by a DocumentConverter.
type Document struct {
	Title    string
	Fragment string
}

// Result describes a finished render run.
type Result struct {
	Dir   string // per-post output directory
	Title string
	Pages int // number of captured pages
}

// renderMeta is the metadata record persisted as meta.json.
type renderMeta struct {
	Title    string `json:"title"`
	Pages    int    `json:"pages"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Template string `json:"template"`
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
}

// DefaultTimeout is the capture timeout used when none is specified.
const DefaultTimeout = 60 * time.Second

// WithTimeout sets the capture timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("orgmd2xhs: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithRenderConfig sets output geometry, template and destination.
func WithRenderConfig(cfg RenderConfig) Option {
	return func(s *Service) {
		s.render = cfg
	}
}
