package orgmd2xhs

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/tuiwo/orgmd2xhs/internal/assets"
	"github.com/tuiwo/orgmd2xhs/internal/fileutil"
	"github.com/tuiwo/orgmd2xhs/internal/imaging"
)

// Service orchestrates the document-to-images pipeline.
// Create with New, render with Render, and Close when done.
type Service struct {
	cfg      serviceConfig
	render   RenderConfig
	org      DocumentConverter
	markdown DocumentConverter
	capturer pageCapturer
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithRenderConfig).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:      serviceConfig{timeout: DefaultTimeout},
		render:   DefaultRenderConfig(),
		org:      newOrgConverter(),
		markdown: newMarkdownConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create capturer if not injected (e.g., by tests)
	if s.capturer == nil {
		s.capturer = newRodCapturer(s.cfg.timeout)
	}

	return s
}

// Render runs the full pipeline for one document and returns the result.
// The context is used for cancellation and timeout.
//
// On success the post directory contains render.html, caption.txt,
// NNN.png for every captured page, and meta.json. Any failure aborts the
// run: there is no partial-success mode, and the caller decides whether to
// retry the whole run.
func (s *Service) Render(ctx context.Context, input Input) (*Result, error) {
	if err := s.render.Validate(); err != nil {
		return nil, err
	}

	conv, err := s.converterFor(input.Format)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = "post"
	}

	// Convert document
	doc, err := conv.Convert(ctx, input.Source, name)
	if err != nil {
		return nil, fmt.Errorf("converting document: %w", err)
	}

	// Wrap the fragment in the configured template
	tpl, err := s.loadTemplate()
	if err != nil {
		return nil, err
	}
	htmlDoc, err := assets.Render(tpl, assets.TemplateData{
		Title:   doc.Title,
		Content: template.HTML(doc.Fragment), // #nosec G203 -- fragment comes from our converters
		Width:   s.render.Width,
		Height:  s.render.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	// Write HTML snapshot and caption
	postDir := filepath.Join(s.render.OutDir, name)
	if err := os.MkdirAll(postDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	htmlPath := filepath.Join(postDir, "render.html")
	if err := os.WriteFile(htmlPath, []byte(htmlDoc), 0o644); err != nil { // #nosec G306
		return nil, fmt.Errorf("writing HTML snapshot: %w", err)
	}

	captionPath := filepath.Join(postDir, "caption.txt")
	if err := os.WriteFile(captionPath, []byte(Caption(doc.Title, doc.Fragment)), 0o644); err != nil { // #nosec G306
		return nil, fmt.Errorf("writing caption: %w", err)
	}

	// Capture pages (file:// needs an absolute path)
	absHTML, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("resolving HTML path: %w", err)
	}
	pages, err := s.capturer.CapturePages(ctx, absHTML, postDir, s.render)
	if err != nil {
		return nil, fmt.Errorf("capturing pages: %w", err)
	}

	// Hard invariant: every image exactly matches the configured box
	if err := imaging.VerifyDir(postDir, s.render.Width, s.render.Height); err != nil {
		return nil, fmt.Errorf("verifying images: %w", err)
	}

	// Persist metadata
	meta := renderMeta{
		Title:    doc.Title,
		Pages:    pages,
		Width:    s.render.Width,
		Height:   s.render.Height,
		Template: s.render.Template,
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	metaPath := filepath.Join(postDir, "meta.json")
	if err := os.WriteFile(metaPath, append(metaBytes, '\n'), 0o644); err != nil { // #nosec G306
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	return &Result{Dir: postDir, Title: doc.Title, Pages: pages}, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.capturer != nil {
		return s.capturer.Close()
	}
	return nil
}

// converterFor selects the document converter for a format.
func (s *Service) converterFor(format string) (DocumentConverter, error) {
	switch format {
	case FormatOrg:
		return s.org, nil
	case FormatMarkdown, "md":
		return s.markdown, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// loadTemplate resolves the configured template (name or file path).
func (s *Service) loadTemplate() (*template.Template, error) {
	name := s.render.Template
	if name == "" {
		name = assets.DefaultTemplateName
	}

	if fileutil.IsFilePath(name) {
		src, err := os.ReadFile(name) // #nosec G304 -- user-provided template path
		if err != nil {
			return nil, fmt.Errorf("loading template file %q: %w", name, err)
		}
		return assets.ParseTemplate(filepath.Base(name), string(src))
	}

	return assets.LoadTemplate(name)
}
