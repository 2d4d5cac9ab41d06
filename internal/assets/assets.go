// Package assets provides the embedded HTML templates that give rendered
// posts their look.
//
// A template is an html/template document that must honor the layout
// contract the capture pipeline depends on: the four CSS custom properties
// --page-width, --page-height, --page-pad-top and --page-pad-bottom
// declared on :root, a #content element receiving the converted fragment,
// an empty #pages element where page containers materialize, and an
// optional #doc-title element whose text becomes the first page's title
// block. Page containers (.page) size themselves from the custom
// properties.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html.tmpl
var templates embed.FS

// Sentinel errors for asset loading.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrTemplateRender   = errors.New("template rendering failed")
)

// DefaultTemplateName is the template used when none is configured.
const DefaultTemplateName = "clean"

// TemplateData is the data contract between the pipeline and a template.
type TemplateData struct {
	Title   string
	Content template.HTML // converted fragment, already sanitized upstream
	Width   int
	Height  int
}

// ValidateAssetName rejects names containing path separators or traversal
// sequences, so a template name can never escape the embedded set.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// LoadTemplate parses an embedded template by name.
// The name should not include the .html.tmpl extension.
func LoadTemplate(name string) (*template.Template, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	raw, err := templates.ReadFile("templates/" + name + ".html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return ParseTemplate(name, string(raw))
}

// ParseTemplate parses template source obtained outside the embedded set,
// such as a user-supplied template file.
func ParseTemplate(name, src string) (*template.Template, error) {
	tpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrTemplateRender, name, err)
	}
	return tpl, nil
}

// Render executes the template into a complete HTML document string.
func Render(tpl *template.Template, data TemplateData) (string, error) {
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return b.String(), nil
}
