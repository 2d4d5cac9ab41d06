package orgmd2xhs

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// mdTitlePattern matches a leading level-1 ATX heading.
var mdTitlePattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)

// markdownConverter converts Markdown to an HTML fragment using goldmark
// (pure Go, no external tools).
type markdownConverter struct {
	md goldmark.Markdown
}

// newMarkdownConverter creates a markdownConverter with GFM extensions and
// syntax highlighting.
func newMarkdownConverter() *markdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so templates control the palette
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags
		),
	)
	return &markdownConverter{md: md}
}

// Convert converts Markdown content to an HTML fragment. The first level-1
// heading becomes the document title and is removed from the body so the
// title block on page one does not duplicate it; fallbackTitle is used when
// no such heading exists.
//
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *markdownConverter) Convert(ctx context.Context, source, fallbackTitle string) (Document, error) {
	if strings.TrimSpace(source) == "" {
		return Document{}, ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	title := fallbackTitle
	if loc := mdTitlePattern.FindStringSubmatchIndex(source); loc != nil {
		title = strings.TrimSpace(source[loc[2]:loc[3]])
		source = source[:loc[0]] + source[loc[1]:]
	}

	type result struct {
		fragment string
		err      error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(source), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{fragment: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return Document{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return Document{}, r.err
		}
		return Document{Title: title, Fragment: r.fragment}, nil
	}
}
