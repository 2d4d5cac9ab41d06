// Package paginate splits a live document's content into fixed-height pages.
//
// The algorithm is greedy and measurement-driven: a node's true rendered
// height depends on page width, inherited fonts and reflow, so nodes are
// attached to a real page and measured rather than sized up front. The
// Surface interface is the minimal contract to such a live document; the
// production implementation drives a headless browser page, tests use an
// in-memory fake.
package paginate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrLayoutConstants indicates a required layout custom property is missing
// from the rendered template or is not numeric.
var ErrLayoutConstants = errors.New("missing or invalid layout constants")

// Layout custom property names the template must declare on its root.
const (
	PropPageWidth  = "--page-width"
	PropPageHeight = "--page-height"
	PropPadTop     = "--page-pad-top"
	PropPadBottom  = "--page-pad-bottom"
)

// Constants is the page box model read from the rendered template.
type Constants struct {
	PageWidth  int
	PageHeight int
	PadTop     int
	PadBottom  int
}

// ContentHeight returns the vertical budget available to page content.
func (c Constants) ContentHeight() int {
	return c.PageHeight - c.PadTop - c.PadBottom
}

// Validate checks the box model is internally consistent: positive page
// box, non-negative padding, and a positive content budget.
func (c Constants) Validate() error {
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("%w: page box %dx%d", ErrLayoutConstants, c.PageWidth, c.PageHeight)
	}
	if c.PadTop < 0 || c.PadBottom < 0 {
		return fmt.Errorf("%w: negative padding %d/%d", ErrLayoutConstants, c.PadTop, c.PadBottom)
	}
	if c.ContentHeight() <= 0 {
		return fmt.Errorf("%w: padding %d+%d leaves no content height in %d",
			ErrLayoutConstants, c.PadTop, c.PadBottom, c.PageHeight)
	}
	return nil
}

// ParseConstants converts raw computed-style values into Constants.
// Values arrive as the declared custom property strings ("1242px", " 1242").
func ParseConstants(width, height, padTop, padBottom string) (Constants, error) {
	w, err := parsePixels(PropPageWidth, width)
	if err != nil {
		return Constants{}, err
	}
	h, err := parsePixels(PropPageHeight, height)
	if err != nil {
		return Constants{}, err
	}
	pt, err := parsePixels(PropPadTop, padTop)
	if err != nil {
		return Constants{}, err
	}
	pb, err := parsePixels(PropPadBottom, padBottom)
	if err != nil {
		return Constants{}, err
	}
	return Constants{PageWidth: w, PageHeight: h, PadTop: pt, PadBottom: pb}, nil
}

// parsePixels parses a CSS length like "1242px" or "96" into whole pixels.
// Fractional values truncate toward zero, matching parseInt in the browser.
func parsePixels(prop, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is not set", ErrLayoutConstants, prop)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is %q", ErrLayoutConstants, prop, raw)
	}
	return int(f), nil
}

// Node describes one staged block-level unit of document content.
type Node struct {
	Element bool   // true for element nodes
	Text    string // textual content, used for blank-text filtering
}

// Blank reports whether the node carries no renderable content: a
// non-element node whose text is entirely whitespace.
func (n Node) Blank() bool {
	return !n.Element && strings.TrimSpace(n.Text) == ""
}

// Surface is the paginator's contract to a live, measurable document.
// Nodes are addressed by their index in the slice Stage returned, pages by
// the index NewPage handed out. Append moves a staged node into a page
// (nodes are moved, never copied); Remove detaches it again so it can be
// re-appended elsewhere.
type Surface interface {
	// Constants returns the raw values of the four layout custom
	// properties from the document root's computed style.
	Constants() (width, height, padTop, padBottom string, err error)

	// Stage detaches the content root's children into a staging area and
	// describes them in document order.
	Stage() ([]Node, error)

	// NewPage materializes an empty fixed-size page container with an
	// inner content area and returns the page's index.
	NewPage() (int, error)

	// PlaceTitle copies the document title, if the document has one, to
	// the top of the given page's content area.
	PlaceTitle(page int) error

	// Append moves staged node n into page p's content area.
	Append(page, node int) error

	// Remove detaches staged node n from page p's content area.
	Remove(page, node int) error

	// ContentHeight returns the scroll height of page p's content area.
	ContentHeight(page int) (int, error)

	// SetFooter appends a footer displaying label to page p's container.
	SetFooter(page int, label string) error
}

// Paginator runs the greedy page-splitting pass over a Surface.
//
// A Paginator is single-use per live document: invoking Run again returns
// the first run's page count without touching the surface. Create a fresh
// Paginator (and surface) for every render run.
type Paginator struct {
	surface Surface
	done    bool
	pages   int
}

// New creates a Paginator for the given surface.
func New(s Surface) *Paginator {
	return &Paginator{surface: s}
}

// Run partitions the staged content into pages and returns the page count.
//
// Content nodes are appended to the current page in document order; when a
// page's measured content height exceeds the budget the node is moved to a
// fresh page. The overflow test is strictly greater-than, so content that
// exactly fills a page stays on it. A single node taller than the budget
// keeps its own page: the check only triggers page breaks, it never drops
// or splits content. At least one page always results, holding at most the
// document title when there is no content. Footers are assigned 1..N once
// the final page sequence is known.
func (p *Paginator) Run(ctx context.Context) (int, error) {
	if p.done {
		return p.pages, nil
	}

	rawW, rawH, rawT, rawB, err := p.surface.Constants()
	if err != nil {
		return 0, err
	}
	cons, err := ParseConstants(rawW, rawH, rawT, rawB)
	if err != nil {
		return 0, err
	}
	if err := cons.Validate(); err != nil {
		return 0, err
	}
	budget := cons.ContentHeight()

	nodes, err := p.surface.Stage()
	if err != nil {
		return 0, err
	}

	first, err := p.surface.NewPage()
	if err != nil {
		return 0, err
	}
	if err := p.surface.PlaceTitle(first); err != nil {
		return 0, err
	}

	pages := []int{first}
	cur := first

	for i, n := range nodes {
		if n.Blank() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := p.surface.Append(cur, i); err != nil {
			return 0, err
		}
		h, err := p.surface.ContentHeight(cur)
		if err != nil {
			return 0, err
		}
		if h <= budget {
			continue
		}
		if err := p.surface.Remove(cur, i); err != nil {
			return 0, err
		}
		cur, err = p.surface.NewPage()
		if err != nil {
			return 0, err
		}
		pages = append(pages, cur)
		if err := p.surface.Append(cur, i); err != nil {
			return 0, err
		}
	}

	for i, page := range pages {
		if err := p.surface.SetFooter(page, strconv.Itoa(i+1)); err != nil {
			return 0, err
		}
	}

	p.done = true
	p.pages = len(pages)
	return p.pages, nil
}
