package orgmd2xhs

import (
	"fmt"

	"github.com/go-rod/rod"

	"github.com/tuiwo/orgmd2xhs/internal/paginate"
)

// domSurface implements paginate.Surface against a live browser page.
//
// Primitives are small Eval calls against a registry installed on the
// window, so node and page handles survive across calls while the greedy
// loop and all of its decisions stay on the Go side. Nodes are moved
// between the staging area and pages, never copied.
type domSurface struct {
	page *rod.Page
}

// surfaceInitJS installs the registry. The template contract locates the
// staging content under #content and the page root under #pages.
const surfaceInitJS = `() => {
	if (window.__xhs) return;
	window.__xhs = {
		content: document.querySelector('#content'),
		pagesRoot: document.querySelector('#pages'),
		staging: [],
		pages: [],
	};
}`

const surfaceConstantsJS = `() => {
	const cs = getComputedStyle(document.documentElement);
	return [
		cs.getPropertyValue('--page-width'),
		cs.getPropertyValue('--page-height'),
		cs.getPropertyValue('--page-pad-top'),
		cs.getPropertyValue('--page-pad-bottom'),
	];
}`

const surfaceStageJS = `() => {
	const d = window.__xhs;
	while (d.content.firstChild) {
		d.staging.push(d.content.removeChild(d.content.firstChild));
	}
	return d.staging.map(n => ({
		element: n.nodeType === Node.ELEMENT_NODE,
		text: n.textContent || '',
	}));
}`

const surfaceNewPageJS = `() => {
	const d = window.__xhs;
	const page = document.createElement('div');
	page.className = 'page';
	const inner = document.createElement('div');
	inner.className = 'page-inner';
	page.appendChild(inner);
	d.pagesRoot.appendChild(page);
	return d.pages.push(inner) - 1;
}`

const surfacePlaceTitleJS = `(p) => {
	const t = document.querySelector('#doc-title');
	const text = t && t.textContent ? t.textContent.trim() : '';
	if (!text) return;
	const h1 = document.createElement('h1');
	h1.className = 'doc-title';
	h1.textContent = text;
	window.__xhs.pages[p].appendChild(h1);
}`

const surfaceAppendJS = `(p, n) => {
	const d = window.__xhs;
	d.pages[p].appendChild(d.staging[n]);
}`

const surfaceRemoveJS = `(p, n) => {
	const d = window.__xhs;
	d.pages[p].removeChild(d.staging[n]);
}`

const surfaceHeightJS = `(p) => window.__xhs.pages[p].scrollHeight`

const surfaceFooterJS = `(p, label) => {
	const inner = window.__xhs.pages[p];
	const footer = document.createElement('div');
	footer.className = 'page-footer';
	footer.textContent = label;
	inner.parentElement.appendChild(footer);
}`

// Compile-time interface check.
var _ paginate.Surface = (*domSurface)(nil)

// newDOMSurface installs the pagination registry on the page.
func newDOMSurface(page *rod.Page) (*domSurface, error) {
	if _, err := page.Eval(surfaceInitJS); err != nil {
		return nil, fmt.Errorf("installing pagination registry: %w", err)
	}
	return &domSurface{page: page}, nil
}

func (s *domSurface) Constants() (string, string, string, string, error) {
	obj, err := s.page.Eval(surfaceConstantsJS)
	if err != nil {
		return "", "", "", "", fmt.Errorf("reading layout constants: %w", err)
	}
	vals := obj.Value.Arr()
	if len(vals) != 4 {
		return "", "", "", "", fmt.Errorf("reading layout constants: got %d values", len(vals))
	}
	return vals[0].Str(), vals[1].Str(), vals[2].Str(), vals[3].Str(), nil
}

func (s *domSurface) Stage() ([]paginate.Node, error) {
	obj, err := s.page.Eval(surfaceStageJS)
	if err != nil {
		return nil, fmt.Errorf("staging content nodes: %w", err)
	}

	raw := obj.Value.Arr()
	nodes := make([]paginate.Node, 0, len(raw))
	for _, it := range raw {
		nodes = append(nodes, paginate.Node{
			Element: it.Get("element").Bool(),
			Text:    it.Get("text").Str(),
		})
	}
	return nodes, nil
}

func (s *domSurface) NewPage() (int, error) {
	obj, err := s.page.Eval(surfaceNewPageJS)
	if err != nil {
		return 0, fmt.Errorf("creating page container: %w", err)
	}
	return obj.Value.Int(), nil
}

func (s *domSurface) PlaceTitle(page int) error {
	if _, err := s.page.Eval(surfacePlaceTitleJS, page); err != nil {
		return fmt.Errorf("placing title block: %w", err)
	}
	return nil
}

func (s *domSurface) Append(page, node int) error {
	if _, err := s.page.Eval(surfaceAppendJS, page, node); err != nil {
		return fmt.Errorf("appending node %d to page %d: %w", node, page, err)
	}
	return nil
}

func (s *domSurface) Remove(page, node int) error {
	if _, err := s.page.Eval(surfaceRemoveJS, page, node); err != nil {
		return fmt.Errorf("removing node %d from page %d: %w", node, page, err)
	}
	return nil
}

func (s *domSurface) ContentHeight(page int) (int, error) {
	obj, err := s.page.Eval(surfaceHeightJS, page)
	if err != nil {
		return 0, fmt.Errorf("measuring page %d: %w", page, err)
	}
	return obj.Value.Int(), nil
}

func (s *domSurface) SetFooter(page int, label string) error {
	if _, err := s.page.Eval(surfaceFooterJS, page, label); err != nil {
		return fmt.Errorf("setting footer on page %d: %w", page, err)
	}
	return nil
}
