package paginate

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeSurface is an in-memory Surface with scripted node heights.
// A page's content height is the sum of the heights of the nodes it holds,
// plus the title block height on the page carrying the title.
type fakeSurface struct {
	raw     [4]string
	nodes   []Node
	heights []int // rendered height per staged node
	titleH  int   // 0 = document has no title

	pages    [][]int // node indexes per page
	titled   map[int]bool
	footers  map[int]string
	appends  int
	staged   bool
	stageErr error
}

func newFakeSurface(budget int, heights ...int) *fakeSurface {
	nodes := make([]Node, len(heights))
	for i := range nodes {
		nodes[i] = Node{Element: true, Text: fmt.Sprintf("node %d", i)}
	}
	return &fakeSurface{
		raw:     [4]string{"600px", fmt.Sprintf("%dpx", budget + 40 + 60), "40px", "60px"},
		nodes:   nodes,
		heights: heights,
		titled:  map[int]bool{},
		footers: map[int]string{},
	}
}

func (f *fakeSurface) Constants() (string, string, string, string, error) {
	return f.raw[0], f.raw[1], f.raw[2], f.raw[3], nil
}

func (f *fakeSurface) Stage() ([]Node, error) {
	if f.stageErr != nil {
		return nil, f.stageErr
	}
	f.staged = true
	return f.nodes, nil
}

func (f *fakeSurface) NewPage() (int, error) {
	f.pages = append(f.pages, nil)
	return len(f.pages) - 1, nil
}

func (f *fakeSurface) PlaceTitle(page int) error {
	if f.titleH > 0 {
		f.titled[page] = true
	}
	return nil
}

func (f *fakeSurface) Append(page, node int) error {
	f.appends++
	f.pages[page] = append(f.pages[page], node)
	return nil
}

func (f *fakeSurface) Remove(page, node int) error {
	nodes := f.pages[page]
	if len(nodes) == 0 || nodes[len(nodes)-1] != node {
		return fmt.Errorf("remove: node %d is not the last node of page %d", node, page)
	}
	f.pages[page] = nodes[:len(nodes)-1]
	return nil
}

func (f *fakeSurface) ContentHeight(page int) (int, error) {
	h := 0
	if f.titled[page] {
		h += f.titleH
	}
	for _, n := range f.pages[page] {
		h += f.heights[n]
	}
	return h, nil
}

func (f *fakeSurface) SetFooter(page int, label string) error {
	f.footers[page] = label
	return nil
}

// placed flattens the fake's pages into the ordered node sequence.
func (f *fakeSurface) placed() []int {
	var out []int
	for _, pg := range f.pages {
		out = append(out, pg...)
	}
	return out
}

func TestParseConstants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     [4]string
		want    Constants
		wantErr bool
	}{
		{
			name: "pixel units",
			raw:  [4]string{"1242px", "1660px", "96px", "120px"},
			want: Constants{PageWidth: 1242, PageHeight: 1660, PadTop: 96, PadBottom: 120},
		},
		{
			name: "bare numbers with whitespace",
			raw:  [4]string{" 1242 ", "1660", " 96px ", "0"},
			want: Constants{PageWidth: 1242, PageHeight: 1660, PadTop: 96, PadBottom: 0},
		},
		{
			name: "fractional value truncates",
			raw:  [4]string{"1242.7px", "1660px", "96px", "120px"},
			want: Constants{PageWidth: 1242, PageHeight: 1660, PadTop: 96, PadBottom: 120},
		},
		{
			name:    "missing constant",
			raw:     [4]string{"1242px", "", "96px", "120px"},
			wantErr: true,
		},
		{
			name:    "non-numeric constant",
			raw:     [4]string{"1242px", "tall", "96px", "120px"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseConstants(tt.raw[0], tt.raw[1], tt.raw[2], tt.raw[3])
			if tt.wantErr {
				if !errors.Is(err, ErrLayoutConstants) {
					t.Fatalf("ParseConstants() error = %v, want ErrLayoutConstants", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConstants() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseConstants() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConstants_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cons    Constants
		wantErr bool
	}{
		{
			name: "valid",
			cons: Constants{PageWidth: 1242, PageHeight: 1660, PadTop: 96, PadBottom: 120},
		},
		{
			name:    "zero width",
			cons:    Constants{PageWidth: 0, PageHeight: 1660, PadTop: 96, PadBottom: 120},
			wantErr: true,
		},
		{
			name:    "negative padding",
			cons:    Constants{PageWidth: 1242, PageHeight: 1660, PadTop: -1, PadBottom: 120},
			wantErr: true,
		},
		{
			name:    "padding consumes page",
			cons:    Constants{PageWidth: 1242, PageHeight: 200, PadTop: 100, PadBottom: 100},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cons.Validate()
			if tt.wantErr && !errors.Is(err, ErrLayoutConstants) {
				t.Fatalf("Validate() error = %v, want ErrLayoutConstants", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestNode_Blank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node Node
		want bool
	}{
		{"whitespace text node", Node{Element: false, Text: " \n\t "}, true},
		{"empty text node", Node{Element: false, Text: ""}, true},
		{"text node with content", Node{Element: false, Text: "hello"}, false},
		{"empty element", Node{Element: true, Text: ""}, false},
		{"element with whitespace text", Node{Element: true, Text: "  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.node.Blank(); got != tt.want {
				t.Errorf("Blank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaginator_Run_GreedySplit(t *testing.T) {
	t.Parallel()

	// Budget 250: nodes 100+100 fit page 1, the third overflows to page 2.
	fake := newFakeSurface(250, 100, 100, 100)
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 2 {
		t.Fatalf("Run() = %d pages, want 2", got)
	}

	wantPages := [][]int{{0, 1}, {2}}
	for i, want := range wantPages {
		if len(fake.pages[i]) != len(want) {
			t.Fatalf("page %d holds %v, want %v", i, fake.pages[i], want)
		}
		for j, n := range want {
			if fake.pages[i][j] != n {
				t.Errorf("page %d holds %v, want %v", i, fake.pages[i], want)
			}
		}
	}
}

func TestPaginator_Run_PartitionIsOrderedAndComplete(t *testing.T) {
	t.Parallel()

	heights := []int{120, 340, 80, 900, 45, 45, 45, 610, 200, 10}
	fake := newFakeSurface(500, heights...)
	if _, err := New(fake).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	placed := fake.placed()
	if len(placed) != len(heights) {
		t.Fatalf("placed %d nodes, want %d (no node dropped or duplicated)", len(placed), len(heights))
	}
	for i, n := range placed {
		if n != i {
			t.Fatalf("placed sequence %v is not order-preserving", placed)
		}
	}
}

func TestPaginator_Run_ExactFillStaysOnPage(t *testing.T) {
	t.Parallel()

	// 100 + 150 == budget exactly: strictly-greater-than comparison keeps
	// the second node on page 1.
	fake := newFakeSurface(250, 100, 150)
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Run() = %d pages, want 1 for exactly-full page", got)
	}
}

func TestPaginator_Run_OnePixelOverflowBreaks(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250, 100, 151)
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 2 {
		t.Errorf("Run() = %d pages, want 2 for one-pixel overflow", got)
	}
}

func TestPaginator_Run_OversizedNodeKeepsOwnPage(t *testing.T) {
	t.Parallel()

	// The 900-high node cannot fit any page; it still lands alone on its
	// own page and neighbors flow around it.
	fake := newFakeSurface(250, 100, 900, 100)
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 3 {
		t.Fatalf("Run() = %d pages, want 3", got)
	}
	if len(fake.pages[1]) != 1 || fake.pages[1][0] != 1 {
		t.Errorf("oversized node not alone on page 2: %v", fake.pages[1])
	}
	if len(fake.placed()) != 3 {
		t.Errorf("oversized node handling dropped content: %v", fake.pages)
	}
}

func TestPaginator_Run_FiltersBlankTextNodes(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250, 100, 0, 100)
	fake.nodes[1] = Node{Element: false, Text: "\n   \n"}
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 1 {
		t.Fatalf("Run() = %d pages, want 1", got)
	}
	placed := fake.placed()
	if len(placed) != 2 || placed[0] != 0 || placed[1] != 2 {
		t.Errorf("placed = %v, want [0 2] (blank node filtered)", placed)
	}
}

func TestPaginator_Run_TitleOnFirstPageOnly(t *testing.T) {
	t.Parallel()

	// Title block (80) plus any 200-high node overflows the 250 budget, so
	// all content flows to later pages while the title stays on page 1.
	fake := newFakeSurface(250, 200, 200)
	fake.titleH = 80
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 3 {
		t.Fatalf("Run() = %d pages, want 3", got)
	}
	if !fake.titled[0] {
		t.Error("page 1 is missing the title block")
	}
	for page := 1; page < got; page++ {
		if fake.titled[page] {
			t.Errorf("title repeated on page %d", page+1)
		}
	}
}

func TestPaginator_Run_FooterLabels(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250, 200, 200, 200, 200)
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 4 {
		t.Fatalf("Run() = %d pages, want 4", got)
	}
	for i := 0; i < got; i++ {
		want := fmt.Sprintf("%d", i+1)
		if fake.footers[i] != want {
			t.Errorf("page %d footer = %q, want %q", i+1, fake.footers[i], want)
		}
	}
}

func TestPaginator_Run_EmptyContentYieldsOnePage(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250)
	got, err := New(fake).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 1 {
		t.Fatalf("Run() = %d pages, want 1", got)
	}
	if fake.footers[0] != "1" {
		t.Errorf("footer = %q, want %q", fake.footers[0], "1")
	}
}

func TestPaginator_Run_Idempotent(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250, 100, 100, 100)
	p := New(fake)

	first, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	appends := fake.appends

	second, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second != first {
		t.Errorf("second Run() = %d, want %d", second, first)
	}
	if fake.appends != appends {
		t.Errorf("second Run() touched the surface: %d appends, want %d", fake.appends, appends)
	}
}

func TestPaginator_Run_InvalidConstants(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250, 100)
	fake.raw[1] = "" // page height unset
	if _, err := New(fake).Run(context.Background()); !errors.Is(err, ErrLayoutConstants) {
		t.Errorf("Run() error = %v, want ErrLayoutConstants", err)
	}
	if fake.staged {
		t.Error("content staged despite invalid constants")
	}
}

func TestPaginator_Run_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := newFakeSurface(250, 100, 100)
	if _, err := New(fake).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestPaginator_Run_SurfaceError(t *testing.T) {
	t.Parallel()

	fake := newFakeSurface(250, 100)
	fake.stageErr = errors.New("boom")
	if _, err := New(fake).Run(context.Background()); !errors.Is(err, fake.stageErr) {
		t.Errorf("Run() error = %v, want staging error", err)
	}
}
