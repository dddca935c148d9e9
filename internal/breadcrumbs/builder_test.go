package breadcrumbs

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type stubEntry struct {
	name   string
	parent *stubEntry
	target Target
}

func (e *stubEntry) Name() string { return e.name }

func (e *stubEntry) Parent() MenuEntry {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *stubEntry) Target() Target { return e.target }

type stubMenus struct {
	menus map[string]*stubEntry
	err   error
	calls []string
}

func (s *stubMenus) DeepestExpandedItem(_ context.Context, menu string, _ Request) (MenuEntry, error) {
	s.calls = append(s.calls, menu)
	if s.err != nil {
		return nil, s.err
	}
	entry, ok := s.menus[menu]
	if !ok {
		return nil, ErrMenuNotFound
	}
	if entry == nil {
		return nil, nil
	}
	return entry, nil
}

type stubNode struct {
	path     string
	name     string
	document bool
}

func (n *stubNode) ID() string          { return n.path }
func (n *stubNode) Path() string        { return n.path }
func (n *stubNode) DisplayName() string { return n.name }
func (n *stubNode) IsDocument() bool    { return n.document }

type stubContent struct {
	nodes map[string]*stubNode
}

func newStubContent(nodes ...*stubNode) *stubContent {
	content := &stubContent{nodes: map[string]*stubNode{}}
	for _, node := range nodes {
		content.nodes[node.path] = node
	}
	return content
}

func (s *stubContent) NodeFor(_ context.Context, target Target) (Node, error) {
	if target.ContentPath == "" {
		return nil, nil
	}
	node, ok := s.nodes[target.ContentPath]
	if !ok {
		return nil, nil
	}
	return node, nil
}

func (s *stubContent) ParentOf(_ context.Context, node Node) (Node, error) {
	path := node.Path()
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return nil, nil
	}
	parent, ok := s.nodes[path[:idx]]
	if !ok {
		return nil, nil
	}
	return parent, nil
}

func (s *stubContent) IsSelf(a, b Node) bool {
	return a != nil && b != nil && a.Path() == b.Path()
}

func (s *stubContent) IsAncestor(_ context.Context, ancestor, node Node) (bool, error) {
	return strings.HasPrefix(node.Path(), ancestor.Path()+"/"), nil
}

type stubLinks struct {
	unlinked map[string]bool
}

func (s stubLinks) MenuLink(_ context.Context, entry MenuEntry) (*Link, error) {
	return &Link{Path: entry.Target().PathInfo}, nil
}

func (s stubLinks) NodeLink(_ context.Context, node Node) (*Link, error) {
	if s.unlinked[node.Path()] {
		return nil, nil
	}
	return &Link{Path: node.Path()}, nil
}

// siteFixture models Home > Products in the menu and
// /home/products/widgets/widget-a in the content tree.
func siteFixture() (*stubEntry, *stubEntry, *stubContent) {
	home := &stubEntry{name: "Home", target: Target{PathInfo: "/", ContentPath: "/home"}}
	products := &stubEntry{name: "Products", parent: home, target: Target{PathInfo: "/products", ContentPath: "/home/products"}}
	content := newStubContent(
		&stubNode{path: "/home", name: "Home"},
		&stubNode{path: "/home/products", name: "Products"},
		&stubNode{path: "/home/products/widgets", name: "Widgets"},
		&stubNode{path: "/home/products/widgets/widget-a", name: "WidgetA", document: true},
		&stubNode{path: "/home/about", name: "About", document: true},
	)
	return home, products, content
}

func widgetRequest() Request {
	return Request{Target: Target{
		PathInfo:    "/products/widgets/widget-a",
		ContentPath: "/home/products/widgets/widget-a",
	}}
}

func mustBuilder(t *testing.T, menus MenuResolver, content ContentResolver, links LinkResolver, opts Options, options ...BuilderOption) *Builder {
	t.Helper()
	builder, err := NewBuilder(menus, content, links, opts, options...)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return builder
}

func assertLabels(t *testing.T, trail *Breadcrumb, want ...string) {
	t.Helper()
	got := trail.Labels()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected labels %v, got %v", want, got)
	}
}

func TestBuildMenuAndAncestorTrail(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	builder := mustBuilder(t, menus, content, stubLinks{}, DefaultOptions())

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Home", "Products", "Widgets", "WidgetA")
	if trail.Separator() != DefaultSeparator {
		t.Fatalf("expected default separator, got %q", trail.Separator())
	}
	if trail.LinkNotFoundMode() != "" {
		t.Fatalf("expected absent link not found mode, got %q", trail.LinkNotFoundMode())
	}

	items := trail.Items()
	if got := items[0].Link().Path; got != "/" {
		t.Fatalf("expected menu link for Home, got %q", got)
	}
	if got := items[3].Link().Path; got != "/home/products/widgets/widget-a" {
		t.Fatalf("expected node link for WidgetA, got %q", got)
	}
}

func TestBuildEmptyWhenNoMenuResolves(t *testing.T) {
	_, _, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": nil}}
	opts := DefaultOptions()
	opts.Separator = "/"
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !trail.IsEmpty() {
		t.Fatalf("expected empty trail, got %v", trail.Labels())
	}
	if trail.Separator() != "/" {
		t.Fatalf("expected configured separator, got %q", trail.Separator())
	}
}

func TestBuildToleratesMissingMenu(t *testing.T) {
	_, _, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{}}
	opts := DefaultOptions()
	opts.MenuNames = []string{"custom"}
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err != nil {
		t.Fatalf("expected tolerant build, got %v", err)
	}
	if !trail.IsEmpty() || trail.Separator() != DefaultSeparator {
		t.Fatalf("expected empty trail with default separator, got %s", trail)
	}
}

func TestBuildStrictMenusReportsMissingMenu(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	opts := DefaultOptions()
	opts.MenuNames = []string{"custom", "main"}
	opts.StrictMenus = true
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err == nil {
		t.Fatalf("expected error, got trail %s", trail)
	}
	if trail != nil {
		t.Fatalf("expected nil trail on error")
	}
	if !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !reflect.DeepEqual(menus.calls, []string{"custom"}) {
		t.Fatalf("expected iteration to stop at the missing menu, got %v", menus.calls)
	}
}

func TestBuildUsesFirstMenuWithExpandedEntry(t *testing.T) {
	_, products, content := siteFixture()
	footer := &stubEntry{name: "Footer", target: Target{PathInfo: "/products"}}
	menus := &stubMenus{menus: map[string]*stubEntry{"main": nil, "footer": footer, "side": products}}
	opts := DefaultOptions()
	opts.MenuNames = ParseMenuNames("missing, main ,footer,side")
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), Request{Target: Target{PathInfo: "/products"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Footer")
	if !reflect.DeepEqual(menus.calls, []string{"missing", "main", "footer"}) {
		t.Fatalf("unexpected menu iteration %v", menus.calls)
	}
}

func TestBuildTrailingDocumentOnly(t *testing.T) {
	cases := []struct {
		name    string
		request Request
		want    []string
	}{
		{
			name:    "document below boundary",
			request: widgetRequest(),
			want:    []string{"Home", "Products", "WidgetA"},
		},
		{
			name:    "current is boundary",
			request: Request{Target: Target{PathInfo: "/products", ContentPath: "/home/products"}},
			want:    []string{"Home", "Products"},
		},
		{
			name:    "folder is not a document",
			request: Request{Target: Target{PathInfo: "/products/widgets", ContentPath: "/home/products/widgets"}},
			want:    []string{"Home", "Products"},
		},
		{
			name:    "document outside boundary",
			request: Request{Target: Target{PathInfo: "/about", ContentPath: "/home/about"}},
			want:    []string{"Home", "Products", "About"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, products, content := siteFixture()
			menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
			opts := DefaultOptions()
			opts.TrailingDocumentOnly = true
			builder := mustBuilder(t, menus, content, stubLinks{}, opts)

			trail, err := builder.Build(context.Background(), tc.request)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			assertLabels(t, trail, tc.want...)
		})
	}
}

func TestBuildTrailingDocumentWithUnboundBoundary(t *testing.T) {
	_, _, content := siteFixture()
	faceted := &stubEntry{name: "Widgets", target: Target{PathInfo: "/products/widgets"}}
	menus := &stubMenus{menus: map[string]*stubEntry{"main": faceted}}
	opts := DefaultOptions()
	opts.TrailingDocumentOnly = true
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Widgets", "WidgetA")
}

func TestBuildBoundaryNotAncestorAddsNothing(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	builder := mustBuilder(t, menus, content, stubLinks{}, DefaultOptions())

	trail, err := builder.Build(context.Background(), Request{Target: Target{PathInfo: "/products/about", ContentPath: "/home/about"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Home", "Products")
}

func TestBuildCurrentIsBoundary(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	builder := mustBuilder(t, menus, content, stubLinks{}, DefaultOptions())

	trail, err := builder.Build(context.Background(), Request{Target: Target{PathInfo: "/products", ContentPath: "/home/products"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Home", "Products")
}

func TestBuildWithoutCurrentNode(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	builder := mustBuilder(t, menus, content, stubLinks{}, DefaultOptions())

	trail, err := builder.Build(context.Background(), Request{Target: Target{PathInfo: "/products/unknown"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Home", "Products")
}

func TestBuildPathFallbackWhenBoundaryUnresolved(t *testing.T) {
	cases := []struct {
		name     string
		menuPath string
		request  Request
		want     []string
	}{
		{
			name:     "two segments below boundary",
			menuPath: "/products",
			request:  widgetRequest(),
			want:     []string{"Facet", "Widgets", "WidgetA"},
		},
		{
			name:     "trailing slash is ignored",
			menuPath: "/products",
			request: Request{Target: Target{
				PathInfo:    "/products/widgets/widget-a/",
				ContentPath: "/home/products/widgets/widget-a",
			}},
			want: []string{"Facet", "Widgets", "WidgetA"},
		},
		{
			name:     "same path counts one step",
			menuPath: "/products/widgets/widget-a",
			request:  widgetRequest(),
			want:     []string{"Facet", "WidgetA"},
		},
		{
			name:     "not prefixed",
			menuPath: "/catalog",
			request:  widgetRequest(),
			want:     []string{"Facet"},
		},
		{
			name:     "walk stops at root",
			menuPath: "/products",
			request: Request{Target: Target{
				PathInfo:    "/products/a/b/c/d/e",
				ContentPath: "/home/products/widgets/widget-a",
			}},
			want: []string{"Facet", "Home", "Products", "Widgets", "WidgetA"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, content := siteFixture()
			facet := &stubEntry{name: "Facet", target: Target{PathInfo: tc.menuPath, ContentPath: "/facets/missing"}}
			menus := &stubMenus{menus: map[string]*stubEntry{"main": facet}}
			builder := mustBuilder(t, menus, content, stubLinks{}, DefaultOptions())

			trail, err := builder.Build(context.Background(), tc.request)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			assertLabels(t, trail, tc.want...)
		})
	}
}

func TestBuildSkipsUnusableItems(t *testing.T) {
	_, products, content := siteFixture()
	content.nodes["/home/products/widgets"].name = ""
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	links := stubLinks{unlinked: map[string]bool{"/home/products/widgets": true}}
	builder := mustBuilder(t, menus, content, links, DefaultOptions())

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	assertLabels(t, trail, "Home", "Products", "WidgetA")
}

func TestBuildLowerCasesLinkNotFoundMode(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	opts := DefaultOptions()
	opts.LinkNotFoundMode = "UNLINK"
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), widgetRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if trail.LinkNotFoundMode() != LinkNotFoundUnlink {
		t.Fatalf("expected unlink, got %q", trail.LinkNotFoundMode())
	}
}

func TestBuildPropagatesResolverErrors(t *testing.T) {
	_, _, content := siteFixture()
	boom := errors.New("storage offline")
	menus := &stubMenus{err: boom}
	opts := DefaultOptions()
	opts.StrictMenus = false
	builder := mustBuilder(t, menus, content, stubLinks{}, opts)

	trail, err := builder.Build(context.Background(), widgetRequest())
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if trail != nil {
		t.Fatalf("expected no partial trail")
	}
}

func TestBuildBoundsCyclicMenus(t *testing.T) {
	_, _, content := siteFixture()
	loop := &stubEntry{name: "Loop", target: Target{PathInfo: "/loop"}}
	loop.parent = loop
	menus := &stubMenus{menus: map[string]*stubEntry{"main": loop}}
	builder := mustBuilder(t, menus, content, stubLinks{}, DefaultOptions())

	trail, err := builder.Build(context.Background(), Request{Target: Target{PathInfo: "/loop"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if trail.Len() != maxDepth {
		t.Fatalf("expected walk bounded at %d, got %d", maxDepth, trail.Len())
	}
}

func TestNewBuilderRequiresResolvers(t *testing.T) {
	_, _, content := siteFixture()
	menus := &stubMenus{}
	if _, err := NewBuilder(nil, content, stubLinks{}, DefaultOptions()); !errors.Is(err, ErrMenuResolverRequired) {
		t.Fatalf("expected ErrMenuResolverRequired, got %v", err)
	}
	if _, err := NewBuilder(menus, nil, stubLinks{}, DefaultOptions()); !errors.Is(err, ErrContentResolverRequired) {
		t.Fatalf("expected ErrContentResolverRequired, got %v", err)
	}
	if _, err := NewBuilder(menus, content, nil, DefaultOptions()); !errors.Is(err, ErrLinkResolverRequired) {
		t.Fatalf("expected ErrLinkResolverRequired, got %v", err)
	}
}

func TestSegmentCount(t *testing.T) {
	cases := map[string]int{
		"":        1,
		"a":       1,
		"a/b":     2,
		"a/b/":    2,
		"a//b":    3,
		"a/b/c//": 3,
		"/":       0,
	}
	for input, want := range cases {
		if got := segmentCount(input); got != want {
			t.Fatalf("segmentCount(%q) = %d, want %d", input, got, want)
		}
	}
}
