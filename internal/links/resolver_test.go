package links_test

import (
	"context"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-breadcrumb/internal/adapters"
	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/links"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
)

func newPages(t *testing.T) pages.Service {
	t.Helper()
	svc := pages.NewService(pages.NewMemoryPageRepository())
	ctx := context.Background()
	for _, input := range []pages.CreatePageInput{
		{Title: "Home", Kind: pages.KindFolder},
		{ParentPath: "/", Slug: "about", Title: "About"},
		{ParentPath: "/", Slug: "archive", Title: "Archive", Kind: pages.KindFolder},
	} {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create page %q: %v", input.Slug, err)
		}
	}
	return svc
}

func menuEntry(t *testing.T, target map[string]any) breadcrumbs.MenuEntry {
	t.Helper()
	ctx := context.Background()
	svc := menus.NewService(menus.NewMemoryMenuRepository(), menus.NewMemoryMenuItemRepository())
	if _, err := svc.CreateMenu(ctx, menus.CreateMenuInput{Code: "main"}); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	if _, err := svc.AddMenuItem(ctx, menus.AddMenuItemInput{MenuCode: "main", Label: "Entry", Target: target}); err != nil {
		t.Fatalf("AddMenuItem: %v", err)
	}
	path, _ := target[menus.TargetPath].(string)
	entry, err := adapters.NewMenuAdapter(svc, nil).DeepestExpandedItem(ctx, "main", breadcrumbs.Request{Target: breadcrumbs.Target{PathInfo: path}})
	if err != nil || entry == nil {
		t.Fatalf("DeepestExpandedItem: %v %v", entry, err)
	}
	return entry
}

func TestMenuLink(t *testing.T) {
	ctx := context.Background()
	resolver := links.New(newPages(t), nil)

	cases := []struct {
		name         string
		target       map[string]any
		wantPath     string
		wantNotFound bool
	}{
		{name: "existing content", target: map[string]any{menus.TargetPath: "/about", menus.TargetContent: "/about"}, wantPath: "/about"},
		{name: "missing content", target: map[string]any{menus.TargetPath: "/history", menus.TargetContent: "/history"}, wantPath: "/history", wantNotFound: true},
		{name: "unbound", target: map[string]any{menus.TargetPath: "/tags", menus.TargetContent: ""}, wantPath: "/tags"},
		{name: "path only", target: map[string]any{menus.TargetPath: "/missing"}, wantPath: "/missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			link, err := resolver.MenuLink(ctx, menuEntry(t, tc.target))
			if err != nil {
				t.Fatalf("MenuLink: %v", err)
			}
			if link == nil || link.Path != tc.wantPath || link.URL != tc.wantPath || link.NotFound != tc.wantNotFound {
				t.Fatalf("unexpected link %+v", link)
			}
		})
	}
}

func TestNodeLink(t *testing.T) {
	ctx := context.Background()
	svc := newPages(t)
	about, err := svc.GetByPath(ctx, "/about")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}

	site := sitemap.MustNew(sitemap.Mount{Prefix: "/info", Root: "/about"})
	resolver := links.New(svc, site)

	link, err := resolver.NodeLink(ctx, adapters.NewPageNode(about))
	if err != nil {
		t.Fatalf("NodeLink: %v", err)
	}
	if link.Path != "/info" || link.URL != "/info" || link.NotFound {
		t.Fatalf("unexpected link %+v", link)
	}

	archive, _ := svc.GetByPath(ctx, "/archive")
	link, err = resolver.NodeLink(ctx, adapters.NewPageNode(archive))
	if err != nil {
		t.Fatalf("NodeLink: %v", err)
	}
	if !link.NotFound || link.Path != "/archive" {
		t.Fatalf("expected unmounted node to be flagged, got %+v", link)
	}
}

func TestNodeLinkWithContentRoute(t *testing.T) {
	ctx := context.Background()
	svc := newPages(t)
	about, _ := svc.GetByPath(ctx, "/about")

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:    "frontend",
			BaseURL: "https://example.com",
			Paths:   map[string]string{"content": "/pages/:slug"},
		}},
	})
	urls := menus.NewURLKitResolver(menus.URLKitResolverOptions{Manager: manager, Group: "frontend"})
	resolver := links.New(svc, nil, links.WithContentRoute(urls, ""))

	link, err := resolver.NodeLink(ctx, adapters.NewPageNode(about))
	if err != nil {
		t.Fatalf("NodeLink: %v", err)
	}
	if link.Path != "/about" || link.URL != "https://example.com/pages/about" {
		t.Fatalf("unexpected link %+v", link)
	}

	broken := links.New(svc, nil, links.WithContentRoute(urls, "unknown"))
	if _, err := broken.NodeLink(ctx, adapters.NewPageNode(about)); err == nil {
		t.Fatalf("expected error for unknown route")
	}
}
