package di_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-breadcrumb/internal/adapters/noop"
	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	breadcrumbscmd "github.com/goliatone/go-breadcrumb/internal/commands/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/di"
	"github.com/goliatone/go-breadcrumb/internal/fixtures"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/runtimeconfig"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
)

const siteYAML = `
pages:
  - path: /
    title: Home
    kind: folder
  - path: /products
    title: Products
    kind: folder
  - path: /products/widgets
    title: Widgets
    kind: folder
  - path: /products/widgets/widget-a
    title: Widget A
menus:
  - code: main
    items:
      - code: home
        label: Home
        target: {path: /}
        children:
          - code: products
            label: Products
            target: {path: /products}
            children:
              - code: widgets
                label: Widgets
                target: {path: /products/widgets}
`

func seedSite(t *testing.T, container *di.Container) {
	t.Helper()
	site, err := fixtures.Decode(strings.NewReader(siteYAML))
	if err != nil {
		t.Fatalf("decode site: %v", err)
	}
	if _, err := container.Seeder().Apply(context.Background(), site); err != nil {
		t.Fatalf("apply site: %v", err)
	}
}

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func build(t *testing.T, container *di.Container, path string) *breadcrumbs.Breadcrumb {
	t.Helper()
	target := container.Sitemap().Resolve(path)
	trail, err := container.Builder().Build(context.Background(), breadcrumbs.Request{Target: target})
	if err != nil {
		t.Fatalf("Build(%s): %v", path, err)
	}
	return trail
}

func TestContainerBuildsTrailWithMemoryStorage(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())
	seedSite(t, container)

	trail := build(t, container, "/products/widgets/widget-a")
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Products|Widgets|Widget A" {
		t.Fatalf("unexpected trail %q", got)
	}
	if trail.Separator() != breadcrumbs.DefaultSeparator {
		t.Fatalf("expected default separator, got %q", trail.Separator())
	}
}

func TestContainerContentResolverOverride(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig(), di.WithContentResolver(noop.Content()))
	seedSite(t, container)

	trail := build(t, container, "/products/widgets/widget-a")
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Products|Widgets" {
		t.Fatalf("expected menu only trail, got %q", got)
	}
}

func TestContainerAppliesParametersAndMounts(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Breadcrumb.Separator = "/"
	cfg.Breadcrumb.AddTrailingDocumentOnly = "true"
	cfg.Sitemap.Mounts = []sitemap.Mount{
		{Prefix: "/", Root: "/"},
		{Prefix: "/shop", Root: "/products"},
	}
	container := newContainer(t, cfg)
	seedSite(t, container)

	trail := build(t, container, "/shop/widgets/widget-a")
	if trail.Separator() != "/" {
		t.Fatalf("expected configured separator, got %q", trail.Separator())
	}
	labels := trail.Labels()
	if len(labels) == 0 || labels[len(labels)-1] != "Widget A" {
		t.Fatalf("expected trail to end with the document, got %v", labels)
	}
}

func TestContainerRendersTrail(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())
	seedSite(t, container)

	out, err := container.Renderer().RenderString(build(t, container, "/products/widgets/widget-a"))
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(out, `aria-current="page"`) || !strings.Contains(out, "Widget A") {
		t.Fatalf("unexpected markup %s", out)
	}
}

func TestContainerServesHTTPAPI(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.HTTP.BasePath = "/api"
	container := newContainer(t, cfg)
	seedSite(t, container)

	server := httptest.NewServer(container.API().Handler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/api/breadcrumb?path=/products/widgets")
	if err != nil {
		t.Fatalf("GET breadcrumb: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var trail breadcrumbs.Breadcrumb
	if err := json.NewDecoder(resp.Body).Decode(&trail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Products|Widgets" {
		t.Fatalf("unexpected trail %q", got)
	}
}

func TestContainerCommands(t *testing.T) {
	container := newContainer(t, runtimeconfig.DefaultConfig())
	seedSite(t, container)

	handlers := container.Commands()
	if handlers == nil {
		t.Fatal("expected command handlers")
	}
	if err := handlers.InvalidateCache.Execute(context.Background(), breadcrumbscmd.InvalidateCacheCommand{}); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Breadcrumb.LinkNotFoundMode = "explode"
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected invalid config error")
	}
}

func TestContainerBunStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.DSN = fmt.Sprintf("file:container_bun_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	cfg.Cache.Enabled = false

	container := newContainer(t, cfg)
	if container.DB() == nil {
		t.Fatal("expected bun database")
	}
	seedSite(t, container)

	trail := build(t, container, "/products/widgets/widget-a")
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Products|Widgets|Widget A" {
		t.Fatalf("unexpected trail %q", got)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if container.DB() != nil {
		t.Fatal("expected database to be released")
	}
}

const guideYAML = `
pages:
  - path: /
    title: Home
    kind: folder
  - path: /guide
    title: Guide
    kind: folder
  - path: /guide/install
    title: Installation
    kind: folder
  - path: /guide/install/windows
    title: On Windows
  - path: /legal
    title: Legal
menus:
  - code: footer
    items:
      - code: legal
        label: Legal
        target: {path: /legal}
  - code: main
    items:
      - code: home
        label: Home
        target: {path: /}
        children:
          - code: guide
            label: Guide
            target: {path: /guide}
`

func TestContainerBunStorageWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.DSN = fmt.Sprintf("file:container_cached_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	cfg.Cache.Enabled = true
	cfg.Breadcrumb.Menus = "footer,main"

	container := newContainer(t, cfg)
	site, err := fixtures.Decode(strings.NewReader(guideYAML))
	if err != nil {
		t.Fatalf("decode site: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := container.Seeder().Apply(ctx, site); err != nil {
			t.Fatalf("apply %d: %v", i+1, err)
		}
	}

	trail := build(t, container, "/guide/install/windows")
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Guide|Installation|On Windows" {
		t.Fatalf("unexpected trail %q", got)
	}
	trail = build(t, container, "/legal")
	if got := strings.Join(trail.Labels(), "|"); got != "Legal" {
		t.Fatalf("unexpected footer trail %q", got)
	}

	trail = build(t, container, "/guide/setup")
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Guide" {
		t.Fatalf("expected menu trail before the page exists, got %q", got)
	}
	if _, err := container.PageService().Create(ctx, pages.CreatePageInput{ParentPath: "/guide", Slug: "setup", Title: "Setup"}); err != nil {
		t.Fatalf("create page: %v", err)
	}
	trail = build(t, container, "/guide/setup")
	if got := strings.Join(trail.Labels(), "|"); got != "Home|Guide|Setup" {
		t.Fatalf("expected new page in trail, got %q", got)
	}
}
