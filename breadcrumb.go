// Package breadcrumb builds breadcrumb trails from navigation menus and a
// content tree.
package breadcrumb

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	breadcrumbscmd "github.com/goliatone/go-breadcrumb/internal/commands/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/di"
	"github.com/goliatone/go-breadcrumb/internal/fixtures"
	"github.com/goliatone/go-breadcrumb/internal/importer"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
)

type (
	Breadcrumb       = breadcrumbs.Breadcrumb
	Item             = breadcrumbs.Item
	Link             = breadcrumbs.Link
	LinkNotFoundMode = breadcrumbs.LinkNotFoundMode
	Options          = breadcrumbs.Options
	Parameters       = breadcrumbs.Parameters
	Request          = breadcrumbs.Request
	Target           = breadcrumbs.Target

	MenuService = menus.Service
	PageService = pages.Service

	ImportOptions = importer.Options
	ImportResult  = importer.Result
	Site          = fixtures.Site
	SeedResult    = fixtures.Result
)

const (
	LinkNotFoundHide   = breadcrumbs.LinkNotFoundHide
	LinkNotFoundUnlink = breadcrumbs.LinkNotFoundUnlink
	DefaultSeparator   = breadcrumbs.DefaultSeparator
)

var (
	ErrMenuNotFound   = breadcrumbs.ErrMenuNotFound
	ErrNotInitialised = errors.New("breadcrumb: module not initialised")
)

// Module is the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using cfg and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

func (m *Module) Pages() PageService {
	return m.container.PageService()
}

func (m *Module) Builder() *breadcrumbs.Builder {
	return m.container.Builder()
}

// Trail builds the breadcrumb for a request path. The path is resolved
// through the configured sitemap mounts.
func (m *Module) Trail(ctx context.Context, pathInfo string) (*Breadcrumb, error) {
	if m == nil || m.container == nil {
		return nil, ErrNotInitialised
	}
	target := m.container.Sitemap().Resolve(pathInfo)
	return m.container.Builder().Build(ctx, breadcrumbs.Request{Target: target})
}

// Render builds the trail for pathInfo and renders it as HTML.
func (m *Module) Render(ctx context.Context, pathInfo string) (string, error) {
	trail, err := m.Trail(ctx, pathInfo)
	if err != nil {
		return "", err
	}
	return m.container.Renderer().RenderString(trail)
}

// Handler returns the HTTP API.
func (m *Module) Handler() http.Handler {
	return m.container.API().Handler()
}

// Middleware stores the trail for each request on its context. Read it with
// FromContext.
func (m *Module) Middleware(next http.Handler) http.Handler {
	return m.container.API().Middleware(next)
}

// FromContext returns the trail stored by Middleware.
func FromContext(ctx context.Context) (*Breadcrumb, bool) {
	return breadcrumbs.FromContext(ctx)
}

// Import builds the content tree from the markdown files below dir.
func (m *Module) Import(ctx context.Context, fsys fs.FS, dir string, opts ImportOptions) (*ImportResult, error) {
	return m.container.Importer().Import(ctx, fsys, dir, opts)
}

// Seed applies a site document.
func (m *Module) Seed(ctx context.Context, site *Site) (*SeedResult, error) {
	return m.container.Seeder().Apply(ctx, site)
}

// InvalidateCache clears cached menu and page lookups.
func (m *Module) InvalidateCache(ctx context.Context) error {
	return m.container.Commands().InvalidateCache.Execute(ctx, breadcrumbscmd.InvalidateCacheCommand{})
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
