package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/render"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// API registers the trail endpoints and, when the services are wired, the
// menu and page endpoints.
type API struct {
	basePath string
	builder  *breadcrumbs.Builder
	renderer *render.Renderer
	sitemap  *sitemap.Resolver
	menus    menus.Service
	pages    pages.Service
	logger   interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: "/",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	if api.sitemap == nil {
		api.sitemap = sitemap.MustNew(sitemap.DefaultMounts()...)
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithBuilder wires the trail builder.
func WithBuilder(builder *breadcrumbs.Builder) Option {
	return func(api *API) {
		api.builder = builder
	}
}

// WithRenderer wires the HTML renderer used by /breadcrumb.html.
func WithRenderer(renderer *render.Renderer) Option {
	return func(api *API) {
		api.renderer = renderer
	}
}

// WithSitemap sets how request paths map to content.
func WithSitemap(resolver *sitemap.Resolver) Option {
	return func(api *API) {
		if resolver != nil {
			api.sitemap = resolver
		}
	}
}

// WithMenuService wires the menu service.
func WithMenuService(service menus.Service) Option {
	return func(api *API) {
		api.menus = service
	}
}

// WithPageService wires the page service.
func WithPageService(service pages.Service) Option {
	return func(api *API) {
		api.pages = service
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerBreadcrumbRoutes(mux, base)
	api.registerMenuRoutes(mux, base)
	api.registerPageRoutes(mux, base)

	return nil
}

// Handler returns a mux with every route registered.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	_ = api.Register(mux)
	return mux
}
