package links

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// DefaultContentRoute is the go-urlkit route used for content node URLs.
const DefaultContentRoute = "content"

// ExpandedEntry is implemented by menu entries backed by the menus service.
type ExpandedEntry interface {
	Expanded() *menus.ExpandedItem
}

// Resolver produces links for menu entries and content nodes.
type Resolver struct {
	pages   pages.Service
	sitemap *sitemap.Resolver
	urls    *menus.URLKitResolver
	route   string
	logger  interfaces.Logger
}

var _ breadcrumbs.LinkResolver = (*Resolver)(nil)

// Option configures the resolver.
type Option func(*Resolver)

// WithContentRoute renders node URLs through a go-urlkit route. The route
// receives the last path segment as its "slug" param.
func WithContentRoute(urls *menus.URLKitResolver, route string) Option {
	return func(r *Resolver) {
		r.urls = urls
		if route = strings.TrimSpace(route); route != "" {
			r.route = route
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a resolver. pageService may be nil, in which case menu content
// bindings are never reported missing.
func New(pageService pages.Service, site *sitemap.Resolver, opts ...Option) *Resolver {
	if site == nil {
		site = sitemap.MustNew(sitemap.DefaultMounts()...)
	}
	r := &Resolver{
		pages:   pageService,
		sitemap: site,
		route:   DefaultContentRoute,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// MenuLink uses the URL computed by the menus service. Entries that point
// nowhere get no link.
func (r *Resolver) MenuLink(ctx context.Context, entry breadcrumbs.MenuEntry) (*breadcrumbs.Link, error) {
	link := &breadcrumbs.Link{Path: entry.Target().PathInfo}

	if expanded, ok := entry.(ExpandedEntry); ok && expanded.Expanded() != nil {
		item := expanded.Expanded()
		link.URL = item.URL
		if content, ok := item.TargetString(menus.TargetContent); ok && content != "" {
			missing, err := r.contentMissing(ctx, content)
			if err != nil {
				return nil, err
			}
			if missing {
				r.logger.Debug("links.menu.content_missing", "menu", item.MenuCode, "label", item.Label, "content", content)
			}
			link.NotFound = missing
		}
	}

	if link.URL == "" {
		link.URL = link.Path
	}
	if link.Path == "" && link.URL == "" {
		return nil, nil
	}
	return link, nil
}

// NodeLink maps the node back to a request path through the site map. Nodes
// outside every mount are flagged NotFound.
func (r *Resolver) NodeLink(_ context.Context, node breadcrumbs.Node) (*breadcrumbs.Link, error) {
	pathInfo, ok := r.sitemap.PathInfoFor(node.Path())
	if !ok {
		r.logger.Debug("links.node.unmounted", "content_path", node.Path())
		return &breadcrumbs.Link{Path: node.Path(), URL: node.Path(), NotFound: true}, nil
	}

	link := &breadcrumbs.Link{Path: pathInfo, URL: pathInfo}
	if r.urls == nil {
		return link, nil
	}
	url, err := r.urls.Build(r.route, map[string]any{"slug": path.Base(pathInfo)}, nil)
	if err != nil {
		return nil, fmt.Errorf("links: build %q url for %s: %w", r.route, pathInfo, err)
	}
	if url != "" {
		link.URL = url
	}
	return link, nil
}

func (r *Resolver) contentMissing(ctx context.Context, content string) (bool, error) {
	if r.pages == nil {
		return false, nil
	}
	_, err := r.pages.GetByPath(ctx, content)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, pages.ErrPageNotFound):
		return true, nil
	default:
		return false, fmt.Errorf("links: lookup content %q: %w", content, err)
	}
}
