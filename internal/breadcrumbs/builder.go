package breadcrumbs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// Builder assembles the breadcrumb trail for a request. It holds only
// immutable state and is safe for concurrent use.
type Builder struct {
	menus   MenuResolver
	content ContentResolver
	links   LinkResolver
	opts    Options
	factory ItemFactory
	logger  interfaces.Logger
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger interfaces.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithItemFactory overrides how labels and links become items.
func WithItemFactory(factory ItemFactory) BuilderOption {
	return func(b *Builder) {
		if factory != nil {
			b.factory = factory
		}
	}
}

// NewBuilder wires the three capabilities with resolved options.
func NewBuilder(menus MenuResolver, content ContentResolver, links LinkResolver, opts Options, options ...BuilderOption) (*Builder, error) {
	switch {
	case menus == nil:
		return nil, ErrMenuResolverRequired
	case content == nil:
		return nil, ErrContentResolverRequired
	case links == nil:
		return nil, ErrLinkResolverRequired
	}

	if len(opts.MenuNames) == 0 {
		opts.MenuNames = []string{DefaultMenuName}
	}
	opts.MenuNames = opts.Menus()
	opts.LinkNotFoundMode = LinkNotFoundMode(strings.ToLower(string(opts.LinkNotFoundMode)))

	b := &Builder{
		menus:   menus,
		content: content,
		links:   links,
		opts:    opts,
		factory: DefaultItemFactory,
		logger:  logging.NoOp(),
	}
	for _, option := range options {
		if option != nil {
			option(b)
		}
	}
	return b, nil
}

// Options returns the resolved configuration.
func (b *Builder) Options() Options {
	opts := b.opts
	opts.MenuNames = b.opts.Menus()
	return opts
}

// Build produces the trail for the request. The result is never partial: on
// error the returned breadcrumb is nil.
func (b *Builder) Build(ctx context.Context, req Request) (*Breadcrumb, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithTrailContext(b.logger.WithContext(ctx), req.Target.PathInfo, b.opts.MenuNames)

	menu, entry, err := b.deepestEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		logger.Debug("breadcrumbs.build.no_menu_entry")
		return b.breadcrumb(nil), nil
	}

	menuItems, err := collectTrail(ctx, menuCrumb{entry: entry}, nil, maxDepth, b.links, b.factory)
	if err != nil {
		return nil, err
	}

	contentItems, err := b.contentTrail(ctx, req, entry)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(menuItems)+len(contentItems))
	items = append(items, menuItems...)
	items = append(items, contentItems...)

	logger.Debug("breadcrumbs.build.completed",
		"menu", menu,
		"deepest", entry.Name(),
		"menu_items", len(menuItems),
		"content_items", len(contentItems),
	)
	return b.breadcrumb(items), nil
}

func (b *Builder) breadcrumb(items []Item) *Breadcrumb {
	return NewBreadcrumb(items, b.opts.Separator, b.opts.LinkNotFoundMode)
}

// deepestEntry returns the first non-nil deepest expanded entry across the
// configured menus, in order.
func (b *Builder) deepestEntry(ctx context.Context, req Request) (string, MenuEntry, error) {
	for _, name := range b.opts.MenuNames {
		entry, err := b.menus.DeepestExpandedItem(ctx, name, req)
		if err != nil {
			if !errors.Is(err, ErrMenuNotFound) {
				return "", nil, fmt.Errorf("breadcrumbs: resolve menu %q: %w", name, err)
			}
			if b.opts.StrictMenus {
				return "", nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("breadcrumbs: menu %q does not exist", name)).
					WithTextCode(menuNotFoundTextCode)
			}
			b.logger.Debug("breadcrumbs.build.menu_missing", "menu", name)
			continue
		}
		if entry != nil {
			return name, entry, nil
		}
	}
	return "", nil, nil
}

func (b *Builder) contentTrail(ctx context.Context, req Request, entry MenuEntry) ([]Item, error) {
	current, err := b.content.NodeFor(ctx, req.Target)
	if err != nil {
		return nil, fmt.Errorf("breadcrumbs: resolve current node: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	boundaryTarget := entry.Target()
	boundary, err := b.content.NodeFor(ctx, boundaryTarget)
	if err != nil {
		return nil, fmt.Errorf("breadcrumbs: resolve boundary node: %w", err)
	}

	if b.opts.TrailingDocumentOnly {
		if !current.IsDocument() || (boundary != nil && b.content.IsSelf(current, boundary)) {
			return nil, nil
		}
		item, ok, err := nodeCrumb{node: current, content: b.content}.item(ctx, b.links, b.factory)
		if err != nil || !ok {
			return nil, err
		}
		return []Item{item}, nil
	}

	start := nodeCrumb{node: current, content: b.content}

	if boundary != nil {
		if b.content.IsSelf(boundary, current) {
			return nil, nil
		}
		ancestor, err := b.content.IsAncestor(ctx, boundary, current)
		if err != nil {
			return nil, fmt.Errorf("breadcrumbs: ancestor check: %w", err)
		}
		if !ancestor {
			return nil, nil
		}
		stop := func(c crumb) bool {
			nc, ok := c.(nodeCrumb)
			return ok && b.content.IsSelf(nc.node, boundary)
		}
		return collectTrail(ctx, start, stop, maxDepth, b.links, b.factory)
	}

	steps, ok := remainingSteps(boundaryTarget.PathInfo, req.Target.PathInfo)
	if !ok {
		return nil, nil
	}
	return collectTrail(ctx, start, nil, steps, b.links, b.factory)
}
