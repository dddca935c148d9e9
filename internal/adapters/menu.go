package adapters

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
)

// MenuAdapter exposes menus.Service as the builder's MenuResolver.
type MenuAdapter struct {
	menus   menus.Service
	sitemap *sitemap.Resolver
}

var _ breadcrumbs.MenuResolver = (*MenuAdapter)(nil)

// NewMenuAdapter wires the menu service. A nil site map mounts content at "/".
func NewMenuAdapter(service menus.Service, site *sitemap.Resolver) *MenuAdapter {
	if site == nil {
		site = sitemap.MustNew(sitemap.DefaultMounts()...)
	}
	return &MenuAdapter{menus: service, sitemap: site}
}

func (a *MenuAdapter) DeepestExpandedItem(ctx context.Context, menu string, req breadcrumbs.Request) (breadcrumbs.MenuEntry, error) {
	expanded, err := a.menus.DeepestExpandedItem(ctx, menu, req.Target.PathInfo)
	if err != nil {
		if errors.Is(err, menus.ErrMenuNotFound) {
			return nil, fmt.Errorf("%w: %s", breadcrumbs.ErrMenuNotFound, menu)
		}
		return nil, err
	}
	if expanded == nil {
		return nil, nil
	}
	return newMenuEntry(expanded, a.sitemap), nil
}

// MenuEntry wraps one link of an expanded menu chain.
type MenuEntry struct {
	item    *menus.ExpandedItem
	sitemap *sitemap.Resolver
}

var _ breadcrumbs.MenuEntry = (*MenuEntry)(nil)

func newMenuEntry(item *menus.ExpandedItem, site *sitemap.Resolver) *MenuEntry {
	return &MenuEntry{item: item, sitemap: site}
}

func (e *MenuEntry) Name() string { return e.item.Label }

// Parent returns an untyped nil at the menu root.
func (e *MenuEntry) Parent() breadcrumbs.MenuEntry {
	if e.item.Parent == nil {
		return nil
	}
	return newMenuEntry(e.item.Parent, e.sitemap)
}

// Expanded returns the underlying menu item chain link.
func (e *MenuEntry) Expanded() *menus.ExpandedItem { return e.item }

// Target prefers an explicit content binding. An explicit blank binding
// leaves the entry unbound; without one the site map decides.
func (e *MenuEntry) Target() breadcrumbs.Target {
	var target breadcrumbs.Target
	if e.item.Path != "" {
		target = e.sitemap.Resolve(e.item.Path)
	}
	if content, ok := e.item.TargetString(menus.TargetContent); ok {
		target.ContentPath = ""
		if content != "" {
			target.ContentPath = sitemap.Normalize(content)
		}
	}
	if e.item.Item == nil {
		return target
	}
	if route, ok := e.item.TargetString(menus.TargetRoute); ok {
		target.Route = route
	}
	target.Params = stringMap(e.item.Item.Target[menus.TargetParams])
	target.Query = stringMap(e.item.Item.Target[menus.TargetQuery])
	return target
}

func stringMap(raw any) map[string]string {
	var out map[string]string
	switch typed := raw.(type) {
	case map[string]string:
		out = maps.Clone(typed)
	case map[string]any:
		out = make(map[string]string, len(typed))
		for _, key := range slices.Sorted(maps.Keys(typed)) {
			switch value := typed[key].(type) {
			case nil:
			case []any:
				parts := make([]string, 0, len(value))
				for _, part := range value {
					parts = append(parts, fmt.Sprint(part))
				}
				out[key] = strings.Join(parts, ",")
			default:
				out[key] = fmt.Sprint(value)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
