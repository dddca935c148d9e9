package menus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

// URLKitResolverOptions configures the go-urlkit backed resolver.
type URLKitResolverOptions struct {
	Manager *urlkit.RouteManager
	// Group is a dot separated group path, e.g. "frontend" or "frontend.docs".
	Group        string
	DefaultRoute string
	RouteField   string
	ParamsField  string
	QueryField   string
}

// URLKitResolver resolves menu URLs using a go-urlkit RouteManager. Items
// without a route resolve to "" so a ChainURLResolver can fall back.
type URLKitResolver struct {
	manager      *urlkit.RouteManager
	group        string
	defaultRoute string
	routeField   string
	paramsField  string
	queryField   string

	mu         sync.RWMutex
	groupCache map[string]*urlkit.Group
}

// NewURLKitResolver constructs a resolver backed by go-urlkit.
func NewURLKitResolver(opts URLKitResolverOptions) *URLKitResolver {
	if opts.RouteField == "" {
		opts.RouteField = TargetRoute
	}
	if opts.ParamsField == "" {
		opts.ParamsField = TargetParams
	}
	if opts.QueryField == "" {
		opts.QueryField = TargetQuery
	}
	return &URLKitResolver{
		manager:      opts.Manager,
		group:        strings.TrimSpace(opts.Group),
		defaultRoute: strings.TrimSpace(opts.DefaultRoute),
		routeField:   strings.TrimSpace(opts.RouteField),
		paramsField:  strings.TrimSpace(opts.ParamsField),
		queryField:   strings.TrimSpace(opts.QueryField),
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// Resolve builds the item URL from its route, params and query targets.
func (r *URLKitResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	if r == nil || r.manager == nil || req.Item == nil {
		return "", nil
	}
	route := r.defaultRoute
	if value, ok := targetString(req.Item.Target, r.routeField); ok && value != "" {
		route = value
	}
	if route == "" {
		return "", nil
	}
	return r.Build(route, toParams(req.Item.Target[r.paramsField]), toQuery(req.Item.Target[r.queryField]))
}

// Build renders a named route of the configured group.
func (r *URLKitResolver) Build(route string, params map[string]any, query map[string][]string) (string, error) {
	if r == nil || r.manager == nil || r.group == "" {
		return "", nil
	}
	group, err := r.groupForPath(r.group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, values := range query {
		for _, value := range values {
			builder.WithQuery(key, value)
		}
	}
	return builder.Build()
}

func (r *URLKitResolver) groupForPath(path string) (*urlkit.Group, error) {
	r.mu.RLock()
	group, ok := r.groupCache[path]
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// urlkit panics on unknown groups and routes; these helpers turn that into
// errors.

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("menus: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("menus: urlkit route %q: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("menus: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		return nil, fmt.Errorf("menus: route group %q not found", name)
	}
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("menus: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	if group == nil {
		return nil, fmt.Errorf("menus: child group %q not found", name)
	}
	return group, nil
}

func toParams(raw any) map[string]any {
	params := make(map[string]any)
	switch values := raw.(type) {
	case map[string]any:
		for k, v := range values {
			params[k] = v
		}
	case map[string]string:
		for k, v := range values {
			params[k] = v
		}
	}
	return params
}

func toQuery(raw any) map[string][]string {
	query := make(map[string][]string)
	switch values := raw.(type) {
	case map[string]string:
		for k, v := range values {
			query[k] = append(query[k], v)
		}
	case map[string][]string:
		for k, v := range values {
			query[k] = append(query[k], v...)
		}
	case map[string]any:
		for k, v := range values {
			switch tv := v.(type) {
			case []string:
				query[k] = append(query[k], tv...)
			case []any:
				for _, item := range tv {
					query[k] = append(query[k], fmt.Sprint(item))
				}
			default:
				query[k] = append(query[k], fmt.Sprint(tv))
			}
		}
	}
	return query
}
