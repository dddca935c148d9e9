package menus

import "context"

// ResolveRequest carries the context required for URL resolvers to build links.
type ResolveRequest struct {
	MenuCode string
	Item     *MenuItem
}

// URLResolver allows callers to override how menu URLs are generated.
type URLResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}

// PathURLResolver returns the explicit url target when present, otherwise
// the item path.
type PathURLResolver struct{}

func (PathURLResolver) Resolve(_ context.Context, req ResolveRequest) (string, error) {
	if req.Item == nil {
		return "", nil
	}
	if url, ok := targetString(req.Item.Target, TargetURL); ok && url != "" {
		return url, nil
	}
	return ItemPath(req.Item), nil
}

// ChainURLResolver tries each resolver in order and returns the first
// non-empty URL.
type ChainURLResolver []URLResolver

func (c ChainURLResolver) Resolve(ctx context.Context, req ResolveRequest) (string, error) {
	for _, resolver := range c {
		if resolver == nil {
			continue
		}
		url, err := resolver.Resolve(ctx, req)
		if err != nil {
			return "", err
		}
		if url != "" {
			return url, nil
		}
	}
	return "", nil
}
