package breadcrumbs

import (
	"context"
	"fmt"
	"strings"
)

// maxDepth bounds every upward walk.
const maxDepth = 256

// crumb is anything that can contribute one item to a trail and point at the
// next source further up its tree.
type crumb interface {
	item(ctx context.Context, links LinkResolver, factory ItemFactory) (Item, bool, error)
	next(ctx context.Context) (crumb, error)
}

type menuCrumb struct {
	entry MenuEntry
}

func (c menuCrumb) item(ctx context.Context, links LinkResolver, factory ItemFactory) (Item, bool, error) {
	link, err := links.MenuLink(ctx, c.entry)
	if err != nil {
		return Item{}, false, fmt.Errorf("breadcrumbs: resolve menu link %q: %w", c.entry.Name(), err)
	}
	item, ok := factory(c.entry.Name(), link)
	return item, ok, nil
}

func (c menuCrumb) next(context.Context) (crumb, error) {
	parent := c.entry.Parent()
	if parent == nil {
		return nil, nil
	}
	return menuCrumb{entry: parent}, nil
}

type nodeCrumb struct {
	node    Node
	content ContentResolver
}

func (c nodeCrumb) item(ctx context.Context, links LinkResolver, factory ItemFactory) (Item, bool, error) {
	link, err := links.NodeLink(ctx, c.node)
	if err != nil {
		return Item{}, false, fmt.Errorf("breadcrumbs: resolve node link %q: %w", c.node.Path(), err)
	}
	item, ok := factory(c.node.DisplayName(), link)
	return item, ok, nil
}

func (c nodeCrumb) next(ctx context.Context) (crumb, error) {
	parent, err := c.content.ParentOf(ctx, c.node)
	if err != nil {
		return nil, fmt.Errorf("breadcrumbs: resolve parent of %q: %w", c.node.Path(), err)
	}
	if parent == nil {
		return nil, nil
	}
	return nodeCrumb{node: parent, content: c.content}, nil
}

// collectTrail walks upward from start, emitting one item per visited source
// until the source runs out, stop reports true (that source is excluded) or
// limit steps were taken. The result is ordered root-most first.
func collectTrail(ctx context.Context, start crumb, stop func(crumb) bool, limit int, links LinkResolver, factory ItemFactory) ([]Item, error) {
	if limit > maxDepth {
		limit = maxDepth
	}
	items := make([]Item, 0, 4)
	current := start
	for steps := 0; current != nil && steps < limit; steps++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stop != nil && stop(current) {
			break
		}
		item, ok, err := current.item(ctx, links, factory)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
		next, err := current.next(ctx)
		if err != nil {
			return nil, err
		}
		current = next
	}
	reverse(items)
	return items, nil
}

func reverse(items []Item) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// segmentCount counts the "/" separated segments of a remainder the way a
// split that drops trailing empty parts would. An empty remainder counts as
// one segment.
func segmentCount(remainder string) int {
	if remainder == "" {
		return 1
	}
	parts := strings.Split(remainder, "/")
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return end
}

// remainingSteps returns how many levels the current path sits below the
// boundary path, and false when current is not prefixed by boundary.
func remainingSteps(boundaryPath, currentPath string) (int, bool) {
	if !strings.HasPrefix(currentPath, boundaryPath) {
		return 0, false
	}
	remainder := strings.TrimPrefix(currentPath[len(boundaryPath):], "/")
	return segmentCount(remainder), true
}
