package menus

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxTreeDepth = 256

// NavigationNode represents a menu item ready for presentation.
type NavigationNode struct {
	ID       uuid.UUID        `json:"id"`
	Label    string           `json:"label"`
	URL      string           `json:"url"`
	Path     string           `json:"path,omitempty"`
	Position int              `json:"position"`
	Selected bool             `json:"selected,omitempty"`
	Expanded bool             `json:"expanded,omitempty"`
	Children []NavigationNode `json:"children,omitempty"`
}

// ExpandedItem is one link of the chain from the deepest expanded item up to
// the menu root. Parent is nil at the root.
type ExpandedItem struct {
	Item     *MenuItem
	MenuCode string
	Label    string
	Path     string
	URL      string
	Selected bool
	Parent   *ExpandedItem
}

// Chain returns the items from the root down to this one.
func (e *ExpandedItem) Chain() []*ExpandedItem {
	var chain []*ExpandedItem
	for current := e; current != nil && len(chain) < maxTreeDepth; current = current.Parent {
		chain = append(chain, current)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// TargetString returns a string value stored on the item target.
func (e *ExpandedItem) TargetString(key string) (string, bool) {
	if e == nil || e.Item == nil {
		return "", false
	}
	return targetString(e.Item.Target, key)
}

// NormalizePath returns path with a single leading slash and no trailing
// slash. Blank input stays blank.
func NormalizePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	trimmed = "/" + strings.Trim(trimmed, "/")
	return trimmed
}

// ItemPath returns the normalized path an item points at, or "" when the
// item has no path target.
func ItemPath(item *MenuItem) string {
	if item == nil {
		return ""
	}
	path, _ := targetString(item.Target, TargetPath)
	return NormalizePath(path)
}

// IsExpanded reports whether an item path is on the active trail of the
// request path: equal to it, or a prefix of it ending on a segment boundary.
func IsExpanded(itemPath, requestPath string) bool {
	if itemPath == "" || requestPath == "" {
		return false
	}
	if itemPath == requestPath || itemPath == "/" {
		return true
	}
	return strings.HasPrefix(requestPath, itemPath+"/")
}

func segmentCount(path string) int {
	count := 0
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			count++
		}
	}
	return count
}

type expansionScore struct {
	segments int
	depth    int
}

// beats prefers more path segments, then a deeper tree position. Equal
// scores keep the earlier item.
func (s expansionScore) beats(other expansionScore) bool {
	if s.segments != other.segments {
		return s.segments > other.segments
	}
	return s.depth > other.depth
}

// walkItems visits items depth first in position order, passing the chain
// from the root to the visited item.
func walkItems(items []*MenuItem, chain []*MenuItem, visit func(item *MenuItem, chain []*MenuItem)) {
	if len(chain) >= maxTreeDepth {
		return
	}
	for _, item := range items {
		current := append(chain[:len(chain):len(chain)], item)
		visit(item, current)
		walkItems(item.Children, current, visit)
	}
}

func targetString(target map[string]any, key string) (string, bool) {
	if target == nil {
		return "", false
	}
	raw, ok := target[key]
	if !ok || raw == nil {
		return "", ok
	}
	if str, ok := raw.(string); ok {
		return strings.TrimSpace(str), true
	}
	return strings.TrimSpace(fmt.Sprint(raw)), true
}
