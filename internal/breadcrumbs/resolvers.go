package breadcrumbs

import "context"

// Target is the resolved destination of a request or a menu entry.
type Target struct {
	// PathInfo is the site relative path, e.g. "/products/widgets".
	PathInfo string
	// ContentPath binds the target to a content node. Empty means the target
	// has no content binding.
	ContentPath string
	Route       string
	Params      map[string]string
	Query       map[string]string
}

// Request carries what the builder needs to know about the current request.
type Request struct {
	Target Target
}

// MenuEntry is a node of a configured navigation tree. Parent must return an
// untyped nil at the root.
type MenuEntry interface {
	Name() string
	Parent() MenuEntry
	Target() Target
}

// Node is a content tree node.
type Node interface {
	ID() string
	Path() string
	DisplayName() string
	IsDocument() bool
}

// MenuResolver returns the deepest expanded entry of the named menu for the
// request, or nil when nothing in the menu is expanded. A menu that does not
// exist yields an error matching ErrMenuNotFound.
type MenuResolver interface {
	DeepestExpandedItem(ctx context.Context, menu string, req Request) (MenuEntry, error)
}

// ContentResolver maps targets to content nodes and answers tree queries.
// NodeFor and ParentOf return a nil node when nothing is bound.
type ContentResolver interface {
	NodeFor(ctx context.Context, target Target) (Node, error)
	ParentOf(ctx context.Context, node Node) (Node, error)
	IsSelf(a, b Node) bool
	IsAncestor(ctx context.Context, ancestor, node Node) (bool, error)
}

// LinkResolver produces renderable links. A nil link is allowed.
type LinkResolver interface {
	MenuLink(ctx context.Context, entry MenuEntry) (*Link, error)
	NodeLink(ctx context.Context, node Node) (*Link, error)
}

// ItemFactory turns a label and link into an item. Returning false skips the
// item.
type ItemFactory func(label string, link *Link) (Item, bool)

// DefaultItemFactory drops entries that carry neither a label nor a link.
func DefaultItemFactory(label string, link *Link) (Item, bool) {
	if label == "" && link == nil {
		return Item{}, false
	}
	return NewItem(label, link), true
}
