package adapters

import (
	"context"
	"errors"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/pages"
)

// ContentAdapter exposes the page tree as the builder's ContentResolver.
type ContentAdapter struct {
	pages pages.Service
}

var _ breadcrumbs.ContentResolver = (*ContentAdapter)(nil)

func NewContentAdapter(service pages.Service) *ContentAdapter {
	return &ContentAdapter{pages: service}
}

// NodeFor returns nil when the target has no content binding or the page
// does not exist.
func (a *ContentAdapter) NodeFor(ctx context.Context, target breadcrumbs.Target) (breadcrumbs.Node, error) {
	if target.ContentPath == "" {
		return nil, nil
	}
	page, err := a.pages.GetByPath(ctx, target.ContentPath)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return PageNode{page: page}, nil
}

func (a *ContentAdapter) ParentOf(ctx context.Context, node breadcrumbs.Node) (breadcrumbs.Node, error) {
	page, err := a.pageFor(ctx, node)
	if err != nil || page == nil {
		return nil, err
	}
	parent, err := a.pages.Parent(ctx, page)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	return PageNode{page: parent}, nil
}

func (a *ContentAdapter) IsSelf(left, right breadcrumbs.Node) bool {
	if left == nil || right == nil {
		return false
	}
	return left.ID() == right.ID()
}

func (a *ContentAdapter) IsAncestor(_ context.Context, ancestor, node breadcrumbs.Node) (bool, error) {
	if ancestor == nil || node == nil {
		return false, nil
	}
	return pages.IsAncestorPath(ancestor.Path(), node.Path()), nil
}

func (a *ContentAdapter) pageFor(ctx context.Context, node breadcrumbs.Node) (*pages.Page, error) {
	if node == nil {
		return nil, nil
	}
	if pn, ok := node.(PageNode); ok && pn.page != nil {
		return pn.page, nil
	}
	page, err := a.pages.GetByPath(ctx, node.Path())
	if errors.Is(err, pages.ErrPageNotFound) {
		return nil, nil
	}
	return page, err
}

// PageNode is a page seen as a content tree node.
type PageNode struct {
	page *pages.Page
}

var _ breadcrumbs.Node = PageNode{}

// NewPageNode wraps page.
func NewPageNode(page *pages.Page) PageNode { return PageNode{page: page} }

func (n PageNode) ID() string          { return n.page.ID.String() }
func (n PageNode) Path() string        { return n.page.Path }
func (n PageNode) DisplayName() string { return n.page.Title }
func (n PageNode) IsDocument() bool    { return n.page.IsDocument() }

// Page returns the wrapped page.
func (n PageNode) Page() *pages.Page { return n.page }
