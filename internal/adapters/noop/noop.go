package noop

import (
	"context"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
)

// Menus returns a MenuResolver that never finds an expanded entry.
func Menus() breadcrumbs.MenuResolver {
	return menuResolver{}
}

type menuResolver struct{}

func (menuResolver) DeepestExpandedItem(context.Context, string, breadcrumbs.Request) (breadcrumbs.MenuEntry, error) {
	return nil, nil
}

// Content returns a ContentResolver with no content tree. Trails built with it
// carry menu items only.
func Content() breadcrumbs.ContentResolver {
	return contentResolver{}
}

type contentResolver struct{}

func (contentResolver) NodeFor(context.Context, breadcrumbs.Target) (breadcrumbs.Node, error) {
	return nil, nil
}

func (contentResolver) ParentOf(context.Context, breadcrumbs.Node) (breadcrumbs.Node, error) {
	return nil, nil
}

func (contentResolver) IsSelf(a, b breadcrumbs.Node) bool {
	return a != nil && b != nil && a.ID() == b.ID()
}

func (contentResolver) IsAncestor(context.Context, breadcrumbs.Node, breadcrumbs.Node) (bool, error) {
	return false, nil
}

// Links returns a LinkResolver that links straight to paths without URL
// building or existence checks.
func Links() breadcrumbs.LinkResolver {
	return linkResolver{}
}

type linkResolver struct{}

func (linkResolver) MenuLink(_ context.Context, entry breadcrumbs.MenuEntry) (*breadcrumbs.Link, error) {
	path := entry.Target().PathInfo
	if path == "" {
		return nil, nil
	}
	return &breadcrumbs.Link{Path: path, URL: path}, nil
}

func (linkResolver) NodeLink(_ context.Context, node breadcrumbs.Node) (*breadcrumbs.Link, error) {
	return &breadcrumbs.Link{Path: node.Path(), URL: node.Path()}, nil
}
