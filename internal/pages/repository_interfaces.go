package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PageRepository persists content tree nodes.
type PageRepository interface {
	Create(ctx context.Context, page *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetByPath(ctx context.Context, path string) (*Page, error)
	// ListChildren returns the direct children of parentID ordered by
	// position; a nil parent lists root level pages.
	ListChildren(ctx context.Context, parentID *uuid.UUID) ([]*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a page lookup misses.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.Key)
}
