package pages

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for scaffolding/tests.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	pathIndex map[string]uuid.UUID
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		pathIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := clonePage(record)
	m.pages[copied.ID] = copied
	m.pathIndex[pathKey(copied.Path)] = copied.ID
	return clonePage(copied), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return clonePage(page), nil
}

// GetByPath retrieves a page by its content path.
func (m *MemoryPageRepository) GetByPath(_ context.Context, path string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.pathIndex[pathKey(path)]
	if !ok {
		return nil, &NotFoundError{Key: path}
	}
	return clonePage(m.pages[id]), nil
}

func (m *MemoryPageRepository) ListChildren(_ context.Context, parentID *uuid.UUID) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0)
	for _, record := range m.pages {
		if sameParent(record.ParentID, parentID) {
			out = append(out, clonePage(record))
		}
	}
	sortPages(out)
	return out, nil
}

// List returns every page ordered by path.
func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		out = append(out, clonePage(record))
	}
	slices.SortFunc(out, func(a, b *Page) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out, nil
}

func (m *MemoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.pages[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.pathIndex, pathKey(record.Path))
	delete(m.pages, id)
	return nil
}

func pathKey(path string) string {
	return strings.ToLower(strings.TrimSpace(path))
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortPages(pages []*Page) {
	slices.SortStableFunc(pages, func(a, b *Page) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.Path, b.Path)
	})
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.ParentID != nil {
		parent := *src.ParentID
		cloned.ParentID = &parent
	}
	cloned.Children = nil
	return &cloned
}
