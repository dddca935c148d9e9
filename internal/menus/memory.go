package menus

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memoryMenuRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Menu
	byCode map[string]uuid.UUID
}

// NewMemoryMenuRepository constructs an in-memory repository for menus.
func NewMemoryMenuRepository() MenuRepository {
	return &memoryMenuRepository{
		byID:   make(map[uuid.UUID]*Menu),
		byCode: make(map[string]uuid.UUID),
	}
}

func (m *memoryMenuRepository) Create(_ context.Context, menu *Menu) (*Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenu(menu)
	m.byID[cloned.ID] = cloned
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneMenu(cloned), nil
}

func (m *memoryMenuRepository) GetByID(_ context.Context, id uuid.UUID) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: id.String()}
	}
	return cloneMenu(record), nil
}

func (m *memoryMenuRepository) GetByCode(_ context.Context, code string) (*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, &NotFoundError{Resource: "menu", Key: code}
	}
	return cloneMenu(m.byID[id]), nil
}

func (m *memoryMenuRepository) List(_ context.Context) ([]*Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Menu, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneMenu(record))
	}
	slices.SortFunc(records, func(a, b *Menu) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return 0
	})
	return records, nil
}

func (m *memoryMenuRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "menu", Key: id.String()}
	}
	delete(m.byID, id)
	delete(m.byCode, existing.Code)
	return nil
}

type memoryMenuItemRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*MenuItem
	byMenuID map[uuid.UUID][]uuid.UUID
}

// NewMemoryMenuItemRepository constructs an in-memory repository for menu items.
func NewMemoryMenuItemRepository() MenuItemRepository {
	return &memoryMenuItemRepository{
		byID:     make(map[uuid.UUID]*MenuItem),
		byMenuID: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memoryMenuItemRepository) Create(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneMenuItem(item)
	m.byID[cloned.ID] = cloned
	m.byMenuID[cloned.MenuID] = append(m.byMenuID[cloned.MenuID], cloned.ID)
	return cloneMenuItem(cloned), nil
}

func (m *memoryMenuItemRepository) GetByID(_ context.Context, id uuid.UUID) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: id.String()}
	}
	return cloneMenuItem(record), nil
}

func (m *memoryMenuItemRepository) GetByMenuAndExternalCode(_ context.Context, menuID uuid.UUID, code string) (*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.byMenuID[menuID] {
		if record := m.byID[id]; record.ExternalCode == code {
			return cloneMenuItem(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "menu_item", Key: menuID.String() + ":" + code}
}

func (m *memoryMenuItemRepository) ListByMenu(_ context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byMenuID[menuID]
	items := make([]*MenuItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, cloneMenuItem(m.byID[id]))
	}
	slices.SortStableFunc(items, func(a, b *MenuItem) int {
		return a.Position - b.Position
	})
	return items, nil
}

func (m *memoryMenuItemRepository) Update(_ context.Context, item *MenuItem) (*MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[item.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "menu_item", Key: item.ID.String()}
	}
	cloned := cloneMenuItem(item)
	if cloned.MenuID != existing.MenuID {
		m.byMenuID[existing.MenuID] = slices.DeleteFunc(m.byMenuID[existing.MenuID], func(candidate uuid.UUID) bool {
			return candidate == item.ID
		})
		m.byMenuID[cloned.MenuID] = append(m.byMenuID[cloned.MenuID], cloned.ID)
	}
	m.byID[cloned.ID] = cloned
	return cloneMenuItem(cloned), nil
}

func (m *memoryMenuItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "menu_item", Key: id.String()}
	}
	delete(m.byID, id)
	m.byMenuID[existing.MenuID] = slices.DeleteFunc(m.byMenuID[existing.MenuID], func(candidate uuid.UUID) bool {
		return candidate == id
	})
	return nil
}

func cloneMenu(src *Menu) *Menu {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Description != nil {
		desc := *src.Description
		cloned.Description = &desc
	}
	cloned.Items = nil
	return &cloned
}

func cloneMenuItem(src *MenuItem) *MenuItem {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.ParentID != nil {
		parent := *src.ParentID
		cloned.ParentID = &parent
	}
	if src.Target != nil {
		cloned.Target = maps.Clone(src.Target)
	}
	cloned.Children = nil
	return &cloned
}
