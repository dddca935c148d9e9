package menus

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	menuNamespace     = "menu"
	menuItemNamespace = "menu_item"
)

// BunMenuRepository implements MenuRepository with optional caching. Lookups
// by id and code go through the cache; lists read the database.
type BunMenuRepository struct {
	base         repository.Repository[*Menu]
	repo         repository.Repository[*Menu]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunMenuRepository creates a menu repository without caching.
func NewBunMenuRepository(db *bun.DB) *BunMenuRepository {
	return NewBunMenuRepositoryWithCache(db, nil, nil)
}

// NewBunMenuRepositoryWithCache creates a menu repository whose reads go
// through the go-repository-cache decorator when a cache service is given.
func NewBunMenuRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuRepository {
	base := NewMenuRepository(db)
	repo := &BunMenuRepository{base: base, repo: base}
	if cacheService != nil && serializer != nil {
		repo.repo = repositorycache.New(base, cacheService, serializer)
		repo.cacheService = cacheService
		repo.cachePrefix = cachePrefix(menuNamespace)
	}
	return repo
}

func (r *BunMenuRepository) Create(ctx context.Context, menu *Menu) (*Menu, error) {
	created, err := r.repo.Create(ctx, menu)
	if err != nil {
		return nil, err
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunMenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*Menu, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu", id.String())
	}
	return record, nil
}

func (r *BunMenuRepository) GetByCode(ctx context.Context, code string) (*Menu, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "menu", code)
	}
	return record, nil
}

func (r *BunMenuRepository) List(ctx context.Context) ([]*Menu, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.code ASC")
		}),
	)
	return records, err
}

func (r *BunMenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Menu{ID: id}); err != nil {
		return mapRepositoryError(err, "menu", id.String())
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops every cached menu read.
func (r *BunMenuRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunMenuItemRepository implements MenuItemRepository with optional caching.
// Only GetByID is served from the cache.
type BunMenuItemRepository struct {
	base         repository.Repository[*MenuItem]
	repo         repository.Repository[*MenuItem]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunMenuItemRepository creates a menu item repository without caching.
func NewBunMenuItemRepository(db *bun.DB) *BunMenuItemRepository {
	return NewBunMenuItemRepositoryWithCache(db, nil, nil)
}

// NewBunMenuItemRepositoryWithCache creates a menu item repository with caching services.
func NewBunMenuItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuItemRepository {
	base := NewMenuItemRepository(db)
	repo := &BunMenuItemRepository{base: base, repo: base}
	if cacheService != nil && serializer != nil {
		repo.repo = repositorycache.New(base, cacheService, serializer)
		repo.cacheService = cacheService
		repo.cachePrefix = cachePrefix(menuItemNamespace)
	}
	return repo
}

func (r *BunMenuItemRepository) Create(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	created, err := r.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	return created, r.InvalidateCache(ctx)
}

func (r *BunMenuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", id.String())
	}
	return record, nil
}

func (r *BunMenuItemRepository) GetByMenuAndExternalCode(ctx context.Context, menuID uuid.UUID, code string) (*MenuItem, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.menu_id = ?", menuID).
				Where("?TableAlias.external_code = ?", code)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "menu_item", Key: fmt.Sprintf("%s:%s", menuID, code)}
	}
	return records[0], nil
}

func (r *BunMenuItemRepository) ListByMenu(ctx context.Context, menuID uuid.UUID) ([]*MenuItem, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.menu_id = ?", menuID).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	return records, err
}

func (r *BunMenuItemRepository) Update(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	record, err := r.repo.Update(ctx, item,
		repository.UpdateByID(item.ID.String()),
		repository.UpdateColumns("parent_id", "position", "label", "target", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", item.ID.String())
	}
	return record, r.InvalidateCache(ctx)
}

func (r *BunMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &MenuItem{ID: id}); err != nil {
		return mapRepositoryError(err, "menu_item", id.String())
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops every cached item read.
func (r *BunMenuItemRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
