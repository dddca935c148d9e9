package pages

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const pageNamespace = "page"

// BunPageRepository reads single pages through the cache. Filtered lists
// always hit the database since their processors cannot be part of a cache
// key.
type BunPageRepository struct {
	base         repository.Repository[*Page]
	repo         repository.Repository[*Page]
	cacheService cache.CacheService
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	repo := &BunPageRepository{base: base, repo: wrapWithCache(base, cacheService, keySerializer)}
	if cacheService != nil && keySerializer != nil {
		repo.cacheService = cacheService
	}
	return repo
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := r.InvalidateCache(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return result, nil
}

func (r *BunPageRepository) GetByPath(ctx context.Context, path string) (*Page, error) {
	// Stored paths are built from normalized slugs and are lower case.
	result, err := r.repo.GetByIdentifier(ctx, strings.ToLower(strings.TrimSpace(path)))
	if err != nil {
		return nil, mapRepositoryError(err, "page", path)
	}
	return result, nil
}

func (r *BunPageRepository) ListChildren(ctx context.Context, parentID *uuid.UUID) ([]*Page, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if parentID == nil {
			q = q.Where("?TableAlias.parent_id IS NULL")
		} else {
			q = q.Where("?TableAlias.parent_id = ?", *parentID)
		}
		return q.OrderExpr("?TableAlias.position ASC").OrderExpr("?TableAlias.path ASC")
	}))
	return records, err
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.path ASC")
	}))
	return records, err
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Page{ID: id}); err != nil {
		return mapRepositoryError(err, "page", id.String())
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops every cached page read.
func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, pageNamespace+cache.KeySeparator)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
