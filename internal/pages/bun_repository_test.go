package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.NewDropTable().Model((*pages.Page)(nil)).IfExists().Exec(ctx); err != nil {
		t.Fatalf("drop pages: %v", err)
	}
	if _, err := db.NewCreateTable().Model((*pages.Page)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create pages: %v", err)
	}
	return db
}

func TestBunPageRepository_TreeQueries(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)
	svc := newService(t, pages.NewBunPageRepository(db), pages.WithDeterministicIDs(true))
	tree := seedTree(t, svc)
	mustCreate(t, svc, pages.CreatePageInput{ParentPath: "/products", Slug: "gadgets", Title: "Gadgets", Kind: pages.KindFolder})

	page, err := svc.GetByPath(ctx, "/Products/Widgets/Widget-A")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if page.ID != tree["/products/widgets/widget-a"].ID {
		t.Fatalf("expected case-insensitive path lookup, got %+v", page)
	}

	children, err := svc.Children(ctx, tree["/products"].ID)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 2 || children[0].Slug != "widgets" || children[1].Slug != "gadgets" {
		t.Fatalf("expected children ordered by position, got %+v", children)
	}

	ancestors, err := svc.Ancestors(ctx, page)
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	if len(ancestors) != 3 || ancestors[0].Path != "/" {
		t.Fatalf("unexpected ancestors %+v", ancestors)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 || all[0].Path != "/" {
		t.Fatalf("expected 5 pages ordered by path, got %d", len(all))
	}

	if _, err := svc.GetByPath(ctx, "/missing"); !errors.Is(err, pages.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestBunPageRepository_WithCache(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)
	seedTree(t, newService(t, pages.NewBunPageRepository(db)))

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := pages.NewBunPageRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	svc := newService(t, repo)

	for range 2 {
		page, err := svc.GetByPath(ctx, "/products/widgets")
		if err != nil {
			t.Fatalf("GetByPath: %v", err)
		}
		if page.Title != "Widgets" {
			t.Fatalf("unexpected page %+v", page)
		}
	}
	if err := svc.InvalidateCache(ctx); err != nil {
		t.Fatalf("InvalidateCache: %v", err)
	}
}
