package fixtures_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-breadcrumb/internal/fixtures"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/validation"
)

func newServices() (menus.Service, pages.Service) {
	menuService := menus.NewService(menus.NewMemoryMenuRepository(), menus.NewMemoryMenuItemRepository())
	pageService := pages.NewService(pages.NewMemoryPageRepository())
	return menuService, pageService
}

func TestLoadAndApplySite(t *testing.T) {
	ctx := context.Background()
	site, err := fixtures.Load(os.DirFS("testdata"), "site.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(site.Pages) != 4 || len(site.Menus) != 1 || len(site.Menus[0].Items[0].Children[0].Children) != 2 {
		t.Fatalf("unexpected site %+v", site)
	}

	menuService, pageService := newServices()
	seeder := fixtures.NewSeeder(menuService, pageService)

	result, err := seeder.Apply(ctx, site)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(result.Pages) != 4 || len(result.Menus) != 1 || len(result.Items) != 4 {
		t.Fatalf("unexpected result %+v", result)
	}

	expanded, err := menuService.DeepestExpandedItem(ctx, "main", "/products/widgets/widget-a")
	if err != nil {
		t.Fatalf("DeepestExpandedItem: %v", err)
	}
	if expanded == nil || expanded.Item.Label != "Widgets" {
		t.Fatalf("expected widgets to be the deepest expanded item, got %+v", expanded)
	}

	page, err := pageService.GetByPath(ctx, "/products/widgets/widget-a")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if page.Title != "Widget A" || page.Kind != pages.KindDocument {
		t.Fatalf("unexpected page %+v", page)
	}

	again, err := seeder.Apply(ctx, site)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if len(again.Pages)+len(again.Menus)+len(again.Items) != 0 || len(again.Skipped) != 9 {
		t.Fatalf("expected second apply to skip everything, got %+v", again)
	}
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"relative page path": "pages:\n  - path: products\n",
		"unknown kind":       "pages:\n  - path: /a\n    kind: section\n",
		"item without label": "menus:\n  - code: main\n    items:\n      - code: x\n",
		"bad menu code":      "menus:\n  - code: Main Menu\n",
		"unknown key":        "widgets: []\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fixtures.Decode(strings.NewReader(doc))
			if !errors.Is(err, validation.ErrSchemaValidation) {
				t.Fatalf("expected schema validation error, got %v", err)
			}
			if len(validation.Issues(err)) == 0 {
				t.Fatalf("expected issues for %q", doc)
			}
		})
	}

	if _, err := fixtures.Decode(strings.NewReader("  \n")); !errors.Is(err, fixtures.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestApplyRequiresServices(t *testing.T) {
	seeder := fixtures.NewSeeder(nil, nil)
	if _, err := seeder.Apply(context.Background(), &fixtures.Site{Pages: []fixtures.Page{{Path: "/"}}}); err == nil {
		t.Fatalf("expected error without page service")
	}
	if result, err := seeder.Apply(context.Background(), nil); err != nil || result == nil {
		t.Fatalf("expected empty result for nil site, got %+v, %v", result, err)
	}
}
