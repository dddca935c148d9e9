package breadcrumbscmd

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-breadcrumb/internal/fixtures"
)

// flakyPageService fails the first cache invalidation.
type flakyPageService struct {
	*trackingPageService
}

func (f *flakyPageService) InvalidateCache(ctx context.Context) error {
	f.invalidateCalls++
	if f.invalidateCalls == 1 {
		return errors.New("cache backend unavailable")
	}
	return nil
}

func TestDispatchInvalidateCacheRetries(t *testing.T) {
	menuService, pageService := newServices()
	flaky := &flakyPageService{trackingPageService: pageService}
	handler := NewInvalidateCacheHandler(menuService, flaky, nil, FeatureGates{})

	sub := dispatcher.SubscribeCommand[InvalidateCacheCommand](handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), InvalidateCacheCommand{}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if flaky.invalidateCalls != 2 {
		t.Fatalf("expected 2 page invalidations, got %d", flaky.invalidateCalls)
	}
	if menuService.invalidateCalls != 2 {
		t.Fatalf("expected menus invalidated on each attempt, got %d", menuService.invalidateCalls)
	}
}

func TestDispatchSeedSite(t *testing.T) {
	ctx := context.Background()
	menuService, pageService := newServices()
	files := fstest.MapFS{
		"site.yaml": {Data: []byte(`pages:
  - path: /
    title: Home
    kind: folder
  - path: /guide
    title: Guide
menus:
  - code: main
    items:
      - code: home
        label: Home
        target: {path: /}
        children:
          - code: guide
            label: Guide
            target: {path: /guide}
`)},
	}
	handler := NewSeedSiteHandler(fixtures.NewSeeder(menuService, pageService), mapFiles(files), nil)

	sub := dispatcher.SubscribeCommand[SeedSiteCommand](handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(ctx, SeedSiteCommand{File: "site.yaml"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result := handler.LastResult(); result == nil || len(result.Items) != 2 {
		t.Fatalf("unexpected first result %+v", result)
	}

	if err := dispatcher.Dispatch(ctx, SeedSiteCommand{File: "site.yaml"}); err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if result := handler.LastResult(); len(result.Items) != 0 || len(result.Skipped) != 5 {
		t.Fatalf("expected second seed to skip everything, got %+v", result)
	}

	roots, err := menuService.ListItems(ctx, "main")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(roots) != 1 || len(roots[0].Children) != 1 || roots[0].Children[0].ExternalCode != "guide" {
		t.Fatalf("expected home > guide hierarchy, got %+v", roots)
	}

	if err := dispatcher.Dispatch(ctx, SeedSiteCommand{}); err == nil {
		t.Fatal("expected validation error for missing file")
	}
}
