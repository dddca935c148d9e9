package breadcrumbs

import (
	"context"
	"errors"
	"testing"
)

func TestComponentBeforeRenderStoresTrail(t *testing.T) {
	_, products, content := siteFixture()
	menus := &stubMenus{menus: map[string]*stubEntry{"main": products}}
	component := NewComponent(mustBuilder(t, menus, content, stubLinks{}, DefaultOptions()))

	attrs := AttributeMap{}
	if err := component.BeforeRender(context.Background(), widgetRequest(), attrs); err != nil {
		t.Fatalf("before render: %v", err)
	}
	trail := attrs.Breadcrumb()
	if trail == nil {
		t.Fatalf("expected trail under %q, got %#v", AttributeName, attrs)
	}
	assertLabels(t, trail, "Home", "Products", "Widgets", "WidgetA")
}

func TestComponentBeforeRenderSurfacesErrors(t *testing.T) {
	_, _, content := siteFixture()
	opts := DefaultOptions()
	opts.StrictMenus = true
	component := NewComponent(mustBuilder(t, &stubMenus{}, content, stubLinks{}, opts))

	attrs := AttributeMap{}
	err := component.BeforeRender(context.Background(), widgetRequest(), attrs)
	if !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}
	if _, ok := attrs[AttributeName]; ok {
		t.Fatalf("expected no attribute on failure")
	}
}

func TestBreadcrumbContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected empty context")
	}
	trail := NewBreadcrumb([]Item{NewItem("Home", nil)}, "/", "")
	ctx := ContextWithBreadcrumb(context.Background(), trail)
	got, ok := FromContext(ctx)
	if !ok || got != trail {
		t.Fatalf("expected trail from context, got %v", got)
	}
}
