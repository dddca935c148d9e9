package sitemap

import (
	"errors"
	"testing"
)

func TestResolveLongestPrefix(t *testing.T) {
	r := MustNew(
		Mount{Prefix: "/", Root: "/"},
		Mount{Prefix: "/docs/", Root: "manual"},
		Mount{Prefix: "/docs/api", Root: "/reference"},
	)

	cases := []struct {
		path    string
		content string
	}{
		{path: "", content: "/"},
		{path: "/products/widgets/", content: "/products/widgets"},
		{path: "/docs", content: "/manual"},
		{path: "/docs/intro", content: "/manual/intro"},
		{path: "/docsx", content: "/docsx"},
		{path: "/docs/api/v1", content: "/reference/v1"},
	}
	for _, tc := range cases {
		got := r.Resolve(tc.path)
		if got.ContentPath != tc.content {
			t.Fatalf("Resolve(%q) content = %q, want %q", tc.path, got.ContentPath, tc.content)
		}
		if got.PathInfo != Normalize(tc.path) {
			t.Fatalf("Resolve(%q) path = %q", tc.path, got.PathInfo)
		}
	}
}

func TestResolveWithoutCoveringMount(t *testing.T) {
	r := MustNew(Mount{Prefix: "/docs", Root: "/manual"})
	if got := r.Resolve("/blog/post"); got.ContentPath != "" {
		t.Fatalf("expected unbound target, got %q", got.ContentPath)
	}
}

func TestPathInfoFor(t *testing.T) {
	r := MustNew(
		Mount{Prefix: "/", Root: "/"},
		Mount{Prefix: "/docs", Root: "/manual"},
	)
	cases := map[string]string{
		"/manual/intro":     "/docs/intro",
		"/manual":           "/docs",
		"/products/widgets": "/products/widgets",
	}
	for content, want := range cases {
		got, ok := r.PathInfoFor(content)
		if !ok || got != want {
			t.Fatalf("PathInfoFor(%q) = %q, %v want %q", content, got, ok, want)
		}
	}

	narrow := MustNew(Mount{Prefix: "/docs", Root: "/manual"})
	if _, ok := narrow.PathInfoFor("/blog"); ok {
		t.Fatalf("expected no mapping outside mounted roots")
	}
}

func TestNewRejectsDuplicatePrefixes(t *testing.T) {
	_, err := New(Mount{Prefix: "/docs", Root: "/a"}, Mount{Prefix: "docs/", Root: "/b"})
	if !errors.Is(err, ErrMountPrefixDuplicate) {
		t.Fatalf("expected ErrMountPrefixDuplicate, got %v", err)
	}
}
