// Package sitemap maps request paths to content tree paths through a table
// of mounts.
package sitemap

import (
	"errors"
	"slices"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
)

var ErrMountPrefixDuplicate = errors.New("sitemap: duplicate mount prefix")

// Mount binds every request path below Prefix to the content subtree at
// Root. The request "/docs/intro" under Mount{Prefix: "/docs", Root:
// "/manual"} resolves to the content path "/manual/intro".
type Mount struct {
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Root   string `json:"root" yaml:"root" mapstructure:"root"`
}

// Resolver resolves request paths through the longest matching mount.
type Resolver struct {
	mounts []Mount
}

// DefaultMounts maps the whole site onto the content root.
func DefaultMounts() []Mount {
	return []Mount{{Prefix: "/", Root: "/"}}
}

// New builds a resolver. An empty table uses DefaultMounts.
func New(mounts ...Mount) (*Resolver, error) {
	if len(mounts) == 0 {
		mounts = DefaultMounts()
	}
	normalized := make([]Mount, 0, len(mounts))
	seen := make(map[string]struct{}, len(mounts))
	for _, mount := range mounts {
		m := Mount{Prefix: Normalize(mount.Prefix), Root: Normalize(mount.Root)}
		if _, ok := seen[m.Prefix]; ok {
			return nil, ErrMountPrefixDuplicate
		}
		seen[m.Prefix] = struct{}{}
		normalized = append(normalized, m)
	}
	slices.SortStableFunc(normalized, func(a, b Mount) int {
		return len(b.Prefix) - len(a.Prefix)
	})
	return &Resolver{mounts: normalized}, nil
}

// MustNew is New for static tables.
func MustNew(mounts ...Mount) *Resolver {
	r, err := New(mounts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Mounts returns the table, longest prefix first.
func (r *Resolver) Mounts() []Mount {
	return slices.Clone(r.mounts)
}

// Resolve returns the target for a request path. ContentPath is empty when
// no mount covers the path.
func (r *Resolver) Resolve(pathInfo string) breadcrumbs.Target {
	path := Normalize(pathInfo)
	target := breadcrumbs.Target{PathInfo: path}
	for _, mount := range r.mounts {
		if rest, ok := cut(path, mount.Prefix); ok {
			target.ContentPath = join(mount.Root, rest)
			return target
		}
	}
	return target
}

// PathInfoFor maps a content path back to the request path of the mount
// with the longest matching root.
func (r *Resolver) PathInfoFor(contentPath string) (string, bool) {
	path := Normalize(contentPath)
	best := -1
	var rest string
	for i, mount := range r.mounts {
		remainder, ok := cut(path, mount.Root)
		if !ok {
			continue
		}
		if best < 0 || len(mount.Root) > len(r.mounts[best].Root) {
			best, rest = i, remainder
		}
	}
	if best < 0 {
		return "", false
	}
	return join(r.mounts[best].Prefix, rest), true
}

// Normalize returns path with one leading slash and no trailing slash.
func Normalize(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/")
}

// cut strips prefix from path on a segment boundary.
func cut(path, prefix string) (string, bool) {
	if prefix == "/" {
		return strings.TrimPrefix(path, "/"), true
	}
	if path == prefix {
		return "", true
	}
	if rest, ok := strings.CutPrefix(path, prefix+"/"); ok {
		return rest, true
	}
	return "", false
}

func join(base, rest string) string {
	if rest == "" {
		return base
	}
	if base == "/" {
		return "/" + rest
	}
	return base + "/" + rest
}
