package importer

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-breadcrumb/internal/pages"
)

const indexFile = "index.md"

// Document is one page discovered on disk.
type Document struct {
	// Path is the content path the page will be created at.
	Path  string
	File  string
	Slug  string
	Title string
	Kind  pages.Kind
	// Position is nil when the front matter does not set a weight.
	Position *int
	Draft    bool
}

// Parent returns the content path of the parent page.
func (d Document) Parent() string {
	if d.Path == "/" {
		return ""
	}
	return path.Dir(d.Path)
}

type frontMatter struct {
	Title  string `yaml:"title"`
	Slug   string `yaml:"slug"`
	Weight *int   `yaml:"weight"`
	Draft  bool   `yaml:"draft"`
}

type parsed struct {
	meta  frontMatter
	title string
}

// parseSource reads front matter and falls back to the first level one
// heading for the title.
func parseSource(source []byte) (parsed, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return parsed{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = firstHeading(body)
	}
	return parsed{meta: meta, title: title}, nil
}

func firstHeading(body []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))
	var title string
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := node.(*ast.Heading); ok && heading.Level == 1 {
			title = strings.TrimSpace(string(heading.Text(body)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// slugFor prefers the front matter slug and falls back to the file or
// directory name.
func slugFor(meta frontMatter, name string) (string, error) {
	raw := strings.TrimSpace(meta.Slug)
	if raw == "" {
		raw = strings.TrimSuffix(name, path.Ext(name))
	}
	normalized, err := slug.Normalize(raw)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrSlugInvalid, raw)
	}
	return normalized, nil
}

func titleFromName(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	if stem == "" {
		return stem
	}
	return strings.ToUpper(stem[:1]) + stem[1:]
}
