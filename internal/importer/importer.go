package importer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/identity"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

var (
	ErrSlugInvalid   = errors.New("importer: slug is invalid")
	ErrRootInvalid   = errors.New("importer: content root must be an absolute path")
	ErrSlugCollision = errors.New("importer: two files map to the same content path")
)

// Options control one import run.
type Options struct {
	// Root is the content path the directory is mounted at. Defaults to "/".
	Root string
	// DryRun scans and reports without creating pages.
	DryRun bool
	// IncludeDrafts imports documents whose front matter sets draft: true.
	IncludeDrafts bool
}

// Result summarises an import run.
type Result struct {
	Documents []Document
	Created   []string
	Skipped   []string
}

// Importer turns a directory of markdown files into a page tree.
type Importer struct {
	pages  pages.Service
	logger interfaces.Logger
}

// Option configures the importer.
type Option func(*Importer)

func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func New(service pages.Service, opts ...Option) *Importer {
	i := &Importer{pages: service, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// Scan walks dir inside fsys. Directories become folders titled by their
// index.md, other markdown files become documents. The result is ordered
// parents first.
func (i *Importer) Scan(ctx context.Context, fsys fs.FS, dir string, opts Options) ([]Document, error) {
	root := strings.TrimSpace(opts.Root)
	if root == "" {
		root = "/"
	}
	if !strings.HasPrefix(root, "/") {
		return nil, fmt.Errorf("%w: %q", ErrRootInvalid, opts.Root)
	}
	root = pages.NormalizePath(root)
	if dir = strings.Trim(strings.TrimSpace(dir), "/"); dir == "" {
		dir = "."
	}

	byPath := map[string]Document{}
	add := func(doc Document) error {
		if existing, ok := byPath[doc.Path]; ok {
			return fmt.Errorf("%w: %s and %s", ErrSlugCollision, existing.File, doc.File)
		}
		byPath[doc.Path] = doc
		return nil
	}
	contentPath := map[string]string{dir: root}

	err := fs.WalkDir(fsys, dir, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && file != dir {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			doc, err := i.folder(fsys, file, dir, contentPath)
			if err != nil {
				return err
			}
			contentPath[file] = doc.Path
			return add(doc)
		}
		if path.Ext(d.Name()) != ".md" || d.Name() == indexFile {
			return nil
		}
		doc, err := i.document(fsys, file, contentPath[path.Dir(file)])
		if err != nil {
			return err
		}
		if doc.Draft && !opts.IncludeDrafts {
			i.logger.Debug("importer.scan.draft_skipped", "file", file)
			return nil
		}
		return add(doc)
	})
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(byPath))
	for _, doc := range byPath {
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b Document) int {
		return cmp.Or(
			cmp.Compare(depth(a.Path), depth(b.Path)),
			cmp.Compare(a.Path, b.Path),
		)
	})
	return docs, nil
}

// Import scans dir and creates the pages that do not exist yet. Ancestors of
// Root are created as folders when missing.
func (i *Importer) Import(ctx context.Context, fsys fs.FS, dir string, opts Options) (*Result, error) {
	logger := logging.WithImportContext(i.logger.WithContext(ctx), dir, "import")

	docs, err := i.Scan(ctx, fsys, dir, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Documents: docs}
	if len(docs) == 0 {
		return result, nil
	}

	if !opts.DryRun {
		if err := i.ensureAncestors(ctx, docs[0].Path, result); err != nil {
			return nil, err
		}
	}

	for _, doc := range docs {
		_, err := i.pages.GetByPath(ctx, doc.Path)
		switch {
		case err == nil:
			result.Skipped = append(result.Skipped, doc.Path)
			continue
		case !errors.Is(err, pages.ErrPageNotFound):
			return nil, err
		}
		if opts.DryRun {
			result.Created = append(result.Created, doc.Path)
			continue
		}
		if err := i.create(ctx, doc); err != nil {
			return nil, fmt.Errorf("importer: create %s from %s: %w", doc.Path, doc.File, err)
		}
		result.Created = append(result.Created, doc.Path)
	}

	logger.Info("importer.import.completed",
		"documents", len(docs),
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func (i *Importer) create(ctx context.Context, doc Document) error {
	id := identity.PageUUID(doc.Path)
	_, err := i.pages.Create(ctx, pages.CreatePageInput{
		ID:         &id,
		ParentPath: doc.Parent(),
		Slug:       doc.Slug,
		Title:      doc.Title,
		Kind:       doc.Kind,
		Position:   doc.Position,
	})
	return err
}

func (i *Importer) ensureAncestors(ctx context.Context, root string, result *Result) error {
	var missing []string
	for current := root; current != "/"; {
		current = path.Dir(current)
		if _, err := i.pages.GetByPath(ctx, current); err == nil {
			break
		} else if !errors.Is(err, pages.ErrPageNotFound) {
			return err
		}
		missing = append(missing, current)
	}
	for _, folder := range slices.Backward(missing) {
		doc := Document{Path: folder, Kind: pages.KindFolder, Slug: path.Base(folder), Title: titleFromName(path.Base(folder))}
		if folder == "/" {
			doc.Slug, doc.Title = "", "Home"
		}
		if err := i.create(ctx, doc); err != nil {
			return fmt.Errorf("importer: create ancestor %s: %w", folder, err)
		}
		result.Created = append(result.Created, folder)
	}
	return nil
}

func (i *Importer) folder(fsys fs.FS, file, dir string, contentPath map[string]string) (Document, error) {
	doc := Document{File: file, Kind: pages.KindFolder}

	var meta frontMatter
	var title string
	if source, err := fs.ReadFile(fsys, path.Join(file, indexFile)); err == nil {
		parsed, err := parseSource(source)
		if err != nil {
			return Document{}, fmt.Errorf("importer: %s: %w", path.Join(file, indexFile), err)
		}
		meta, title = parsed.meta, parsed.title
		doc.Position = meta.Weight
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Document{}, err
	}

	if file == dir {
		doc.Path = contentPath[dir]
		doc.Slug = path.Base(doc.Path)
		if doc.Path == "/" {
			doc.Slug = ""
		}
	} else {
		slugValue, err := slugFor(meta, path.Base(file))
		if err != nil {
			return Document{}, fmt.Errorf("importer: %s: %w", file, err)
		}
		doc.Slug = slugValue
		doc.Path = joinContent(contentPath[path.Dir(file)], slugValue)
	}

	doc.Title = title
	if doc.Title == "" {
		doc.Title = titleFromName(path.Base(file))
		if doc.Path == "/" {
			doc.Title = "Home"
		}
	}
	return doc, nil
}

func (i *Importer) document(fsys fs.FS, file, parent string) (Document, error) {
	source, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Document{}, err
	}
	parsed, err := parseSource(source)
	if err != nil {
		return Document{}, fmt.Errorf("importer: %s: %w", file, err)
	}
	slugValue, err := slugFor(parsed.meta, path.Base(file))
	if err != nil {
		return Document{}, fmt.Errorf("importer: %s: %w", file, err)
	}
	title := parsed.title
	if title == "" {
		title = titleFromName(path.Base(file))
	}
	return Document{
		Path:     joinContent(parent, slugValue),
		File:     file,
		Slug:     slugValue,
		Title:    title,
		Kind:     pages.KindDocument,
		Position: parsed.meta.Weight,
		Draft:    parsed.meta.Draft,
	}, nil
}

func joinContent(parent, slugValue string) string {
	if parent == "/" || parent == "" {
		return "/" + slugValue
	}
	return parent + "/" + slugValue
}

func depth(contentPath string) int {
	if contentPath == "/" {
		return 0
	}
	return strings.Count(contentPath, "/")
}
