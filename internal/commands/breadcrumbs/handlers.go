package breadcrumbscmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-breadcrumb/internal/commands"
	"github.com/goliatone/go-breadcrumb/internal/fixtures"
	"github.com/goliatone/go-breadcrumb/internal/importer"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

var (
	ErrCacheDisabled    = errors.New("breadcrumb command: cache disabled")
	ErrImporterDisabled = errors.New("breadcrumb command: importer disabled")
)

// FileSystem opens the directory a command names. Defaults to os.DirFS.
type FileSystem func(dir string) (fs.FS, string)

func osFileSystem(dir string) (fs.FS, string) {
	return os.DirFS(filepath.Clean(dir)), "."
}

// InvalidateCacheHandler clears the menu and page caches.
type InvalidateCacheHandler struct {
	inner *commands.Handler[InvalidateCacheCommand]
}

func NewInvalidateCacheHandler(menuService menus.Service, pageService pages.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[InvalidateCacheCommand]) *InvalidateCacheHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg InvalidateCacheCommand) error {
		if !gates.cacheEnabled() {
			return ErrCacheDisabled
		}
		if msg.Scope != ScopePages && menuService != nil {
			if err := menuService.InvalidateCache(ctx); err != nil {
				return err
			}
		}
		if msg.Scope != ScopeMenus && pageService != nil {
			if err := pageService.InvalidateCache(ctx); err != nil {
				return err
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"scope": msg.Scope,
		}).Info("breadcrumb.command.cache.invalidated")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateCacheCommand]{
		commands.WithLogger[InvalidateCacheCommand](baseLogger),
		commands.WithOperation[InvalidateCacheCommand]("cache.invalidate"),
	}
	return &InvalidateCacheHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *InvalidateCacheHandler) Execute(ctx context.Context, msg InvalidateCacheCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportContentHandler runs the markdown importer.
type ImportContentHandler struct {
	inner *commands.Handler[ImportContentCommand]
	// last holds the result of the most recent successful run.
	last *importer.Result
}

func NewImportContentHandler(imp *importer.Importer, files FileSystem, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportContentCommand]) *ImportContentHandler {
	baseLogger := commands.EnsureLogger(logger)
	if files == nil {
		files = osFileSystem
	}
	h := &ImportContentHandler{}

	exec := func(ctx context.Context, msg ImportContentCommand) error {
		if !gates.importerEnabled() {
			return ErrImporterDisabled
		}
		if imp == nil {
			return errors.New("breadcrumb command: importer not configured")
		}
		fsys, dir := files(msg.Directory)
		result, err := imp.Import(ctx, fsys, dir, importer.Options{
			Root:          msg.Root,
			DryRun:        msg.DryRun,
			IncludeDrafts: msg.IncludeDrafts,
		})
		if err != nil {
			return err
		}
		h.last = result
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportContentCommand]{
		commands.WithLogger[ImportContentCommand](baseLogger),
		commands.WithOperation[ImportContentCommand]("content.import"),
		commands.WithMessageFields(func(msg ImportContentCommand) map[string]any {
			return map[string]any{
				"directory": msg.Directory,
				"root":      msg.Root,
				"dry_run":   msg.DryRun,
			}
		}),
	}
	h.inner = commands.NewHandler(exec, append(handlerOpts, opts...)...)
	return h
}

func (h *ImportContentHandler) Execute(ctx context.Context, msg ImportContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LastResult returns the result of the most recent successful import.
func (h *ImportContentHandler) LastResult() *importer.Result {
	return h.last
}

// SeedSiteHandler loads a site file and applies it.
type SeedSiteHandler struct {
	inner *commands.Handler[SeedSiteCommand]
	last  *fixtures.Result
}

func NewSeedSiteHandler(seeder *fixtures.Seeder, files FileSystem, logger interfaces.Logger, opts ...commands.HandlerOption[SeedSiteCommand]) *SeedSiteHandler {
	baseLogger := commands.EnsureLogger(logger)
	if files == nil {
		files = osFileSystem
	}
	h := &SeedSiteHandler{}

	exec := func(ctx context.Context, msg SeedSiteCommand) error {
		if seeder == nil {
			return errors.New("breadcrumb command: seeder not configured")
		}
		fsys, _ := files(filepath.Dir(msg.File))
		site, err := fixtures.Load(fsys, filepath.Base(msg.File))
		if err != nil {
			return err
		}
		result, err := seeder.Apply(ctx, site)
		if err != nil {
			return err
		}
		h.last = result
		return nil
	}

	handlerOpts := []commands.HandlerOption[SeedSiteCommand]{
		commands.WithLogger[SeedSiteCommand](baseLogger),
		commands.WithOperation[SeedSiteCommand]("site.seed"),
		commands.WithMessageFields(func(msg SeedSiteCommand) map[string]any {
			return map[string]any{"file": msg.File}
		}),
	}
	h.inner = commands.NewHandler(exec, append(handlerOpts, opts...)...)
	return h
}

func (h *SeedSiteHandler) Execute(ctx context.Context, msg SeedSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *SeedSiteHandler) LastResult() *fixtures.Result {
	return h.last
}
