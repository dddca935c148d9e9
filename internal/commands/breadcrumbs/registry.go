package breadcrumbscmd

import (
	"errors"

	"github.com/goliatone/go-breadcrumb/internal/commands"
	"github.com/goliatone/go-breadcrumb/internal/fixtures"
	"github.com/goliatone/go-breadcrumb/internal/importer"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// CommandRegistry is the registration contract used when wiring handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Services are the collaborators the handlers operate on.
type Services struct {
	Menus    menus.Service
	Pages    pages.Service
	Importer *importer.Importer
	Seeder   *fixtures.Seeder
	// Files defaults to the local filesystem.
	Files FileSystem
}

// HandlerSet groups the handlers built by RegisterCommands.
type HandlerSet struct {
	InvalidateCache *InvalidateCacheHandler
	ImportContent   *ImportContentHandler
	SeedSite        *SeedSiteHandler
}

type Option func(*options)

type options struct {
	invalidateOpts []commands.HandlerOption[InvalidateCacheCommand]
	importOpts     []commands.HandlerOption[ImportContentCommand]
	seedOpts       []commands.HandlerOption[SeedSiteCommand]
}

func WithInvalidateHandlerOptions(opts ...commands.HandlerOption[InvalidateCacheCommand]) Option {
	return func(cfg *options) {
		cfg.invalidateOpts = append(cfg.invalidateOpts, opts...)
	}
}

func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportContentCommand]) Option {
	return func(cfg *options) {
		cfg.importOpts = append(cfg.importOpts, opts...)
	}
}

func WithSeedHandlerOptions(opts ...commands.HandlerOption[SeedSiteCommand]) Option {
	return func(cfg *options) {
		cfg.seedOpts = append(cfg.seedOpts, opts...)
	}
}

// RegisterCommands builds the handlers and registers them with reg when it is
// not nil. The handler set is returned so callers can subscribe them to a
// dispatcher.
func RegisterCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if services.Menus == nil && services.Pages == nil {
		return nil, errors.New("breadcrumb command registration: no services")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "breadcrumb")
	set := &HandlerSet{
		InvalidateCache: NewInvalidateCacheHandler(services.Menus, services.Pages, logger, gates, cfg.invalidateOpts...),
		ImportContent:   NewImportContentHandler(services.Importer, services.Files, logger, gates, cfg.importOpts...),
		SeedSite:        NewSeedSiteHandler(services.Seeder, services.Files, logger, cfg.seedOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.InvalidateCache, set.ImportContent, set.SeedSite} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
