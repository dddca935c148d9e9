package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-breadcrumb/internal/adapters"
	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	breadcrumbscmd "github.com/goliatone/go-breadcrumb/internal/commands/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/fixtures"
	bchttp "github.com/goliatone/go-breadcrumb/internal/http"
	"github.com/goliatone/go-breadcrumb/internal/importer"
	"github.com/goliatone/go-breadcrumb/internal/links"
	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/internal/logging/console"
	"github.com/goliatone/go-breadcrumb/internal/logging/gologger"
	"github.com/goliatone/go-breadcrumb/internal/menus"
	"github.com/goliatone/go-breadcrumb/internal/pages"
	"github.com/goliatone/go-breadcrumb/internal/render"
	"github.com/goliatone/go-breadcrumb/internal/runtimeconfig"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
	"github.com/goliatone/go-breadcrumb/internal/storage"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// Container wires module dependencies. Every binding can be replaced with an
// Option before the container is finalised.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	menuRepo     menus.MenuRepository
	menuItemRepo menus.MenuItemRepository
	pageRepo     pages.PageRepository

	routeManager    *urlkit.RouteManager
	urlkitResolver  *menus.URLKitResolver
	menuURLResolver menus.URLResolver

	menuSvc menus.Service
	pageSvc pages.Service

	sitemap         *sitemap.Resolver
	menuResolver    breadcrumbs.MenuResolver
	contentResolver breadcrumbs.ContentResolver
	links           breadcrumbs.LinkResolver
	builder         *breadcrumbs.Builder
	component       *breadcrumbs.Component
	renderer        *render.Renderer

	importer *importer.Importer
	seeder   *fixtures.Seeder
	commands *breadcrumbscmd.HandlerSet
	api      *bchttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache overrides the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBunDB binds the bun repositories to db. The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

func WithMenuURLResolver(resolver menus.URLResolver) Option {
	return func(c *Container) {
		c.menuURLResolver = resolver
	}
}

func WithMenuService(svc menus.Service) Option {
	return func(c *Container) {
		c.menuSvc = svc
	}
}

func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

func WithSitemap(resolver *sitemap.Resolver) Option {
	return func(c *Container) {
		c.sitemap = resolver
	}
}

// WithLinkResolver replaces the link resolver used by the builder.
// WithMenuResolver replaces the menu service adapter used by the builder.
func WithMenuResolver(resolver breadcrumbs.MenuResolver) Option {
	return func(c *Container) {
		c.menuResolver = resolver
	}
}

// WithContentResolver replaces the content tree adapter. Pass noop.Content()
// to build trails from menus only.
func WithContentResolver(resolver breadcrumbs.ContentResolver) Option {
	return func(c *Container) {
		c.contentResolver = resolver
	}
}

func WithLinkResolver(resolver breadcrumbs.LinkResolver) Option {
	return func(c *Container) {
		c.links = resolver
	}
}

func WithRenderer(renderer *render.Renderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// NewContainer validates cfg and wires the module.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		menuRepo:     menus.NewMemoryMenuRepository(),
		menuItemRepo: menus.NewMemoryMenuItemRepository(),
		pageRepo:     pages.NewMemoryPageRepository(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureNavigation()

	if c.pageSvc == nil {
		c.pageSvc = pages.NewService(c.pageRepo,
			pages.WithDeterministicIDs(cfg.Features.DeterministicIDs),
			pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		)
	}
	if c.menuSvc == nil {
		menuOpts := []menus.ServiceOption{
			menus.WithDeterministicIDs(cfg.Features.DeterministicIDs),
			menus.WithLogger(logging.MenusLogger(c.loggerProvider)),
		}
		if c.menuURLResolver != nil {
			menuOpts = append(menuOpts, menus.WithURLResolver(c.menuURLResolver))
		}
		c.menuSvc = menus.NewService(c.menuRepo, c.menuItemRepo, menuOpts...)
	}

	if err := c.configureBreadcrumbs(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		c.Close()
		return nil, err
	}
	c.api = bchttp.NewAPI(
		bchttp.WithBasePath(cfg.HTTP.BasePath),
		bchttp.WithBuilder(c.builder),
		bchttp.WithRenderer(c.renderer),
		bchttp.WithSitemap(c.sitemap),
		bchttp.WithMenuService(c.menuSvc),
		bchttp.WithPageService(c.pageSvc),
		bchttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level := strings.TrimSpace(logCfg.Level); level != "" {
			parsed, err := console.ParseLevel(level)
			if err != nil {
				return err
			}
			opts.MinLevel = &parsed
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), runtimeconfig.StorageBun) {
		return nil
	}
	db, err := storage.Open(c.Config.Storage.Database())
	if err != nil {
		return err
	}
	if c.Config.Storage.AutoMigrate {
		applied, err := storage.Migrate(context.Background(), db)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("di: migrate: %w", err)
		}
		logging.ModuleLogger(c.loggerProvider, "breadcrumb.storage").
			Info("storage.migrations.applied", "count", len(applied), "driver", c.Config.Storage.Driver)
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	if c.cacheService != nil {
		c.menuRepo = menus.NewBunMenuRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.menuItemRepo = menus.NewBunMenuItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.menuRepo = menus.NewBunMenuRepository(c.bunDB)
	c.menuItemRepo = menus.NewBunMenuItemRepository(c.bunDB)
	c.pageRepo = pages.NewBunPageRepository(c.bunDB)
}

func (c *Container) configureNavigation() {
	navCfg := c.Config.Navigation
	if c.routeManager == nil && navCfg.RouteConfig != nil {
		c.routeManager = urlkit.NewRouteManager(navCfg.RouteConfig)
	}
	if c.routeManager == nil {
		return
	}

	c.urlkitResolver = menus.NewURLKitResolver(menus.URLKitResolverOptions{
		Manager:      c.routeManager,
		Group:        strings.TrimSpace(navCfg.URLKit.Group),
		DefaultRoute: strings.TrimSpace(navCfg.URLKit.DefaultRoute),
		RouteField:   strings.TrimSpace(navCfg.URLKit.RouteField),
		ParamsField:  strings.TrimSpace(navCfg.URLKit.ParamsField),
		QueryField:   strings.TrimSpace(navCfg.URLKit.QueryField),
	})
	if c.menuURLResolver == nil {
		c.menuURLResolver = menus.ChainURLResolver{c.urlkitResolver, menus.PathURLResolver{}}
	}
}

func (c *Container) configureBreadcrumbs() error {
	if c.sitemap == nil {
		site, err := sitemap.New(c.Config.Sitemap.Mounts...)
		if err != nil {
			return err
		}
		c.sitemap = site
	}

	if c.links == nil {
		linkOpts := []links.Option{links.WithLogger(logging.BuilderLogger(c.loggerProvider))}
		if route := strings.TrimSpace(c.Config.Navigation.URLKit.ContentRoute); route != "" && c.urlkitResolver != nil {
			linkOpts = append(linkOpts, links.WithContentRoute(c.urlkitResolver, route))
		}
		c.links = links.New(c.pageSvc, c.sitemap, linkOpts...)
	}

	if c.menuResolver == nil {
		c.menuResolver = adapters.NewMenuAdapter(c.menuSvc, c.sitemap)
	}
	if c.contentResolver == nil {
		c.contentResolver = adapters.NewContentAdapter(c.pageSvc)
	}

	opts, err := breadcrumbs.ParseParameters(c.Config.Breadcrumb)
	if err != nil {
		return err
	}
	builder, err := breadcrumbs.NewBuilder(
		c.menuResolver,
		c.contentResolver,
		c.links,
		opts,
		breadcrumbs.WithLogger(logging.BuilderLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.builder = builder
	c.component = breadcrumbs.NewComponent(builder)

	if c.renderer == nil {
		renderOpts := []render.Option{
			render.WithClass(c.Config.Render.Class),
			render.WithAriaLabel(c.Config.Render.AriaLabel),
		}
		if tmpl := strings.TrimSpace(c.Config.Render.Template); tmpl != "" {
			renderOpts = append(renderOpts, render.WithTemplate(tmpl))
		}
		renderer, err := render.New(renderOpts...)
		if err != nil {
			return err
		}
		c.renderer = renderer
	}
	return nil
}

func (c *Container) configureCommands() error {
	c.importer = importer.New(c.pageSvc, importer.WithLogger(logging.ImporterLogger(c.loggerProvider)))
	c.seeder = fixtures.NewSeeder(c.menuSvc, c.pageSvc, fixtures.WithLogger(logging.ImporterLogger(c.loggerProvider)))

	cfg := c.Config
	set, err := breadcrumbscmd.RegisterCommands(nil, breadcrumbscmd.Services{
		Menus:    c.menuSvc,
		Pages:    c.pageSvc,
		Importer: c.importer,
		Seeder:   c.seeder,
	}, c.loggerProvider, breadcrumbscmd.FeatureGates{
		CacheEnabled:    func() bool { return cfg.Cache.Enabled },
		ImporterEnabled: func() bool { return cfg.Features.Importer },
	})
	if err != nil {
		return err
	}
	c.commands = set
	return nil
}

// Close releases the database opened by the container. Databases supplied
// through WithBunDB are left open.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) DB() *bun.DB { return c.bunDB }

func (c *Container) MenuService() menus.Service { return c.menuSvc }

func (c *Container) PageService() pages.Service { return c.pageSvc }

func (c *Container) Sitemap() *sitemap.Resolver { return c.sitemap }

// Builder returns the breadcrumb builder configured from Config.Breadcrumb.
func (c *Container) Builder() *breadcrumbs.Builder { return c.builder }

func (c *Container) Component() *breadcrumbs.Component { return c.component }

func (c *Container) Renderer() *render.Renderer { return c.renderer }

func (c *Container) Importer() *importer.Importer { return c.importer }

func (c *Container) Seeder() *fixtures.Seeder { return c.seeder }

// Commands returns the command handlers bound to the container services.
func (c *Container) Commands() *breadcrumbscmd.HandlerSet { return c.commands }

// API returns the HTTP adapter.
func (c *Container) API() *bchttp.API { return c.api }
