package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
	"github.com/goliatone/go-breadcrumb/internal/storage"
)

var ErrParametersInvalid = errors.New("breadcrumb config: breadcrumb parameters are invalid")
var ErrStorageProviderUnknown = errors.New("breadcrumb config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("breadcrumb config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("breadcrumb config: storage dsn is required for the bun provider")
var ErrCacheTTLInvalid = errors.New("breadcrumb config: cache ttl must be zero or positive")
var ErrSitemapInvalid = errors.New("breadcrumb config: sitemap mounts are invalid")
var ErrContentRouteRequiresRoutes = errors.New("breadcrumb config: content route requires a route config")
var ErrImporterDirRequired = errors.New("breadcrumb config: importer content directory is required when the importer is enabled")
var ErrLoggingProviderRequired = errors.New("breadcrumb config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("breadcrumb config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("breadcrumb config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("breadcrumb config: logging format is invalid")

// Storage providers.
const (
	StorageMemory = "memory"
	StorageBun    = "bun"
)

// Config aggregates the breadcrumb parameters, adapter bindings and feature
// flags for the module.
type Config struct {
	Breadcrumb breadcrumbs.Parameters `mapstructure:"breadcrumb" yaml:"breadcrumb" json:"breadcrumb"`
	Storage    StorageConfig          `mapstructure:"storage" yaml:"storage" json:"storage"`
	Cache      CacheConfig            `mapstructure:"cache" yaml:"cache" json:"cache"`
	Navigation NavigationConfig       `mapstructure:"navigation" yaml:"navigation" json:"navigation"`
	Sitemap    SitemapConfig          `mapstructure:"sitemap" yaml:"sitemap" json:"sitemap"`
	Render     RenderConfig           `mapstructure:"render" yaml:"render" json:"render"`
	HTTP       HTTPConfig             `mapstructure:"http" yaml:"http" json:"http"`
	Importer   ImporterConfig         `mapstructure:"importer" yaml:"importer" json:"importer"`
	Features   Features               `mapstructure:"features" yaml:"features" json:"features"`
	Logging    LoggingConfig          `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// StorageConfig selects the repositories. The memory provider ignores the
// driver and DSN.
type StorageConfig struct {
	Provider     string `mapstructure:"provider" yaml:"provider" json:"provider"`
	Driver       string `mapstructure:"driver" yaml:"driver" json:"driver"`
	DSN          string `mapstructure:"dsn" yaml:"dsn" json:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns" json:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate" yaml:"auto_migrate" json:"auto_migrate"`
}

// Database returns the storage package configuration.
func (s StorageConfig) Database() storage.Config {
	return storage.Config{Driver: s.Driver, DSN: s.DSN, MaxOpenConns: s.MaxOpenConns}
}

type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl" yaml:"default_ttl" json:"default_ttl"`
}

// NavigationConfig captures routing configuration for menu and content URL
// resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config       `mapstructure:"routes" yaml:"routes" json:"routes,omitempty"`
	URLKit      URLKitResolverConfig `mapstructure:"urlkit" yaml:"urlkit" json:"urlkit"`
}

// URLKitResolverConfig configures the go-urlkit based resolvers.
type URLKitResolverConfig struct {
	Group        string `mapstructure:"group" yaml:"group" json:"group"`
	DefaultRoute string `mapstructure:"default_route" yaml:"default_route" json:"default_route"`
	// ContentRoute builds links for content nodes. Empty keeps path links.
	ContentRoute string `mapstructure:"content_route" yaml:"content_route" json:"content_route"`
	RouteField   string `mapstructure:"route_field" yaml:"route_field" json:"route_field"`
	ParamsField  string `mapstructure:"params_field" yaml:"params_field" json:"params_field"`
	QueryField   string `mapstructure:"query_field" yaml:"query_field" json:"query_field"`
}

type SitemapConfig struct {
	Mounts []sitemap.Mount `mapstructure:"mounts" yaml:"mounts" json:"mounts"`
}

type RenderConfig struct {
	Class     string `mapstructure:"class" yaml:"class" json:"class"`
	AriaLabel string `mapstructure:"aria_label" yaml:"aria_label" json:"aria_label"`
	// Template replaces the default html/template source.
	Template string `mapstructure:"template" yaml:"template" json:"template"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr" json:"addr"`
	BasePath string `mapstructure:"base_path" yaml:"base_path" json:"base_path"`
}

type ImporterConfig struct {
	ContentDir    string `mapstructure:"content_dir" yaml:"content_dir" json:"content_dir"`
	Root          string `mapstructure:"root" yaml:"root" json:"root"`
	IncludeDrafts bool   `mapstructure:"include_drafts" yaml:"include_drafts" json:"include_drafts"`
}

// Features toggles module functionality.
type Features struct {
	Importer bool `mapstructure:"importer" yaml:"importer" json:"importer"`
	Logger   bool `mapstructure:"logger" yaml:"logger" json:"logger"`
	// DeterministicIDs derives menu, item and page IDs from their keys.
	DeterministicIDs bool `mapstructure:"deterministic_ids" yaml:"deterministic_ids" json:"deterministic_ids"`
}

// LoggingConfig captures provider specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider" yaml:"provider" json:"provider"`
	Level     string   `mapstructure:"level" yaml:"level" json:"level"`
	Format    string   `mapstructure:"format" yaml:"format" json:"format"`
	AddSource bool     `mapstructure:"add_source" yaml:"add_source" json:"add_source"`
	Focus     []string `mapstructure:"focus" yaml:"focus" json:"focus"`
}

func DefaultConfig() Config {
	return Config{
		Breadcrumb: breadcrumbs.Parameters{
			Menus:     breadcrumbs.DefaultMenuName,
			Separator: breadcrumbs.DefaultSeparator,
		},
		Storage: StorageConfig{
			Provider:    StorageMemory,
			Driver:      storage.DriverSQLite,
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Sitemap: SitemapConfig{
			Mounts: sitemap.DefaultMounts(),
		},
		Render: RenderConfig{
			Class:     "breadcrumb",
			AriaLabel: "Breadcrumb",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Importer: ImporterConfig{
			ContentDir: "content",
			Root:       "/",
		},
		Features: Features{
			Importer:         true,
			DeterministicIDs: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	if _, err := breadcrumbs.ParseParameters(cfg.Breadcrumb); err != nil {
		return fmt.Errorf("%w: %v", ErrParametersInvalid, err)
	}

	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", StorageMemory:
	case StorageBun:
		switch normalize(cfg.Storage.Driver) {
		case "", storage.DriverSQLite, storage.DriverPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if _, err := sitemap.New(cfg.Sitemap.Mounts...); err != nil {
		return fmt.Errorf("%w: %v", ErrSitemapInvalid, err)
	}
	if strings.TrimSpace(cfg.Navigation.URLKit.ContentRoute) != "" && cfg.Navigation.RouteConfig == nil {
		return ErrContentRouteRequiresRoutes
	}
	if cfg.Features.Importer && strings.TrimSpace(cfg.Importer.ContentDir) == "" {
		return ErrImporterDirRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
