package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-breadcrumb/internal/runtimeconfig"
	"github.com/goliatone/go-breadcrumb/internal/sitemap"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "invalid link not found mode",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Breadcrumb.LinkNotFoundMode = "explode" },
			want:   runtimeconfig.ErrParametersInvalid,
		},
		{
			name:   "unknown storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "redis" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name: "bun without dsn",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = runtimeconfig.StorageBun
				cfg.Storage.DSN = " "
			},
			want: runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name: "bun with unknown driver",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = runtimeconfig.StorageBun
				cfg.Storage.Driver = "mysql"
				cfg.Storage.DSN = "root@/site"
			},
			want: runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name:   "negative cache ttl",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Cache.DefaultTTL = -time.Second },
			want:   runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name: "duplicate mounts",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Sitemap.Mounts = []sitemap.Mount{{Prefix: "/shop", Root: "/products"}, {Prefix: "/shop/", Root: "/catalog"}}
			},
			want: runtimeconfig.ErrSitemapInvalid,
		},
		{
			name:   "content route without routes",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Navigation.URLKit.ContentRoute = "page" },
			want:   runtimeconfig.ErrContentRouteRequiresRoutes,
		},
		{
			name:   "importer without directory",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Importer.ContentDir = "" },
			want:   runtimeconfig.ErrImporterDirRequired,
		},
		{
			name: "logging without provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsBunStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.DSN = "file::memory:?cache=shared"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	db := cfg.Storage.Database()
	if db.Driver != "sqlite3" || db.DSN != cfg.Storage.DSN {
		t.Fatalf("unexpected database config %+v", db)
	}
}

func TestConfigValidate_LoggingIgnoredWhenFeatureDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected logging to be ignored, got %v", err)
	}
}
