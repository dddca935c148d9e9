package main

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	breadcrumb "github.com/goliatone/go-breadcrumb"
)

const envPrefix = "BREADCRUMB"

// loadConfig layers the config file and BREADCRUMB_* environment variables
// over the module defaults. Nested keys use underscores in the environment:
// storage.dsn is read from BREADCRUMB_STORAGE_DSN.
func loadConfig(path string) (breadcrumb.Config, error) {
	cfg := breadcrumb.DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, err
		}
	} else {
		v.SetConfigName("breadcrumb")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// setDefaults registers the scalar keys so AutomaticEnv can override them
// without a config file.
func setDefaults(v *viper.Viper, cfg breadcrumb.Config) {
	v.SetDefault("breadcrumb.menus", cfg.Breadcrumb.Menus)
	v.SetDefault("breadcrumb.separator", cfg.Breadcrumb.Separator)
	v.SetDefault("breadcrumb.link_not_found_mode", cfg.Breadcrumb.LinkNotFoundMode)
	v.SetDefault("breadcrumb.add_trailing_document_only", cfg.Breadcrumb.AddTrailingDocumentOnly)

	v.SetDefault("storage.provider", cfg.Storage.Provider)
	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.auto_migrate", cfg.Storage.AutoMigrate)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.default_ttl", cfg.Cache.DefaultTTL)

	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)

	v.SetDefault("importer.content_dir", cfg.Importer.ContentDir)
	v.SetDefault("importer.root", cfg.Importer.Root)
	v.SetDefault("importer.include_drafts", cfg.Importer.IncludeDrafts)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
