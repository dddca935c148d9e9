package breadcrumb

import "github.com/goliatone/go-breadcrumb/internal/runtimeconfig"

var (
	ErrParametersInvalid          = runtimeconfig.ErrParametersInvalid
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown       = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrSitemapInvalid             = runtimeconfig.ErrSitemapInvalid
	ErrContentRouteRequiresRoutes = runtimeconfig.ErrContentRouteRequiresRoutes
	ErrImporterDirRequired        = runtimeconfig.ErrImporterDirRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	StorageMemory = runtimeconfig.StorageMemory
	StorageBun    = runtimeconfig.StorageBun
)

type (
	Config               = runtimeconfig.Config
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	SitemapConfig        = runtimeconfig.SitemapConfig
	RenderConfig         = runtimeconfig.RenderConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	ImporterConfig       = runtimeconfig.ImporterConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
