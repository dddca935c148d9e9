package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

const (
	rootModule     = "breadcrumb"
	builderModule  = "breadcrumb.builder"
	menusModule    = "breadcrumb.menus"
	pagesModule    = "breadcrumb.pages"
	importerModule = "breadcrumb.importer"
	httpModule     = "breadcrumb.http"
	commandsModule = "breadcrumb.commands"
)

const (
	fieldPathInfo = "path_info"
	fieldMenus    = "menus"
	fieldSource   = "source"
	fieldAction   = "action"
)

// ModuleLogger returns the provider's logger for module tagged with a
// "module" field. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

func BuilderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, builderModule)
}

func MenusLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, menusModule)
}

func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// ImporterLogger is used by the markdown importer and the site seeder.
func ImporterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importerModule)
}

func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithTrailContext tags logger with the request path and the menus a trail
// is built from. Blank values are skipped.
func WithTrailContext(logger interfaces.Logger, pathInfo string, menus []string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(pathInfo); trimmed != "" {
		fields[fieldPathInfo] = trimmed
	}
	if len(menus) > 0 {
		fields[fieldMenus] = strings.Join(menus, ",")
	}
	return WithFields(logger, fields)
}

// WithImportContext tags logger with the imported source and the action
// taken for it.
func WithImportContext(logger interfaces.Logger, source, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldSource] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
