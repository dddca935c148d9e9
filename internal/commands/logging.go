package commands

import (
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/logging"
	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// CommandLogger returns a logger for the named command module with the
// component and command_module fields attached.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.CommandsLogger(provider)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
